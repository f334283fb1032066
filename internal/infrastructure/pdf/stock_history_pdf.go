// Package pdf genera el reporte de historial de stock de un artículo en una ubicación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Historial de stock  │  Artículo / Ubicación        │
//	│  RESUMEN: nivel actual + punto de reorden                   │
//	│  TABLA: Fecha | Tipo | Cantidad | Origen/Destino | Dir.      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

var _ stock.HistoryPDFGenerator = (*StockHistoryPDF)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// StockHistoryPDF implementa stock.HistoryPDFGenerator usando Maroto v2.
type StockHistoryPDF struct {
	now func() time.Time
}

// NewStockHistoryPDF construye el generador.
func NewStockHistoryPDF() *StockHistoryPDF { return &StockHistoryPDF{now: time.Now} }

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *StockHistoryPDF) GenerateHistoryPDF(
	_ context.Context,
	storedItemID, locationID int64,
	level *entity.StockLevel,
	records []*entity.StockHistory,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(storedItemID, locationID, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(level))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(records) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Sin movimientos registrados", props.Text{
			Size: 8, Top: 2, Align: align.Center, Color: colorGray,
		}))))
	}
	m.AddRows(tableRows(records)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(storedItemID, locationID int64, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("HISTORIAL DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Artículo #%d", storedItemID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(locationLabel(locationID), props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func summaryRow(level *entity.StockLevel) core.Row {
	current, reorder := "—", "—"
	if level != nil {
		current = strconv.Itoa(level.StockLevel)
		reorder = strconv.Itoa(level.ReorderPoint)
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New("NIVEL ACTUAL", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(current, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		),
		col.New(6).Add(
			text.New("PUNTO DE REORDEN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(reorder, props.Text{Size: 11, Top: 5}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Tipo", 3, align.Left),
		h("Cantidad", 2, align.Right),
		h("Origen/Destino", 3, align.Left),
		h("Dir.", 1, align.Center),
	)
}

func tableRows(records []*entity.StockHistory) []core.Row {
	out := make([]core.Row, 0, len(records))
	for _, r := range records {
		amountProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if r.Amount < 0 {
			amountProps.Color = colorRed
		}
		counterpart := "—"
		if r.SourceID != entity.NoSource {
			counterpart = locationLabel(r.SourceID)
		}
		dir := "Sal."
		if r.Direction == entity.DirectionIn {
			dir = "Ent."
		}
		out = append(out, row.New(6).Add(
			col.New(3).Add(text.New(r.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(r.Type, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.Itoa(r.Amount), amountProps)),
			col.New(3).Add(text.New(counterpart, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(dir, props.Text{Size: 8, Top: 1, Align: align.Center})),
		))
	}
	return out
}

func locationLabel(id int64) string {
	if id == 0 {
		return "Bodega (ubicación 0)"
	}
	return fmt.Sprintf("Ubicación #%d", id)
}
