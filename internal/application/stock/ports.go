package stock

import (
	"context"
	"encoding/json"
	"io"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		levels repository.StockLevelRepository,
		history repository.StockHistoryRepository,
	) error) error
}

// ProgressSink canal de eventos de progreso hacia el cliente durante operaciones largas.
type ProgressSink interface {
	Init() error
	Send(event dto.ProgressEvent) error
}

// AuditLogger registro de auditoría "fire-and-forget": los fallos no afectan la operación.
type AuditLogger interface {
	Write(ctx context.Context, action, category string, details any)
}

// HistoryPDFGenerator genera el reporte PDF del historial de una llave artículo+ubicación.
// level puede ser nil si aún no existe nivel para la llave.
type HistoryPDFGenerator interface {
	GenerateHistoryPDF(
		ctx context.Context,
		storedItemID, locationID int64,
		level *entity.StockLevel,
		records []*entity.StockHistory,
	) ([]byte, error)
}

// CSVParser convierte un CSV subido en elementos crudos de importación.
type CSVParser interface {
	Parse(r io.Reader, opts entity.ImportOptions) ([]json.RawMessage, error)
}

// Acciones y categoría de auditoría.
const (
	AuditCategoryStock  = "STOCK"
	AuditStockAdded     = "Stock Added"
	AuditStockTransfer  = "Stock Transfer"
	AuditStockLevelSet  = "Stock Level Set"
	AuditSupplierEdited = "Item Supplier Edited"
)
