// Package csvimport convierte el CSV de importación de stock en elementos crudos para el lote.
package csvimport

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Columns columnas reconocidas, en el orden posicional por defecto.
var Columns = []string{"storeditemid", "locationid", "amount", "reorderpoint"}

// Parser lector CSV con soporte de delimitador y charset.
type Parser struct{}

// NewParser crea el parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse lee r y devuelve un elemento JSON por fila de datos.
// Si la primera fila (tras skipfirstrow) nombra las cuatro columnas se usa como encabezado;
// si no, las columnas se toman en orden posicional.
// Las celdas enteras se emiten como números y el resto como texto.
func (p *Parser) Parse(r io.Reader, opts entity.ImportOptions) ([]json.RawMessage, error) {
	src, err := decoder(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	comma, err := delimiter(opts.Delimiter)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(src)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, invalid(fmt.Sprintf("CSV fila %d: %v", perr.StartLine, perr.Err))
		}
		return nil, fmt.Errorf("read import CSV: %w", err)
	}

	row := 1
	if opts.SkipFirstRow && len(records) > 0 {
		records = records[1:]
		row++
	}
	if len(records) == 0 {
		return nil, invalid("el CSV no tiene filas de datos")
	}

	index, isHeader := headerIndex(records[0])
	if isHeader {
		records = records[1:]
		row++
	}

	items := make([]json.RawMessage, 0, len(records))
	for i, rec := range records {
		if blank(rec) {
			continue
		}
		obj := make(map[string]any, len(Columns))
		for col, pos := range index {
			if pos >= len(rec) {
				return nil, invalid(fmt.Sprintf("CSV fila %d: falta la columna %s", row+i, col))
			}
			obj[col] = cell(rec[pos])
		}
		b, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("marshal CSV row %d: %w", row+i, err)
		}
		items = append(items, b)
	}
	return items, nil
}

func decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, domain.NewValidationError([]string{"charset"}, []string{"charset no soportado: " + charset})
}

func delimiter(d string) (rune, error) {
	switch d {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, domain.NewValidationError([]string{"delimiter"}, []string{"delimiter debe ser un solo carácter"})
	}
	c, _ := utf8.DecodeRuneInString(d)
	if c == '"' || c == '\r' || c == '\n' {
		return 0, domain.NewValidationError([]string{"delimiter"}, []string{"delimiter inválido"})
	}
	return c, nil
}

// headerIndex devuelve la posición de cada columna y si la fila es un encabezado.
func headerIndex(first []string) (map[string]int, bool) {
	index := make(map[string]int, len(Columns))
	for i, name := range first {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		for _, col := range Columns {
			if name == col {
				index[col] = i
			}
		}
	}
	if len(index) == len(Columns) {
		return index, true
	}
	for i, col := range Columns {
		index[col] = i
	}
	return index, false
}

func cell(v string) any {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return v
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func invalid(msg string) error {
	return domain.NewValidationError([]string{"file"}, []string{msg})
}
