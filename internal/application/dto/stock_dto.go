package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Los campos de los requests son punteros para distinguir "ausente" de cero:
// la ubicación 0 (bodega) es válida.

// StockLevelRequest body para agregar stock o fijar el nivel (POST /api/stock/add, /api/stock/set).
type StockLevelRequest struct {
	StoredItemID *int64 `json:"storeditemid" validate:"required,gte=0"`
	LocationID   *int64 `json:"locationid" validate:"required,gte=0"`
	Amount       *int   `json:"amount" validate:"required,gte=1,lte=2147483647"`
	ReorderPoint *int   `json:"reorderpoint" validate:"required,gte=1,lte=2147483647"`
}

// ImportItemRequest esquema de cada elemento del lote de importación.
type ImportItemRequest = StockLevelRequest

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	StoredItemID  *int64 `json:"storeditemid" validate:"required,gte=0"`
	LocationID    *int64 `json:"locationid" validate:"required,gte=0"`
	NewLocationID *int64 `json:"newlocationid" validate:"required,gte=0"`
	Amount        *int   `json:"amount" validate:"required,gte=1,lte=2147483647"`
	ReorderPoint  *int   `json:"reorderpoint" validate:"required,gte=1,lte=2147483647"`
}

// IncrementStockRequest body para POST /api/stock/increment (ventas y anulaciones).
type IncrementStockRequest struct {
	StoredItemID *int64 `json:"storeditemid" validate:"required,gte=0"`
	LocationID   *int64 `json:"locationid" validate:"required,gte=0"`
	Amount       *int   `json:"amount" validate:"required,gte=1,lte=2147483647"`
	ReorderPoint *int   `json:"reorderpoint" validate:"required,gte=0,lte=2147483647"`
	Decrement    bool   `json:"decrement"`
}

// SupplierRequest body para PUT /api/items/:id/supplier.
type SupplierRequest struct {
	Code  *string          `json:"code" validate:"required"`
	Qty   *int             `json:"qty" validate:"required"`
	Name  *string          `json:"name" validate:"required"`
	TaxID *int64           `json:"taxid" validate:"required"`
	Cost  *decimal.Decimal `json:"cost" validate:"required"`
	Price *decimal.Decimal `json:"price" validate:"required"`
	Type  *string          `json:"type" validate:"required"`
}

// StageImportRequest body para POST /api/stock/import/set.
type StageImportRequest struct {
	ImportData []json.RawMessage    `json:"import_data"`
	Options    entity.ImportOptions `json:"options"`
}

// StageImportResponse confirmación del lote preparado.
type StageImportResponse struct {
	Items int `json:"items"`
}

// ImportResult resultado final de la importación: id del nivel → elemento aplicado.
type ImportResult struct {
	Data map[int64]entity.ImportedItem `json:"data"`
}

// ProgressEvent evento de progreso emitido durante la importación.
// Done marca el evento final de éxito, que siempre serializa data (aunque esté vacío).
type ProgressEvent struct {
	Status   string                        `json:"status,omitempty"`
	Progress int                           `json:"progress,omitempty"`
	Error    string                        `json:"error,omitempty"`
	Data     map[int64]entity.ImportedItem `json:"data,omitempty"`
	Done     bool                          `json:"-"`
}

// MarshalJSON omite data en eventos intermedios vacíos pero nunca en el final.
func (e ProgressEvent) MarshalJSON() ([]byte, error) {
	type event ProgressEvent
	if !e.Done {
		return json.Marshal(event(e))
	}
	data := e.Data
	if data == nil {
		data = map[int64]entity.ImportedItem{}
	}
	return json.Marshal(struct {
		event
		Data map[int64]entity.ImportedItem `json:"data"`
	}{event: event(e), Data: data})
}

// StockLevelResponse salida de un nivel de stock.
type StockLevelResponse struct {
	ID           int64     `json:"id"`
	StoredItemID int64     `json:"storeditemid"`
	LocationID   int64     `json:"locationid"`
	StockLevel   int       `json:"stocklevel"`
	ReorderPoint int       `json:"reorderpoint"`
	UpdatedAt    time.Time `json:"dt"`
}

// StockHistoryResponse salida de un registro de historial.
type StockHistoryResponse struct {
	ID           int64     `json:"id"`
	StoredItemID int64     `json:"storeditemid"`
	LocationID   int64     `json:"locationid"`
	Type         string    `json:"type"`
	Amount       int       `json:"amount"`
	SourceID     int64     `json:"sourceid"`
	Direction    int       `json:"direction"`
	CreatedAt    time.Time `json:"dt"`
}

// StoredItemResponse salida de un artículo.
type StoredItemResponse struct {
	ID    int64           `json:"id"`
	Code  string          `json:"code"`
	Qty   int             `json:"qty"`
	Name  string          `json:"name"`
	TaxID int64           `json:"taxid"`
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
	Type  string          `json:"type"`
}
