package entity

import "time"

// Tipos de registro de historial.
const (
	StockHistoryAdded    = "Stock Added"
	StockHistoryTransfer = "Stock Transfer"
)

// Dirección de un tramo de traslado.
const (
	DirectionOut = 0 // salida (también el valor por defecto fuera de traslados)
	DirectionIn  = 1 // entrada en la ubicación destino
)

// NoSource valor de SourceID cuando el registro no se correlaciona con otra ubicación.
const NoSource int64 = -1

// StockHistory registro inmutable (solo inserción) de un cambio de cantidad.
// Amount es con signo: negativo para salidas.
type StockHistory struct {
	ID           int64
	StoredItemID int64
	LocationID   int64
	Type         string
	Amount       int
	SourceID     int64
	Direction    int
	CreatedAt    time.Time
}

// NewStockAdded crea el registro "Stock Added" sin correlación.
func NewStockAdded(storedItemID, locationID int64, amount int) *StockHistory {
	return &StockHistory{
		StoredItemID: storedItemID,
		LocationID:   locationID,
		Type:         StockHistoryAdded,
		Amount:       amount,
		SourceID:     NoSource,
		Direction:    DirectionOut,
	}
}

// NewTransferOut crea el tramo de salida de un traslado (cantidad negativa, SourceID = destino).
func NewTransferOut(storedItemID, fromLocation, toLocation int64, amount int) *StockHistory {
	return &StockHistory{
		StoredItemID: storedItemID,
		LocationID:   fromLocation,
		Type:         StockHistoryTransfer,
		Amount:       -amount,
		SourceID:     toLocation,
		Direction:    DirectionOut,
	}
}

// NewTransferIn crea el tramo de entrada de un traslado (cantidad positiva, SourceID = origen).
func NewTransferIn(storedItemID, fromLocation, toLocation int64, amount int) *StockHistory {
	return &StockHistory{
		StoredItemID: storedItemID,
		LocationID:   toLocation,
		Type:         StockHistoryTransfer,
		Amount:       amount,
		SourceID:     fromLocation,
		Direction:    DirectionIn,
	}
}
