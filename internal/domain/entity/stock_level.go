package entity

import "time"

// StockLevel representa el stock actual de un artículo en una ubicación.
// Existe como máximo un registro por (StoredItemID, LocationID); LocationID 0 es la bodega.
type StockLevel struct {
	ID           int64
	StoredItemID int64
	LocationID   int64
	StockLevel   int
	ReorderPoint int
	UpdatedAt    time.Time
}

// StockLevelFilter filtros opcionales para listar niveles.
type StockLevelFilter struct {
	StoredItemID *int64
	LocationID   *int64
}
