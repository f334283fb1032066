package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar stock por artículo+ubicación.
// Usado dentro de transacciones para garantizar consistencia.
type StockLevelRepository interface {
	// Get devuelve nil, nil si no existe registro para la llave.
	Get(ctx context.Context, storedItemID, locationID int64) (*entity.StockLevel, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, storedItemID, locationID int64) (*entity.StockLevel, error)
	List(ctx context.Context, filter entity.StockLevelFilter) ([]*entity.StockLevel, error)
	// Create inserta un nivel nuevo; ErrConflict si la llave ya existe.
	Create(ctx context.Context, level *entity.StockLevel) (int64, error)
	// IncrementStockLevel suma (o resta si decrement) amount y fija reorderPoint; crea el registro si falta.
	IncrementStockLevel(ctx context.Context, storedItemID, locationID int64, amount, reorderPoint int, decrement bool) (int64, error)
	// SetStockLevel sobrescribe el nivel (conteo físico); crea el registro si falta.
	SetStockLevel(ctx context.Context, storedItemID, locationID int64, amount, reorderPoint int) error
}
