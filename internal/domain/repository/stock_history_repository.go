package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockHistoryRepository define el puerto del historial de stock (solo inserción).
type StockHistoryRepository interface {
	Create(ctx context.Context, record *entity.StockHistory) (int64, error)
	// List devuelve los registros de la llave, más recientes primero.
	List(ctx context.Context, storedItemID, locationID int64) ([]*entity.StockHistory, error)
}
