package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StoredItemRepository define el puerto de persistencia para artículos (DIP).
type StoredItemRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.StoredItem, error)
	// EditSupplier actualiza los datos de proveedor; ErrNotFound si el artículo no existe.
	EditSupplier(ctx context.Context, id int64, info entity.SupplierInfo) error
}
