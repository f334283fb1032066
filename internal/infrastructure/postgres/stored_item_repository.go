package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StoredItemRepository = (*StoredItemRepo)(nil)

// StoredItemRepo artículos del catálogo sobre PostgreSQL.
type StoredItemRepo struct {
	q Querier
}

// NewStoredItemRepository construye el adaptador.
func NewStoredItemRepository(q Querier) *StoredItemRepo {
	return &StoredItemRepo{q: q}
}

// GetByID nil si no existe.
func (r *StoredItemRepo) GetByID(ctx context.Context, id int64) (*entity.StoredItem, error) {
	query := `
		SELECT id, code, qty, name, taxid, cost, price, type, updated_at
		FROM stored_items WHERE id = $1`
	var it entity.StoredItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Code, &it.Qty, &it.Name, &it.TaxID, &it.Cost, &it.Price, &it.Type, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stored item: %w", err)
	}
	return &it, nil
}

// EditSupplier actualiza los datos de proveedor; ErrNotFound si el artículo no existe.
func (r *StoredItemRepo) EditSupplier(ctx context.Context, id int64, info entity.SupplierInfo) error {
	query := `
		UPDATE stored_items
		SET code = $2, qty = $3, name = $4, taxid = $5, cost = $6, price = $7, type = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, info.Code, info.Qty, info.Name, info.TaxID, info.Cost, info.Price, info.Type)
	if err != nil {
		return fmt.Errorf("edit stored item supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
