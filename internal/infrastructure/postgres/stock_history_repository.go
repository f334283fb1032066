package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo historial de stock (solo inserción) sobre PostgreSQL.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Create inserta el registro y devuelve su id.
func (r *StockHistoryRepo) Create(ctx context.Context, rec *entity.StockHistory) (int64, error) {
	query := `
		INSERT INTO stock_history (storeditemid, locationid, type, amount, sourceid, direction, dt)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, dt`
	err := r.q.QueryRow(ctx, query,
		rec.StoredItemID, rec.LocationID, rec.Type, rec.Amount, rec.SourceID, rec.Direction,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("create stock history: %w", err)
	}
	return rec.ID, nil
}

// List historial de la llave, más recientes primero.
func (r *StockHistoryRepo) List(ctx context.Context, storedItemID, locationID int64) ([]*entity.StockHistory, error) {
	query := `
		SELECT id, storeditemid, locationid, type, amount, sourceid, direction, dt
		FROM stock_history
		WHERE storeditemid = $1 AND locationid = $2
		ORDER BY dt DESC, id DESC`
	rows, err := r.q.Query(ctx, query, storedItemID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()

	out := []*entity.StockHistory{}
	for rows.Next() {
		var h entity.StockHistory
		if err := rows.Scan(&h.ID, &h.StoredItemID, &h.LocationID, &h.Type, &h.Amount, &h.SourceID, &h.Direction, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock history: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}
