package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

const stockLevelColumns = `id, storeditemid, locationid, stocklevel, reorderpoint, dt`

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get obtiene el nivel de un artículo en una ubicación; nil si no existe.
func (r *StockLevelRepo) Get(ctx context.Context, storedItemID, locationID int64) (*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels WHERE storeditemid = $1 AND locationid = $2`
	l, err := scanStockLevel(r.q.QueryRow(ctx, query, storedItemID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return l, nil
}

// GetForUpdate obtiene el nivel y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, storedItemID, locationID int64) (*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels WHERE storeditemid = $1 AND locationid = $2 FOR UPDATE`
	l, err := scanStockLevel(r.q.QueryRow(ctx, query, storedItemID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return l, nil
}

// List niveles con filtros opcionales, ordenados por artículo y ubicación.
func (r *StockLevelRepo) List(ctx context.Context, filter entity.StockLevelFilter) ([]*entity.StockLevel, error) {
	var (
		where []string
		args  []any
	)
	if filter.StoredItemID != nil {
		args = append(args, *filter.StoredItemID)
		where = append(where, fmt.Sprintf("storeditemid = $%d", len(args)))
	}
	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		where = append(where, fmt.Sprintf("locationid = $%d", len(args)))
	}
	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY storeditemid, locationid`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ID, &l.StoredItemID, &l.LocationID, &l.StockLevel, &l.ReorderPoint, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// Create inserta un nivel nuevo; ErrConflict si la llave ya existe.
func (r *StockLevelRepo) Create(ctx context.Context, level *entity.StockLevel) (int64, error) {
	query := `
		INSERT INTO stock_levels (storeditemid, locationid, stocklevel, reorderpoint, dt)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, dt`
	err := r.q.QueryRow(ctx, query, level.StoredItemID, level.LocationID, level.StockLevel, level.ReorderPoint).
		Scan(&level.ID, &level.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("create stock level: %w", err)
	}
	return level.ID, nil
}

// IncrementStockLevel suma (o resta) amount en un solo upsert y fija el punto de reorden.
func (r *StockLevelRepo) IncrementStockLevel(ctx context.Context, storedItemID, locationID int64, amount, reorderPoint int, decrement bool) (int64, error) {
	delta := amount
	if decrement {
		delta = -amount
	}
	query := `
		INSERT INTO stock_levels (storeditemid, locationid, stocklevel, reorderpoint, dt)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (storeditemid, locationid)
		DO UPDATE SET stocklevel = stock_levels.stocklevel + EXCLUDED.stocklevel,
		              reorderpoint = EXCLUDED.reorderpoint,
		              dt = now()
		RETURNING id`
	var id int64
	if err := r.q.QueryRow(ctx, query, storedItemID, locationID, delta, reorderPoint).Scan(&id); err != nil {
		return 0, fmt.Errorf("increment stock level: %w", err)
	}
	return id, nil
}

// SetStockLevel sobrescribe el nivel (conteo físico).
func (r *StockLevelRepo) SetStockLevel(ctx context.Context, storedItemID, locationID int64, amount, reorderPoint int) error {
	query := `
		INSERT INTO stock_levels (storeditemid, locationid, stocklevel, reorderpoint, dt)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (storeditemid, locationid)
		DO UPDATE SET stocklevel = EXCLUDED.stocklevel, reorderpoint = EXCLUDED.reorderpoint, dt = now()`
	if _, err := r.q.Exec(ctx, query, storedItemID, locationID, amount, reorderPoint); err != nil {
		return fmt.Errorf("set stock level: %w", err)
	}
	return nil
}

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var l entity.StockLevel
	err := row.Scan(&l.ID, &l.StoredItemID, &l.LocationID, &l.StockLevel, &l.ReorderPoint, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
