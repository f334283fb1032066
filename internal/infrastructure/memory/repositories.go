package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.StockLevelRepository   = (*StockLevelRepo)(nil)
	_ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)
	_ repository.StoredItemRepository   = (*StoredItemRepo)(nil)
)

// StockLevelRepo niveles de stock en memoria.
type StockLevelRepo struct {
	store *Store
	inTx  bool
}

func (r *StockLevelRepo) Get(ctx context.Context, storedItemID, locationID int64) (*entity.StockLevel, error) {
	var out *entity.StockLevel
	err := r.store.with(r.inTx, func(st *state) error {
		if l, ok := st.levels[levelKey{storedItemID, locationID}]; ok {
			cp := *l
			out = &cp
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a Get: la tx ya tiene el almacén bloqueado.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, storedItemID, locationID int64) (*entity.StockLevel, error) {
	return r.Get(ctx, storedItemID, locationID)
}

func (r *StockLevelRepo) List(ctx context.Context, filter entity.StockLevelFilter) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	err := r.store.with(r.inTx, func(st *state) error {
		for _, l := range st.levels {
			if filter.StoredItemID != nil && l.StoredItemID != *filter.StoredItemID {
				continue
			}
			if filter.LocationID != nil && l.LocationID != *filter.LocationID {
				continue
			}
			cp := *l
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].StoredItemID != out[j].StoredItemID {
			return out[i].StoredItemID < out[j].StoredItemID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out, err
}

func (r *StockLevelRepo) Create(ctx context.Context, level *entity.StockLevel) (int64, error) {
	var id int64
	err := r.store.with(r.inTx, func(st *state) error {
		key := levelKey{level.StoredItemID, level.LocationID}
		if _, ok := st.levels[key]; ok {
			return domain.ErrConflict
		}
		st.nextLevelID++
		id = st.nextLevelID
		cp := *level
		cp.ID = id
		if cp.UpdatedAt.IsZero() {
			cp.UpdatedAt = r.store.now()
		}
		st.levels[key] = &cp
		return nil
	})
	if err == nil {
		level.ID = id
	}
	return id, err
}

func (r *StockLevelRepo) IncrementStockLevel(ctx context.Context, storedItemID, locationID int64, amount, reorderPoint int, decrement bool) (int64, error) {
	delta := amount
	if decrement {
		delta = -amount
	}
	var id int64
	err := r.store.with(r.inTx, func(st *state) error {
		l := st.upsert(storedItemID, locationID)
		l.StockLevel += delta
		l.ReorderPoint = reorderPoint
		l.UpdatedAt = r.store.now()
		id = l.ID
		return nil
	})
	return id, err
}

func (r *StockLevelRepo) SetStockLevel(ctx context.Context, storedItemID, locationID int64, amount, reorderPoint int) error {
	return r.store.with(r.inTx, func(st *state) error {
		l := st.upsert(storedItemID, locationID)
		l.StockLevel = amount
		l.ReorderPoint = reorderPoint
		l.UpdatedAt = r.store.now()
		return nil
	})
}

// upsert devuelve el nivel de la llave, creándolo en 0 si falta.
func (st *state) upsert(storedItemID, locationID int64) *entity.StockLevel {
	key := levelKey{storedItemID, locationID}
	l, ok := st.levels[key]
	if !ok {
		st.nextLevelID++
		l = &entity.StockLevel{ID: st.nextLevelID, StoredItemID: storedItemID, LocationID: locationID}
		st.levels[key] = l
	}
	return l
}

// StockHistoryRepo historial en memoria (solo inserción).
type StockHistoryRepo struct {
	store *Store
	inTx  bool
}

func (r *StockHistoryRepo) Create(ctx context.Context, record *entity.StockHistory) (int64, error) {
	var id int64
	err := r.store.with(r.inTx, func(st *state) error {
		st.nextHistoryID++
		id = st.nextHistoryID
		cp := *record
		cp.ID = id
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = r.store.now()
		}
		st.history = append(st.history, &cp)
		return nil
	})
	if err == nil {
		record.ID = id
	}
	return id, err
}

func (r *StockHistoryRepo) List(ctx context.Context, storedItemID, locationID int64) ([]*entity.StockHistory, error) {
	out := []*entity.StockHistory{}
	err := r.store.with(r.inTx, func(st *state) error {
		for _, h := range st.history {
			if h.StoredItemID == storedItemID && h.LocationID == locationID {
				cp := *h
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

// StoredItemRepo artículos en memoria.
type StoredItemRepo struct {
	store *Store
}

func (r *StoredItemRepo) GetByID(ctx context.Context, id int64) (*entity.StoredItem, error) {
	var out *entity.StoredItem
	err := r.store.with(false, func(st *state) error {
		if it, ok := st.items[id]; ok {
			cp := *it
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *StoredItemRepo) EditSupplier(ctx context.Context, id int64, info entity.SupplierInfo) error {
	return r.store.with(false, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		it.ApplySupplier(info)
		it.UpdatedAt = r.store.now()
		return nil
	})
}
