// Package memory almacén en proceso para desarrollo y tests (STORE_DRIVER=memory).
// Las transacciones se serializan con un mutex y el rollback restaura una copia del estado.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

type levelKey struct {
	item int64
	loc  int64
}

type state struct {
	levels        map[levelKey]*entity.StockLevel
	history       []*entity.StockHistory
	items         map[int64]*entity.StoredItem
	nextLevelID   int64
	nextHistoryID int64
}

func newState() *state {
	return &state{
		levels: make(map[levelKey]*entity.StockLevel),
		items:  make(map[int64]*entity.StoredItem),
	}
}

func (s *state) clone() *state {
	c := &state{
		levels:        make(map[levelKey]*entity.StockLevel, len(s.levels)),
		history:       make([]*entity.StockHistory, len(s.history)),
		items:         make(map[int64]*entity.StoredItem, len(s.items)),
		nextLevelID:   s.nextLevelID,
		nextHistoryID: s.nextHistoryID,
	}
	for k, v := range s.levels {
		cp := *v
		c.levels[k] = &cp
	}
	// el historial es inmutable: basta copiar el slice
	copy(c.history, s.history)
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	return c
}

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedItem registra un artículo del catálogo.
func (s *Store) SeedItem(item entity.StoredItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := item
	s.st.items[item.ID] = &cp
}

// StockLevels repositorio de niveles fuera de transacción.
func (s *Store) StockLevels() *StockLevelRepo { return &StockLevelRepo{store: s} }

// StockHistory repositorio de historial fuera de transacción.
func (s *Store) StockHistory() *StockHistoryRepo { return &StockHistoryRepo{store: s} }

// StoredItems repositorio de artículos.
func (s *Store) StoredItems() *StoredItemRepo { return &StoredItemRepo{store: s} }

// TxRunner ejecuta fn con el almacén bloqueado; si fn falla se restaura el estado previo.
type TxRunner struct {
	store *Store
}

// NewTxRunner crea el runner sobre store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run implementa stock.TxRunner.
func (t *TxRunner) Run(ctx context.Context, fn func(
	levels repository.StockLevelRepository,
	history repository.StockHistoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snapshot := t.store.st.clone()
	err := fn(
		&StockLevelRepo{store: t.store, inTx: true},
		&StockHistoryRepo{store: t.store, inTx: true},
	)
	if err != nil {
		t.store.st = snapshot
		return err
	}
	return nil
}

// with ejecuta fn sobre el estado; dentro de una tx el runner ya tiene el lock.
func (s *Store) with(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}
