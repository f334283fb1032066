package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ImportBatchRepository = (*ImportBatchStore)(nil)

type storedBatch struct {
	payload   []byte
	expiresAt time.Time
}

// ImportBatchStore lotes de importación por sesión con vencimiento (REDIS_ADDR vacío).
// Guarda el JSON serializado, igual que el almacén Redis.
type ImportBatchStore struct {
	mu      sync.Mutex
	batches map[string]storedBatch
	now     func() time.Time
}

// NewImportBatchStore crea el almacén.
func NewImportBatchStore() *ImportBatchStore {
	return &ImportBatchStore{batches: make(map[string]storedBatch), now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (s *ImportBatchStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *ImportBatchStore) Save(ctx context.Context, sessionID string, batch *entity.ImportBatch, ttl time.Duration) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal import batch: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[sessionID] = storedBatch{payload: payload, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *ImportBatchStore) Get(ctx context.Context, sessionID string) (*entity.ImportBatch, error) {
	s.mu.Lock()
	b, ok := s.batches[sessionID]
	if ok && !s.now().Before(b.expiresAt) {
		delete(s.batches, sessionID)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var batch entity.ImportBatch
	if err := json.Unmarshal(b.payload, &batch); err != nil {
		return nil, fmt.Errorf("unmarshal import batch: %w", err)
	}
	return &batch, nil
}

func (s *ImportBatchStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, sessionID)
	return nil
}
