package stock_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var errDiskFull = errors.New("disk full")

type auditEntry struct {
	Action   string
	Category string
	Details  any
}

// auditSpy captura las entradas de auditoría.
type auditSpy struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditSpy) Write(_ context.Context, action, category string, details any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action, category, details})
}

func (a *auditSpy) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

// flakyRunner envuelve un TxRunner y hace fallar la n-ésima escritura de historial (1-based).
type flakyRunner struct {
	inner         stock.TxRunner
	failHistoryAt int
	historyCalls  int
}

func (f *flakyRunner) Run(ctx context.Context, fn func(
	levels repository.StockLevelRepository,
	history repository.StockHistoryRepository,
) error) error {
	return f.inner.Run(ctx, func(levels repository.StockLevelRepository, history repository.StockHistoryRepository) error {
		return fn(levels, &flakyHistory{StockHistoryRepository: history, runner: f})
	})
}

type flakyHistory struct {
	repository.StockHistoryRepository
	runner *flakyRunner
}

func (h *flakyHistory) Create(ctx context.Context, record *entity.StockHistory) (int64, error) {
	h.runner.historyCalls++
	if h.runner.historyCalls == h.runner.failHistoryAt {
		return 0, errDiskFull
	}
	return h.StockHistoryRepository.Create(ctx, record)
}

// failingSink devuelve error en cada envío; la importación debe continuar.
type failingSink struct{ sent int }

func (s *failingSink) Init() error { return errors.New("closed") }

func (s *failingSink) Send(_ dto.ProgressEvent) error { s.sent++; return errors.New("closed") }
