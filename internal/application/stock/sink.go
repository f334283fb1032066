package stock

import (
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// CollectingSink acumula los eventos en memoria (respuesta JSON sin streaming).
type CollectingSink struct {
	mu     sync.Mutex
	events []dto.ProgressEvent
}

// NewCollectingSink crea un sink vacío.
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

func (s *CollectingSink) Init() error { return nil }

func (s *CollectingSink) Send(ev dto.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Events copia de los eventos recibidos, en orden.
func (s *CollectingSink) Events() []dto.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.ProgressEvent, len(s.events))
	copy(out, s.events)
	return out
}
