package http

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
)

var _ stock.ProgressSink = (*sseSink)(nil)

// sseSink escribe cada evento como "data: <json>\n\n" y hace flush inmediato.
type sseSink struct {
	w *bufio.Writer
}

func newSSESink(w *bufio.Writer) *sseSink {
	return &sseSink{w: w}
}

func (s *sseSink) Init() error {
	if _, err := s.w.WriteString(": import\n\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *sseSink) Send(ev dto.ProgressEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal progress event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return s.w.Flush()
}
