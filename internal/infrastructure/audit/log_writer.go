// Package audit registro de auditoría sobre el logger estructurado, usado cuando no hay brokers Kafka.
package audit

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var _ stock.AuditLogger = (*LogWriter)(nil)

// LogWriter escribe cada entrada como un evento de log con action, category y details.
type LogWriter struct {
	log *logger.Logger
}

// NewLogWriter crea el writer.
func NewLogWriter(log *logger.Logger) *LogWriter {
	return &LogWriter{log: log.Component("audit")}
}

func (w *LogWriter) Write(_ context.Context, action, category string, details any) {
	raw, err := json.Marshal(details)
	if err != nil {
		w.log.Warn().Err(err).Str("action", action).Str("category", category).Msg("auditoría sin detalle serializable")
		return
	}
	w.log.Info().
		Str("action", action).
		Str("category", category).
		RawJSON("details", raw).
		Msg("auditoría")
}
