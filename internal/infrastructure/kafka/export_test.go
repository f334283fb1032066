package kafka

import (
	"time"

	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// NewAuditPublisherForTest expone el constructor con writer inyectable.
func NewAuditPublisherForTest(log *logger.Logger, w messageWriter, topic string, now func() time.Time) *AuditPublisher {
	return newAuditPublisherWithWriter(log, w, topic, now)
}
