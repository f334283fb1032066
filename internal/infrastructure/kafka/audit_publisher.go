// Package kafka publica las entradas de auditoría de stock como eventos en Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var _ stock.AuditLogger = (*AuditPublisher)(nil)

// EventTypeStockAudit tipo de evento publicado.
const EventTypeStockAudit = "stock.audit"

// AuditEvent payload del mensaje.
type AuditEvent struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	EventVersion int    `json:"event_version"`
	OccurredAt   string `json:"occurred_at"`
	Action       string `json:"action"`
	Category     string `json:"category"`
	Details      any    `json:"details"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditPublisher implementa stock.AuditLogger. El writer es asíncrono: Write no bloquea
// la operación de stock y los fallos de entrega solo se registran en el log.
type AuditPublisher struct {
	log    *logger.Logger
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewAuditPublisher crea el publisher sobre brokers/topic.
func NewAuditPublisher(log *logger.Logger, brokers []string, topic string) *AuditPublisher {
	p := &AuditPublisher{log: log.Component("audit_kafka"), topic: topic, now: time.Now}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion:   p.completion,
	}
	return p
}

func newAuditPublisherWithWriter(log *logger.Logger, w messageWriter, topic string, now func() time.Time) *AuditPublisher {
	return &AuditPublisher{log: log, writer: w, topic: topic, now: now}
}

// Close vacía los mensajes pendientes y cierra el writer.
func (p *AuditPublisher) Close() error {
	return p.writer.Close()
}

// Write publica la entrada; la clave del mensaje es la categoría.
func (p *AuditPublisher) Write(ctx context.Context, action, category string, details any) {
	event := AuditEvent{
		EventID:      uuid.New().String(),
		EventType:    EventTypeStockAudit,
		EventVersion: 1,
		OccurredAt:   p.now().UTC().Format(time.RFC3339),
		Action:       action,
		Category:     category,
		Details:      details,
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Str("action", action).Msg("no se pudo serializar el evento de auditoría")
		return
	}
	msg := kafka.Message{Key: []byte(category), Value: value}
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		p.log.Error().Err(err).Str("topic", p.topic).Str("action", action).Msg("no se pudo publicar el evento de auditoría")
		return
	}
	p.log.Debug().Str("topic", p.topic).Str("event_id", event.EventID).Str("action", action).Msg("evento de auditoría encolado")
}

func (p *AuditPublisher) completion(msgs []kafka.Message, err error) {
	if err != nil {
		p.log.Error().Err(err).Str("topic", p.topic).Int("messages", len(msgs)).Msg("fallo la entrega de eventos de auditoría")
	}
}
