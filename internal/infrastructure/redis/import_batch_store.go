// Package redis guarda el lote de importación pendiente de cada sesión en Redis, con TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var _ repository.ImportBatchRepository = (*ImportBatchStore)(nil)

// ImportBatchStore un valor JSON por sesión bajo stock:import:<session>.
type ImportBatchStore struct {
	client *redis.Client
	log    *logger.Logger
}

// NewImportBatchStore construye el almacén sobre un cliente ya conectado.
func NewImportBatchStore(client *redis.Client, log *logger.Logger) *ImportBatchStore {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportBatchStore{client: client, log: log.Component("import_batch_redis")}
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func batchKey(sessionID string) string {
	return fmt.Sprintf("stock:import:%s", sessionID)
}

// Save reemplaza el lote de la sesión.
func (s *ImportBatchStore) Save(ctx context.Context, sessionID string, batch *entity.ImportBatch, ttl time.Duration) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal import batch: %w", err)
	}
	if err := s.client.Set(ctx, batchKey(sessionID), payload, ttl).Err(); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("no se pudo guardar el lote en redis")
		return fmt.Errorf("save import batch: %w", err)
	}
	s.log.Debug().Str("session_id", sessionID).Int("items", len(batch.Items)).Dur("ttl", ttl).Msg("lote de importación guardado")
	return nil
}

// Get devuelve nil, nil si la sesión no tiene lote o ya venció.
func (s *ImportBatchStore) Get(ctx context.Context, sessionID string) (*entity.ImportBatch, error) {
	payload, err := s.client.Get(ctx, batchKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get import batch: %w", err)
	}
	var batch entity.ImportBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("unmarshal import batch: %w", err)
	}
	return &batch, nil
}

// Delete elimina el lote; no falla si no existía.
func (s *ImportBatchStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, batchKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete import batch: %w", err)
	}
	return nil
}
