package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ImportBatchRepository guarda el lote de importación pendiente de cada sesión.
// Un lote nuevo reemplaza al anterior de la misma sesión.
type ImportBatchRepository interface {
	Save(ctx context.Context, sessionID string, batch *entity.ImportBatch, ttl time.Duration) error
	// Get devuelve nil, nil si la sesión no tiene lote (o expiró).
	Get(ctx context.Context, sessionID string) (*entity.ImportBatch, error)
	Delete(ctx context.Context, sessionID string) error
}
