package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
	"github.com/jhoicas/stock-ledger-api/pkg/validation"
)

// Estados emitidos durante la importación.
const (
	StatusValidating = "Validating Items..."
	StatusImporting  = "Importing Items..."
)

// DefaultBatchTTL vigencia del lote preparado si no se configura otra.
const DefaultBatchTTL = 60 * time.Minute

// ImportUseCase importación masiva en dos pasos: preparar el lote por sesión y luego aplicarlo.
type ImportUseCase struct {
	txRunner  TxRunner
	batches   repository.ImportBatchRepository
	csv       CSVParser
	audit     AuditLogger
	log       *logger.Logger
	ttl       time.Duration
	validator *validation.Validator
	now       func() time.Time
}

// NewImportUseCase construye el caso de uso. ttl <= 0 usa DefaultBatchTTL.
func NewImportUseCase(
	txRunner TxRunner,
	batches repository.ImportBatchRepository,
	csv CSVParser,
	audit AuditLogger,
	log *logger.Logger,
	ttl time.Duration,
) *ImportUseCase {
	if ttl <= 0 {
		ttl = DefaultBatchTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ImportUseCase{
		txRunner:  txRunner,
		batches:   batches,
		csv:       csv,
		audit:     audit,
		log:       log.Component("stock_import"),
		ttl:       ttl,
		validator: validation.New(),
		now:       time.Now,
	}
}

// StageImport guarda los elementos (sin validar) como lote pendiente de la sesión.
// Reemplaza cualquier lote anterior de la misma sesión.
func (uc *ImportUseCase) StageImport(ctx context.Context, sessionID string, in dto.StageImportRequest) (*dto.StageImportResponse, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSession
	}
	// Sin import_data el lote queda con Items nil y StartImport lo trata como no recibido;
	// una lista vacía explícita sí es un lote válido.
	batch := &entity.ImportBatch{Items: in.ImportData, Options: in.Options, StagedAt: uc.now()}
	if err := uc.batches.Save(ctx, sessionID, batch, uc.ttl); err != nil {
		return nil, storeErr("guardar lote de importación", err)
	}
	return &dto.StageImportResponse{Items: len(in.ImportData)}, nil
}

// StageImportCSV convierte el CSV en elementos y los prepara igual que StageImport.
func (uc *ImportUseCase) StageImportCSV(ctx context.Context, sessionID string, r io.Reader, opts entity.ImportOptions) (*dto.StageImportResponse, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSession
	}
	if uc.csv == nil {
		return nil, domain.NewValidationError([]string{"file"}, []string{"importación CSV no disponible"})
	}
	items, err := uc.csv.Parse(r, opts)
	if err != nil {
		return nil, err
	}
	return uc.StageImport(ctx, sessionID, dto.StageImportRequest{ImportData: items, Options: opts})
}

// StartImport valida todo el lote y luego aplica cada elemento en su propia transacción,
// emitiendo progreso por sink. Si falla el elemento k, los anteriores quedan aplicados
// y el lote permanece preparado.
func (uc *ImportUseCase) StartImport(ctx context.Context, sessionID string, sink ProgressSink) (*dto.ImportResult, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSession
	}
	if err := sink.Init(); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo iniciar el canal de progreso")
	}

	batch, err := uc.batches.Get(ctx, sessionID)
	if err != nil {
		err = storeErr("obtener lote de importación", err)
		uc.send(sink, dto.ProgressEvent{Error: err.Error()})
		return nil, err
	}
	if batch == nil || batch.Items == nil {
		uc.send(sink, dto.ProgressEvent{Error: domain.ErrNoPendingImport.Error()})
		return nil, domain.ErrNoPendingImport
	}

	// Validación completa antes de escribir
	uc.send(sink, dto.ProgressEvent{Status: StatusValidating})
	items := make([]entity.ImportedItem, 0, len(batch.Items))
	for i, raw := range batch.Items {
		line := i + 1
		uc.send(sink, dto.ProgressEvent{Status: StatusValidating, Progress: line})
		item, err := uc.parseItem(line, raw)
		if err != nil {
			uc.send(sink, dto.ProgressEvent{Error: err.Error()})
			return nil, err
		}
		items = append(items, item)
	}

	uc.send(sink, dto.ProgressEvent{Status: StatusImporting})
	result := make(map[int64]entity.ImportedItem, len(items))
	for i, item := range items {
		line := i + 1
		uc.send(sink, dto.ProgressEvent{Progress: line})

		id, err := uc.importItem(ctx, item)
		if err != nil {
			err = storeErr("importar elemento", err)
			uc.log.Error().Err(err).Int("line", line).Str("session_id", sessionID).Msg("importación abortada")
			uc.send(sink, dto.ProgressEvent{
				Error: fmt.Sprintf("Failed to add the item on line %d of the CSV: %s", line, err.Error()),
				Data:  result,
			})
			return &dto.ImportResult{Data: result}, err
		}
		item.ID = id
		result[id] = item
		uc.audit.Write(ctx, AuditStockAdded, AuditCategoryStock, item)
	}

	if err := uc.batches.Delete(ctx, sessionID); err != nil {
		err = storeErr("eliminar lote de importación", err)
		uc.send(sink, dto.ProgressEvent{Error: err.Error(), Data: result})
		return &dto.ImportResult{Data: result}, err
	}

	uc.send(sink, dto.ProgressEvent{Data: result, Done: true})
	return &dto.ImportResult{Data: result}, nil
}

// parseItem decodifica y valida un elemento crudo; los errores nombran la línea.
func (uc *ImportUseCase) parseItem(line int, raw json.RawMessage) (entity.ImportedItem, error) {
	var req dto.ImportItemRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		field := ""
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field = typeErr.Field
		}
		return entity.ImportedItem{}, domain.NewValidationError(
			[]string{field},
			[]string{fmt.Sprintf("línea %d: elemento inválido: %s", line, err.Error())},
		)
	}
	if err := validate(uc.validator, req); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			msgs := make([]string, len(verr.Messages))
			for i, m := range verr.Messages {
				msgs[i] = fmt.Sprintf("línea %d: %s", line, m)
			}
			return entity.ImportedItem{}, domain.NewValidationError(verr.Fields, msgs)
		}
		return entity.ImportedItem{}, err
	}
	return entity.ImportedItem{
		StoredItemID: *req.StoredItemID,
		LocationID:   *req.LocationID,
		Amount:       *req.Amount,
		ReorderPoint: *req.ReorderPoint,
	}, nil
}

// importItem aplica un elemento: incrementa el nivel existente o lo crea, y registra "Stock Added".
func (uc *ImportUseCase) importItem(ctx context.Context, item entity.ImportedItem) (int64, error) {
	var id int64
	err := uc.txRunner.Run(ctx, func(
		levels repository.StockLevelRepository,
		history repository.StockHistoryRepository,
	) error {
		current, err := levels.GetForUpdate(ctx, item.StoredItemID, item.LocationID)
		if err != nil {
			return fmt.Errorf("get stock level: %w", err)
		}
		if current != nil {
			id, err = levels.IncrementStockLevel(ctx, item.StoredItemID, item.LocationID, item.Amount, item.ReorderPoint, false)
		} else {
			id, err = levels.Create(ctx, &entity.StockLevel{
				StoredItemID: item.StoredItemID,
				LocationID:   item.LocationID,
				StockLevel:   item.Amount,
				ReorderPoint: item.ReorderPoint,
				UpdatedAt:    uc.now(),
			})
		}
		if err != nil {
			return fmt.Errorf("write stock level: %w", err)
		}
		if _, err := history.Create(ctx, entity.NewStockAdded(item.StoredItemID, item.LocationID, item.Amount)); err != nil {
			return fmt.Errorf("create stock history: %w", err)
		}
		return nil
	})
	return id, err
}

func (uc *ImportUseCase) send(sink ProgressSink, ev dto.ProgressEvent) {
	if err := sink.Send(ev); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo enviar evento de progreso")
	}
}
