package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/validation"
)

// LedgerUseCase operaciones de stock: alta, traslado, conteo físico y consultas.
// Cada mutación de varios pasos corre en una sola transacción (TxRunner.Run).
type LedgerUseCase struct {
	txRunner    TxRunner
	levelRepo   repository.StockLevelRepository
	historyRepo repository.StockHistoryRepository
	itemRepo    repository.StoredItemRepository
	audit       AuditLogger
	pdf         HistoryPDFGenerator
	validator   *validation.Validator
}

// NewLedgerUseCase construye el caso de uso. pdf puede ser nil si no se expone el reporte.
func NewLedgerUseCase(
	txRunner TxRunner,
	levelRepo repository.StockLevelRepository,
	historyRepo repository.StockHistoryRepository,
	itemRepo repository.StoredItemRepository,
	audit AuditLogger,
	pdf HistoryPDFGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		levelRepo:   levelRepo,
		historyRepo: historyRepo,
		itemRepo:    itemRepo,
		audit:       audit,
		pdf:         pdf,
		validator:   validation.New(),
	}
}

// AddStock registra "Stock Added" y suma amount al nivel (lo crea si no existe).
func (uc *LedgerUseCase) AddStock(ctx context.Context, in dto.StockLevelRequest) error {
	if err := validate(uc.validator, in); err != nil {
		return err
	}
	item, loc, amount, reorder := *in.StoredItemID, *in.LocationID, *in.Amount, *in.ReorderPoint

	err := uc.txRunner.Run(ctx, func(
		levels repository.StockLevelRepository,
		history repository.StockHistoryRepository,
	) error {
		if _, err := history.Create(ctx, entity.NewStockAdded(item, loc, amount)); err != nil {
			return storeErr("crear historial", err)
		}
		if _, err := levels.IncrementStockLevel(ctx, item, loc, amount, reorder, false); err != nil {
			return storeErr("incrementar stock", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.Write(ctx, AuditStockAdded, AuditCategoryStock, in)
	return nil
}

// TransferStock mueve amount de locationid a newlocationid.
// Bloquea el nivel de origen; un origen inexistente cuenta como nivel 0.
func (uc *LedgerUseCase) TransferStock(ctx context.Context, in dto.TransferStockRequest) error {
	if err := validate(uc.validator, in); err != nil {
		return err
	}
	item, from, to := *in.StoredItemID, *in.LocationID, *in.NewLocationID
	amount, reorder := *in.Amount, *in.ReorderPoint
	if from == to {
		return domain.ErrSameLocation
	}

	err := uc.txRunner.Run(ctx, func(
		levels repository.StockLevelRepository,
		history repository.StockHistoryRepository,
	) error {
		src, err := levels.GetForUpdate(ctx, item, from)
		if err != nil {
			return storeErr("obtener stock de origen", err)
		}
		available := 0
		if src != nil {
			available = src.StockLevel
		}
		if amount > available {
			return domain.ErrInsufficientStock
		}

		// Salida: historial negativo con destino como correlación, luego descuento
		if _, err := history.Create(ctx, entity.NewTransferOut(item, from, to, amount)); err != nil {
			return storeErr("crear historial de salida", err)
		}
		if _, err := levels.IncrementStockLevel(ctx, item, from, amount, reorder, true); err != nil {
			return storeErr("descontar stock de origen", err)
		}
		// Entrada en destino
		if _, err := history.Create(ctx, entity.NewTransferIn(item, from, to, amount)); err != nil {
			return storeErr("crear historial de entrada", err)
		}
		if _, err := levels.IncrementStockLevel(ctx, item, to, amount, reorder, false); err != nil {
			return storeErr("sumar stock en destino", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.Write(ctx, AuditStockTransfer, AuditCategoryStock, in)
	return nil
}

// SetStockLevel conteo físico: sobrescribe el nivel con amount.
// El historial registra amount completo, no la diferencia con el nivel anterior.
func (uc *LedgerUseCase) SetStockLevel(ctx context.Context, in dto.StockLevelRequest) error {
	if err := validate(uc.validator, in); err != nil {
		return err
	}
	item, loc, amount, reorder := *in.StoredItemID, *in.LocationID, *in.Amount, *in.ReorderPoint

	err := uc.txRunner.Run(ctx, func(
		levels repository.StockLevelRepository,
		history repository.StockHistoryRepository,
	) error {
		if _, err := history.Create(ctx, entity.NewStockAdded(item, loc, amount)); err != nil {
			return storeErr("crear historial", err)
		}
		if err := levels.SetStockLevel(ctx, item, loc, amount, reorder); err != nil {
			return storeErr("fijar stock", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.Write(ctx, AuditStockLevelSet, AuditCategoryStock, in)
	return nil
}

// IncrementStockLevel ajuste directo del nivel (ventas y anulaciones). No escribe historial.
func (uc *LedgerUseCase) IncrementStockLevel(ctx context.Context, in dto.IncrementStockRequest) error {
	if err := validate(uc.validator, in); err != nil {
		return err
	}
	_, err := uc.levelRepo.IncrementStockLevel(ctx,
		*in.StoredItemID, *in.LocationID, *in.Amount, *in.ReorderPoint, in.Decrement)
	return storeErr("incrementar stock", err)
}

// EditItemSupplier actualiza los datos de proveedor del artículo.
func (uc *LedgerUseCase) EditItemSupplier(ctx context.Context, itemID int64, in dto.SupplierRequest) (*dto.StoredItemResponse, error) {
	if itemID <= 0 {
		return nil, domain.NewValidationError([]string{"id"}, []string{"id debe ser > 0"})
	}
	if err := validate(uc.validator, in); err != nil {
		return nil, err
	}
	info := entity.SupplierInfo{
		Code:  *in.Code,
		Qty:   *in.Qty,
		Name:  *in.Name,
		TaxID: *in.TaxID,
		Cost:  *in.Cost,
		Price: *in.Price,
		Type:  *in.Type,
	}
	if err := uc.itemRepo.EditSupplier(ctx, itemID, info); err != nil {
		return nil, storeErr("editar proveedor", err)
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, storeErr("obtener artículo", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	uc.audit.Write(ctx, AuditSupplierEdited, AuditCategoryStock, map[string]any{"id": itemID, "supplier": in})
	return toStoredItemResponse(item), nil
}

// GetStockHistory historial de la llave, más recientes primero.
func (uc *LedgerUseCase) GetStockHistory(ctx context.Context, storedItemID, locationID int64) ([]dto.StockHistoryResponse, error) {
	records, err := uc.historyRepo.List(ctx, storedItemID, locationID)
	if err != nil {
		return nil, storeErr("listar historial", err)
	}
	out := make([]dto.StockHistoryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toStockHistoryResponse(r))
	}
	return out, nil
}

// ListStockLevels niveles actuales, filtrables por artículo y/o ubicación.
func (uc *LedgerUseCase) ListStockLevels(ctx context.Context, filter entity.StockLevelFilter) ([]dto.StockLevelResponse, error) {
	levels, err := uc.levelRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("listar stock", err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, toStockLevelResponse(l))
	}
	return out, nil
}

// HistoryReport PDF con el nivel actual y el historial de la llave.
func (uc *LedgerUseCase) HistoryReport(ctx context.Context, storedItemID, locationID int64) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrNotFound
	}
	level, err := uc.levelRepo.Get(ctx, storedItemID, locationID)
	if err != nil {
		return nil, storeErr("obtener stock", err)
	}
	records, err := uc.historyRepo.List(ctx, storedItemID, locationID)
	if err != nil {
		return nil, storeErr("listar historial", err)
	}
	return uc.pdf.GenerateHistoryPDF(ctx, storedItemID, locationID, level, records)
}

func toStockLevelResponse(l *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ID:           l.ID,
		StoredItemID: l.StoredItemID,
		LocationID:   l.LocationID,
		StockLevel:   l.StockLevel,
		ReorderPoint: l.ReorderPoint,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toStockHistoryResponse(r *entity.StockHistory) dto.StockHistoryResponse {
	return dto.StockHistoryResponse{
		ID:           r.ID,
		StoredItemID: r.StoredItemID,
		LocationID:   r.LocationID,
		Type:         r.Type,
		Amount:       r.Amount,
		SourceID:     r.SourceID,
		Direction:    r.Direction,
		CreatedAt:    r.CreatedAt,
	}
}

func toStoredItemResponse(i *entity.StoredItem) *dto.StoredItemResponse {
	return &dto.StoredItemResponse{
		ID:    i.ID,
		Code:  i.Code,
		Qty:   i.Qty,
		Name:  i.Name,
		TaxID: i.TaxID,
		Cost:  i.Cost,
		Price: i.Price,
		Type:  i.Type,
	}
}
