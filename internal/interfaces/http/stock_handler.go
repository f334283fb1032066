package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockHandler maneja las operaciones de stock (protegido).
type StockHandler struct {
	uc *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// AddStock godoc
// @Summary      Agregar stock
// @Description  Registra "Stock Added" en el historial y suma la cantidad al nivel.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockLevelRequest  true  "storeditemid, locationid, amount, reorderpoint"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/stock/add [post]
func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	var in dto.StockLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.AddStock(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: true})
}

// SetStockLevel godoc
// @Summary      Fijar nivel de stock (conteo físico)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockLevelRequest  true  "storeditemid, locationid, amount, reorderpoint"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/stock/set [post]
func (h *StockHandler) SetStockLevel(c *fiber.Ctx) error {
	var in dto.StockLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.SetStockLevel(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: true})
}

// TransferStock godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "storeditemid, locationid, newlocationid, amount, reorderpoint"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) TransferStock(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.TransferStock(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: true})
}

// IncrementStockLevel godoc
// @Summary      Ajustar nivel por venta o anulación
// @Description  Suma (o resta con decrement) sin registrar historial.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IncrementStockRequest  true  "storeditemid, locationid, amount, reorderpoint, decrement"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/stock/increment [post]
func (h *StockHandler) IncrementStockLevel(c *fiber.Ctx) error {
	var in dto.IncrementStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.IncrementStockLevel(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: true})
}

// ListStockLevels godoc
// @Summary      Listar niveles de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeditemid  query  int  false  "Filtrar por artículo"
// @Param        locationid    query  int  false  "Filtrar por ubicación (0 = bodega)"
// @Success      200  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListStockLevels(c *fiber.Ctx) error {
	item, err := queryInt64(c, "storeditemid", false)
	if err != nil {
		return writeError(c, err)
	}
	loc, err := queryInt64(c, "locationid", false)
	if err != nil {
		return writeError(c, err)
	}
	levels, err := h.uc.ListStockLevels(c.UserContext(), entity.StockLevelFilter{StoredItemID: item, LocationID: loc})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: levels})
}

// GetStockHistory godoc
// @Summary      Historial de stock de un artículo en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeditemid  query  int  true  "Artículo"
// @Param        locationid    query  int  true  "Ubicación (0 = bodega)"
// @Success      200  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/history [get]
func (h *StockHandler) GetStockHistory(c *fiber.Ctx) error {
	item, loc, err := historyKey(c)
	if err != nil {
		return writeError(c, err)
	}
	records, err := h.uc.GetStockHistory(c.UserContext(), item, loc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: records})
}

// HistoryPDF godoc
// @Summary      Reporte PDF del historial de stock
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        storeditemid  query  int  true  "Artículo"
// @Param        locationid    query  int  true  "Ubicación (0 = bodega)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/history/pdf [get]
func (h *StockHandler) HistoryPDF(c *fiber.Ctx) error {
	item, loc, err := historyKey(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.uc.HistoryReport(c.UserContext(), item, loc)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="stock-history-%d-%d.pdf"`, item, loc))
	return c.Send(doc)
}

// EditItemSupplier godoc
// @Summary      Editar datos de proveedor del artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID del artículo"
// @Param        body  body  dto.SupplierRequest  true  "code, qty, name, taxid, cost, price, type"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/supplier [put]
func (h *StockHandler) EditItemSupplier(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeError(c, domain.NewValidationError([]string{"id"}, []string{"id debe ser numérico"}))
	}
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := h.uc.EditItemSupplier(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: item})
}

func historyKey(c *fiber.Ctx) (int64, int64, error) {
	item, err := queryInt64(c, "storeditemid", true)
	if err != nil {
		return 0, 0, err
	}
	loc, err := queryInt64(c, "locationid", true)
	if err != nil {
		return 0, 0, err
	}
	return *item, *loc, nil
}

// queryInt64 lee un entero del query string; nil si no viene y no es requerido.
func queryInt64(c *fiber.Ctx, name string, required bool) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			return nil, domain.NewValidationError([]string{name}, []string{name + " es requerido"})
		}
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, domain.NewValidationError([]string{name}, []string{name + " debe ser un entero >= 0"})
	}
	return &v, nil
}
