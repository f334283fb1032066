package http

import (
	"bufio"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// ImportHandler importación masiva de stock por sesión (protegido, requiere sesión).
type ImportHandler struct {
	uc  *stock.ImportUseCase
	log *logger.Logger
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *stock.ImportUseCase, log *logger.Logger) *ImportHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportHandler{uc: uc, log: log.Component("import_handler")}
}

// StageImport godoc
// @Summary      Preparar lote de importación
// @Description  Guarda los elementos sin validar como lote pendiente de la sesión (reemplaza el anterior).
// @Tags         import
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string                  false  "Sesión (por defecto el claim sid)"
// @Param        body          body    dto.StageImportRequest  true   "import_data, options"
// @Success      200  {object}  dto.DataResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock/import/set [post]
func (h *ImportHandler) StageImport(c *fiber.Ctx) error {
	var in dto.StageImportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.StageImport(c.UserContext(), GetSessionID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: resp})
}

// StageImportCSV godoc
// @Summary      Preparar lote desde un CSV
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file          formData  file    true   "CSV con storeditemid, locationid, amount, reorderpoint"
// @Param        skipfirstrow  formData  bool    false  "Omitir la primera fila"
// @Param        delimiter     formData  string  false  "Delimitador (por defecto ,)"
// @Param        charset       formData  string  false  "utf-8, iso-8859-1, windows-1252"
// @Success      200  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/import/csv [post]
func (h *ImportHandler) StageImportCSV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, domain.NewValidationError([]string{"file"}, []string{"file es requerido"}))
	}
	f, err := fh.Open()
	if err != nil {
		return invalidBody(c)
	}
	defer f.Close()

	opts := entity.ImportOptions{
		SkipFirstRow: isTruthy(c.FormValue("skipfirstrow")),
		Delimiter:    c.FormValue("delimiter"),
		Charset:      c.FormValue("charset"),
	}
	resp, err := h.uc.StageImportCSV(c.UserContext(), GetSessionID(c), f, opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: resp})
}

// StartImport godoc
// @Summary      Ejecutar la importación pendiente
// @Description  Con Accept: text/event-stream emite eventos SSE de progreso; si no, responde un único JSON al terminar.
// @Tags         import
// @Security     Bearer
// @Produce      json
// @Produce      text/event-stream
// @Success      200  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/import/start [post]
func (h *ImportHandler) StartImport(c *fiber.Ctx) error {
	sessionID := GetSessionID(c)

	if strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream") {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		// El stream corre después de que el handler retorna: no usar c dentro del writer.
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			if _, err := h.uc.StartImport(context.Background(), sessionID, newSSESink(w)); err != nil {
				h.log.Warn().Err(err).Str("session_id", sessionID).Msg("importación terminó con error")
			}
		}))
		return nil
	}

	res, err := h.uc.StartImport(c.UserContext(), sessionID, stock.NewCollectingSink())
	if err != nil {
		status, body := errorResponse(err)
		if res != nil && len(res.Data) > 0 {
			body.Data = res.Data
		}
		return c.Status(status).JSON(body)
	}
	return c.JSON(dto.DataResponse{Data: res.Data})
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
