package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *stock.LedgerUseCase
	ImportUC  *stock.ImportUseCase
	JWTSecret string
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	readers := RequireRole(jwt.RoleAdmin, jwt.RoleManager, jwt.RoleCashier)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleManager)

	stockHandler := NewStockHandler(deps.LedgerUC)
	stockGroup := api.Group("/stock")
	stockGroup.Get("/", readers, stockHandler.ListStockLevels)
	stockGroup.Get("/history", readers, stockHandler.GetStockHistory)
	stockGroup.Get("/history/pdf", readers, stockHandler.HistoryPDF)
	stockGroup.Post("/increment", readers, stockHandler.IncrementStockLevel)
	stockGroup.Post("/add", writers, stockHandler.AddStock)
	stockGroup.Post("/set", writers, stockHandler.SetStockLevel)
	stockGroup.Post("/transfer", writers, stockHandler.TransferStock)

	// Importación masiva: el lote pendiente se guarda por sesión
	importHandler := NewImportHandler(deps.ImportUC, deps.Logger)
	importGroup := stockGroup.Group("/import", writers, RequireSession())
	importGroup.Post("/set", importHandler.StageImport)
	importGroup.Post("/csv", importHandler.StageImportCSV)
	importGroup.Post("/start", importHandler.StartImport)

	items := api.Group("/items")
	items.Put("/:id/supplier", writers, stockHandler.EditItemSupplier)
}
