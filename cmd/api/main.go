package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/stock-ledger-api/docs"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/audit"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/csvimport"
	infrakafka "github.com/jhoicas/stock-ledger-api/internal/infrastructure/kafka"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/stock-ledger-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// @title                       Stock Ledger API
// @version                     1.0
// @description                 Niveles de stock, historial, traslados e importación masiva del punto de venta.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner    stock.TxRunner
		levelRepo   repository.StockLevelRepository
		historyRepo repository.StockHistoryRepository
		itemRepo    repository.StoredItemRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		txRunner = memory.NewTxRunner(store)
		levelRepo, historyRepo, itemRepo = store.StockLevels(), store.StockHistory(), store.StoredItems()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones de PostgreSQL")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		levelRepo = postgres.NewStockLevelRepository(pool)
		historyRepo = postgres.NewStockHistoryRepository(pool)
		itemRepo = postgres.NewStoredItemRepository(pool)
	}

	// Lotes de importación: Redis si está configurado, si no en memoria del proceso
	var batches repository.ImportBatchRepository
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		batches = infraredis.NewImportBatchStore(client, log)
	} else {
		batches = memory.NewImportBatchStore()
	}

	var auditLog stock.AuditLogger = audit.NewLogWriter(log)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := infrakafka.NewAuditPublisher(log, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador de auditoría")
			}
		}()
		auditLog = publisher
	}

	ledgerUC := stock.NewLedgerUseCase(txRunner, levelRepo, historyRepo, itemRepo, auditLog, infrapdf.NewStockHistoryPDF())
	importUC := stock.NewImportUseCase(
		txRunner, batches, csvimport.NewParser(), auditLog, log,
		time.Duration(cfg.Import.BatchTTLMinutes)*time.Minute,
	)

	// Sin WriteTimeout: el stream SSE de importación dura lo que dure el lote.
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
		BodyLimit:   16 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:  ledgerUC,
		ImportUC:  importUC,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
