//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

type nopAudit struct{}

func (nopAudit) Write(context.Context, string, string, any) {}

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("stock"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// El contenedor tarda en aceptar conexiones
	var migrateErr error
	for i := 0; i < 10; i++ {
		if migrateErr = postgres.Migrate(ctx, dsn); migrateErr == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, migrateErr)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgres_Integration(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t)

	levels := postgres.NewStockLevelRepository(pool)
	history := postgres.NewStockHistoryRepository(pool)
	items := postgres.NewStoredItemRepository(pool)
	runner := postgres.NewTxRunner(pool)
	ledger := stock.NewLedgerUseCase(runner, levels, history, items, nopAudit{}, nil)

	i64 := func(v int64) *int64 { return &v }
	iptr := func(v int) *int { return &v }

	t.Run("IncrementStockLevel hace upsert", func(t *testing.T) {
		id1, err := levels.IncrementStockLevel(ctx, 100, 0, 5, 1, false)
		require.NoError(t, err)
		id2, err := levels.IncrementStockLevel(ctx, 100, 0, 2, 3, true)
		require.NoError(t, err)
		assert.Equal(t, id1, id2)

		l, err := levels.Get(ctx, 100, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, l.StockLevel)
		assert.Equal(t, 3, l.ReorderPoint)
	})

	t.Run("Create duplicado es conflicto", func(t *testing.T) {
		_, err := levels.Create(ctx, &entity.StockLevel{StoredItemID: 101, LocationID: 1, StockLevel: 1, ReorderPoint: 1})
		require.NoError(t, err)
		_, err = levels.Create(ctx, &entity.StockLevel{StoredItemID: 101, LocationID: 1, StockLevel: 1, ReorderPoint: 1})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Traslado atómico", func(t *testing.T) {
		_, err := levels.IncrementStockLevel(ctx, 200, 0, 10, 1, false)
		require.NoError(t, err)

		err = ledger.TransferStock(ctx, dto.TransferStockRequest{
			StoredItemID: i64(200), LocationID: i64(0), NewLocationID: i64(2), Amount: iptr(4), ReorderPoint: iptr(1),
		})
		require.NoError(t, err)

		src, err := levels.Get(ctx, 200, 0)
		require.NoError(t, err)
		dst, err := levels.Get(ctx, 200, 2)
		require.NoError(t, err)
		assert.Equal(t, 6, src.StockLevel)
		assert.Equal(t, 4, dst.StockLevel)

		out, err := history.List(ctx, 200, 0)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, -4, out[0].Amount)
		assert.Equal(t, int64(2), out[0].SourceID)

		err = ledger.TransferStock(ctx, dto.TransferStockRequest{
			StoredItemID: i64(200), LocationID: i64(0), NewLocationID: i64(2), Amount: iptr(50), ReorderPoint: iptr(1),
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})

	t.Run("Importación sobre PostgreSQL", func(t *testing.T) {
		batches := memory.NewImportBatchStore()
		imp := stock.NewImportUseCase(runner, batches, nil, nopAudit{}, logger.Nop(), time.Minute)
		_, err := imp.StageImport(ctx, "s1", dto.StageImportRequest{ImportData: []json.RawMessage{
			json.RawMessage(`{"storeditemid":300,"locationid":0,"amount":5,"reorderpoint":1}`),
			json.RawMessage(`{"storeditemid":300,"locationid":0,"amount":2,"reorderpoint":1}`),
		}})
		require.NoError(t, err)

		res, err := imp.StartImport(ctx, "s1", stock.NewCollectingSink())
		require.NoError(t, err)
		assert.Len(t, res.Data, 1)

		l, err := levels.Get(ctx, 300, 0)
		require.NoError(t, err)
		assert.Equal(t, 7, l.StockLevel)
	})

	t.Run("EditSupplier", func(t *testing.T) {
		var id int64
		require.NoError(t, pool.QueryRow(ctx, `INSERT INTO stored_items (name) VALUES ('Leche') RETURNING id`).Scan(&id))

		err := items.EditSupplier(ctx, id, entity.SupplierInfo{
			Code: "L-1", Qty: 1, Name: "Leche entera", TaxID: 2,
			Cost: decimal.RequireFromString("2500.00"), Price: decimal.RequireFromString("3200.50"), Type: "general",
		})
		require.NoError(t, err)

		it, err := items.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Leche entera", it.Name)
		assert.True(t, it.Price.Equal(decimal.RequireFromString("3200.5")))

		assert.ErrorIs(t, items.EditSupplier(ctx, id+1000, entity.SupplierInfo{}), domain.ErrNotFound)
	})
}
