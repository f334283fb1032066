package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/audit"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

// newAPI arma el router completo sobre el almacén en memoria.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	auditLog := audit.NewLogWriter(log)

	ledger := stock.NewLedgerUseCase(runner, store.StockLevels(), store.StockHistory(), store.StoredItems(), auditLog, pdf.NewStockHistoryPDF())
	imp := stock.NewImportUseCase(runner, memory.NewImportBatchStore(), csvimport.NewParser(), auditLog, log, time.Hour)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{LedgerUC: ledger, ImportUC: imp, JWTSecret: testJWTSecret, Logger: log})
	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, role string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return f.send(t, req)
}

func (f *apiFixture) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeBody(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}
