package http_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

func newRawRequest(t *testing.T, method, path, role, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("Authorization", tokenForRole(t, role))
	return req
}

func stageBody(items ...map[string]any) map[string]any {
	return map[string]any{"import_data": items}
}

// parseSSE extrae los payloads "data:" de un stream de eventos.
func parseSSE(t *testing.T, raw []byte) []dto.ProgressEvent {
	t.Helper()
	var events []dto.ProgressEvent
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev dto.ProgressEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev), line)
		events = append(events, ev)
	}
	return events
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación JSON
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_FlujoJSON(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodPost, "/api/stock/import/set", pkgjwt.RoleManager,
		stageBody(levelBody(1, 0, 5, 1), levelBody(2, 0, 3, 1)))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, float64(2), decodeBody(t, raw)["data"].(map[string]any)["items"])

	resp, raw = f.do(t, http.MethodPost, "/api/stock/import/start", pkgjwt.RoleManager, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Len(t, decodeBody(t, raw)["data"], 2)
	assert.Equal(t, 3, f.stockLevel(t, 2, 0))

	// el lote se consumió
	resp, raw = f.do(t, http.MethodPost, "/api/stock/import/start", pkgjwt.RoleManager, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_PENDING_IMPORT", decodeBody(t, raw)["code"])
}

func TestImport_LotesAisladosPorSesion(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/api/stock/import/set", pkgjwt.RoleAdmin,
		stageBody(levelBody(1, 0, 5, 1)), apphttp.HeaderSessionID, "pestaña-a")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/stock/import/start", pkgjwt.RoleAdmin, nil, apphttp.HeaderSessionID, "pestaña-b")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/stock/import/start", pkgjwt.RoleAdmin, nil, apphttp.HeaderSessionID, "pestaña-a")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImport_ElementoInvalido(t *testing.T) {
	f := newAPI(t)
	_, _ = f.do(t, http.MethodPost, "/api/stock/import/set", pkgjwt.RoleAdmin,
		stageBody(levelBody(1, 0, 5, 1), levelBody(2, 0, 0, 1)))

	resp, raw := f.do(t, http.MethodPost, "/api/stock/import/start", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, raw)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Contains(t, body["error"], "línea 2")
	assert.Equal(t, 0, f.stockLevel(t, 1, 0))
}

func TestImport_CajeroNoAutorizado(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/api/stock/import/set", pkgjwt.RoleCashier, stageBody(levelBody(1, 0, 5, 1)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV y SSE
// ──────────────────────────────────────────────────────────────────────────────

func csvRequest(t *testing.T, role, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "stock.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/stock/import/csv", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, role))
	return req
}

func TestImport_CSVConSSE(t *testing.T) {
	f := newAPI(t)
	csv := "Reporte de bodega\nstoreditemid;locationid;amount;reorderpoint\n1;0;5;1\n2;4;8;2\n"
	resp, raw := f.send(t, csvRequest(t, pkgjwt.RoleAdmin, csv, map[string]string{"skipfirstrow": "true", "delimiter": ";"}))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	req := httptest.NewRequest(http.MethodPost, "/api/stock/import/start", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	req.Header.Set(fiber.HeaderAccept, "text/event-stream")
	resp, raw = f.send(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	events := parseSSE(t, raw)
	require.NotEmpty(t, events)
	assert.Equal(t, stock.StatusValidating, events[0].Status)
	last := events[len(events)-1]
	assert.Empty(t, last.Error)
	assert.Len(t, last.Data, 2)
	assert.Equal(t, 8, f.stockLevel(t, 2, 4))
}

func TestImport_CSVSinArchivo(t *testing.T) {
	f := newAPI(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("delimiter", ","))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/stock/import/csv", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))

	resp, raw := f.send(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, raw)["fields"], "file")
}

func TestImport_SSESinLoteEmiteError(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/stock/import/start", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	req.Header.Set(fiber.HeaderAccept, "text/event-stream")

	resp, raw := f.send(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := parseSSE(t, raw)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].Error)
}
