package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/lootsim/catalog"
	"github.com/Ashenafi-pixel/lootsim/config"
	"github.com/Ashenafi-pixel/lootsim/simulate"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	tables := catalog.NewStore(t.TempDir())
	shipped := catalog.NewStore(filepath.Join("..", "loot-tables"))
	def, err := shipped.Get("ruined_portal")
	require.NoError(t, err)
	require.NoError(t, tables.Register("ruined_portal", def))

	cfg := &config.Config{DefaultTable: "ruined_portal", Trials: 200, MaxTrials: 5000}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(cfg, tables, nil, logger).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodOptions, "/simulate", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTables(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/tables", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tables":["ruined_portal"]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/tables/ruined_portal", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pools"`)

	rec = do(t, h, http.MethodGet, "/tables/stronghold", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "TABLE_NOT_FOUND", apiErr.Code)
}

func TestPutTable(t *testing.T) {
	h := newTestServer(t)
	body := `{"pools":[{"rolls":1,"entries":[{"type":"minecraft:item","name":"minecraft:flint"}]}]}`
	rec := do(t, h, http.MethodPut, "/tables/flint_only", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/tables", "")
	assert.JSONEq(t, `{"tables":["flint_only","ruined_portal"]}`, rec.Body.String())

	zero := `{"pools":[{"rolls":1,"entries":[{"name":"flint","weight":0}]}]}`
	rec = do(t, h, http.MethodPut, "/tables/broken", zero)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFIGURATION_ERROR")

	rec = do(t, h, http.MethodPut, "/tables/bad", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulate(t *testing.T) {
	h := newTestServer(t)
	body := `{"trials":300,"seed":42,"requirements":["lightable","completable"],"items":[{"name":"golden_sword","enchantment":"any"}]}`
	rec := do(t, h, http.MethodPost, "/simulate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res simulate.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ruined_portal", res.Table)
	assert.Equal(t, int64(42), res.Seed)
	assert.Equal(t, 300, res.Trials)
	assert.Len(t, res.Combinations, 8)
	assert.Equal(t, "lightable+completable+golden_sword@any", res.Combinations[7].Name)
	assert.NotEmpty(t, res.Items)

	again := do(t, h, http.MethodPost, "/simulate", body)
	var res2 simulate.Result
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &res2))
	assert.Equal(t, res.Combinations, res2.Combinations, "same seed, same tallies")
	assert.NotEqual(t, res.RunID, res2.RunID)
}

func TestSimulate_DefaultsTrials(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/simulate", `{"seed":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res simulate.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 200, res.Trials)
	assert.Len(t, res.Combinations, 1)
}

func TestSimulate_Errors(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"too many trials", `{"trials":5001}`, http.StatusBadRequest},
		{"negative trials", `{"trials":-1}`, http.StatusBadRequest},
		{"negative chests", `{"chests":-2}`, http.StatusBadRequest},
		{"unknown table", `{"table":"stronghold"}`, http.StatusNotFound},
		{"unknown requirement", `{"requirements":["pretty"]}`, http.StatusBadRequest},
		{"bad item", `{"items":[{"name":"clock","level":2}]}`, http.StatusBadRequest},
		{"too many items", tooManyItems(), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/simulate", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestListRequirements(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/requirements", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lightable"`)
}

func TestSimulate_PredicateLimit(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/simulate", tooManyItems())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "CONFIGURATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "too many requirements: 40 > 16")
}

func tooManyItems() string {
	items := make([]string, 40)
	for i := range items {
		items[i] = fmt.Sprintf(`{"name":"item_%d"}`, i)
	}
	return `{"items":[` + strings.Join(items, ",") + `]}`
}
