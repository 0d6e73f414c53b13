package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfolio/portfolio-services/internal/models"
	"github.com/stockfolio/portfolio-services/internal/pricing"
	"github.com/stockfolio/portfolio-services/internal/store"
)

// fakeLookup serves canned prices; unknown symbols behave like the
// real API's empty response.
type fakeLookup struct {
	prices map[string]float64
	err    error
}

func (f fakeLookup) Price(ctx context.Context, symbol string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return 0, pricing.ErrPriceNotFound
	}
	return price, nil
}

func newTestRouter(s store.Store, prices pricing.Lookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Register(router, s, prices)
	return router
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func nvidiaPayload() map[string]any {
	return map[string]any{
		"name":           "NVIDIA",
		"symbol":         "NVDA",
		"purchase price": 134.66,
		"purchase date":  "18-06-2024",
		"shares":         7,
	}
}

func createStock(t *testing.T, router *gin.Engine, payload map[string]any) string {
	t.Helper()
	w := performJSON(router, http.MethodPost, "/stocks", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}

func TestStockLifecycle(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	id := createStock(t, router, nvidiaPayload())

	w := performJSON(router, http.MethodGet, "/stocks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stock models.Stock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	assert.Equal(t, "NVDA", stock.Symbol)
	assert.Equal(t, 134.66, stock.PurchasePrice)

	w = performJSON(router, http.MethodGet, "/stocks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stocks []models.Stock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stocks))
	require.Len(t, stocks, 1)
	assert.Equal(t, id, stocks[0].ID)

	w = performJSON(router, http.MethodDelete, "/stocks/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performJSON(router, http.MethodGet, "/stocks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(router, http.MethodDelete, "/stocks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateStockRejectsWrongContentType(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	req := httptest.NewRequest(http.MethodPost, "/stocks", bytes.NewBufferString("symbol=NVDA"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCreateStockRejectsContentTypeParameters(t *testing.T) {
	// The header must equal application/json exactly; a charset
	// parameter is not accepted.
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	encoded, err := json.Marshal(nvidiaPayload())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/stocks", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCreateStockValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(payload map[string]any)
		status int
	}{
		{"missing symbol", func(p map[string]any) { delete(p, "symbol") }, http.StatusBadRequest},
		{"missing shares", func(p map[string]any) { delete(p, "shares") }, http.StatusBadRequest},
		{"missing purchase price", func(p map[string]any) { delete(p, "purchase price") }, http.StatusBadRequest},
		{"unknown field", func(p map[string]any) { p["color"] = "green" }, http.StatusBadRequest},
		{"explicit NA date", func(p map[string]any) { p["purchase date"] = "NA" }, http.StatusBadRequest},
		{"bad date format", func(p map[string]any) { p["purchase date"] = "June 18, 2024" }, http.StatusBadRequest},
		{"non-numeric shares", func(p map[string]any) { p["shares"] = "seven" }, http.StatusBadRequest},
		{"fractional shares", func(p map[string]any) { p["shares"] = 7.5 }, http.StatusBadRequest},
		{"negative shares", func(p map[string]any) { p["shares"] = -3 }, http.StatusBadRequest},
		{"non-numeric price", func(p map[string]any) { p["purchase price"] = "a lot" }, http.StatusBadRequest},
		// A present-but-uncoercible optional field is malformed, not a
		// fallback to its default.
		{"boolean date", func(p map[string]any) { p["purchase date"] = true }, http.StatusBadRequest},
		{"null date", func(p map[string]any) { p["purchase date"] = nil }, http.StatusBadRequest},
		{"array name", func(p map[string]any) { p["name"] = []string{"NVIDIA"} }, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(store.NewMemoryStore(), fakeLookup{})
			payload := nvidiaPayload()
			tc.mutate(payload)
			w := performJSON(router, http.MethodPost, "/stocks", payload)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestCreateStockDefaultsAndCoercion(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	// Omitted name and date default to NA; string-typed numbers coerce.
	id := createStock(t, router, map[string]any{
		"symbol":         "msft",
		"purchase price": "380.5",
		"shares":         "12",
	})

	w := performJSON(router, http.MethodGet, "/stocks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stock models.Stock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	assert.Equal(t, "MSFT", stock.Symbol) // uppercased before storage
	assert.Equal(t, "NA", stock.Name)
	assert.Equal(t, "NA", stock.PurchaseDate)
	assert.Equal(t, 380.5, stock.PurchasePrice)
	assert.Equal(t, 12, stock.Shares)
}

func TestCreateStockIgnoresClientID(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	payload := nvidiaPayload()
	payload["id"] = "client-picked"
	id := createStock(t, router, payload)
	assert.NotEqual(t, "client-picked", id)
}

func TestCreateStockDuplicateSymbol(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	createStock(t, router, nvidiaPayload())
	w := performJSON(router, http.MethodPost, "/stocks", nvidiaPayload())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListStocksQueryFilter(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	createStock(t, router, nvidiaPayload())
	apple := nvidiaPayload()
	apple["symbol"] = "AAPL"
	apple["shares"] = 3
	createStock(t, router, apple)

	// Case-insensitive single-field filter.
	w := performJSON(router, http.MethodGet, "/stocks?symbol=nvda", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stocks []models.Stock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stocks))
	require.Len(t, stocks, 1)
	assert.Equal(t, "NVDA", stocks[0].Symbol)

	// Multiple parameters AND together.
	w = performJSON(router, http.MethodGet, "/stocks?symbol=AAPL&shares=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stocks))
	assert.Len(t, stocks, 1)

	// Field names with spaces work as query keys too.
	w = performJSON(router, http.MethodGet, "/stocks?purchase%20price=134.66", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stocks))
	assert.Len(t, stocks, 2)

	// A filter that matches nothing is still a 200 with an empty list.
	w = performJSON(router, http.MethodGet, "/stocks?symbol=TSLA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stocks))
	assert.Empty(t, stocks)
}

func TestUpdateStock(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})

	id := createStock(t, router, nvidiaPayload())

	payload := nvidiaPayload()
	payload["id"] = id
	payload["purchase price"] = 134.6666
	payload["shares"] = 10

	w := performJSON(router, http.MethodPut, "/stocks/"+id, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performJSON(router, http.MethodGet, "/stocks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stock models.Stock
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	assert.Equal(t, 134.67, stock.PurchasePrice) // update rounds, unlike create
	assert.Equal(t, 10, stock.Shares)
}

func TestUpdateStockErrors(t *testing.T) {
	router := newTestRouter(store.NewMemoryStore(), fakeLookup{})
	id := createStock(t, router, nvidiaPayload())

	// Unknown id is checked before the payload.
	missing := nvidiaPayload()
	missing["id"] = "missing"
	w := performJSON(router, http.MethodPut, "/stocks/missing", missing)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Wrong content type.
	req := httptest.NewRequest(http.MethodPut, "/stocks/"+id, bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	// Every recognized field must be present, id included.
	partial := nvidiaPayload()
	w = performJSON(router, http.MethodPut, "/stocks/"+id, partial)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The payload id must equal the path id.
	mismatched := nvidiaPayload()
	mismatched["id"] = "someone-else"
	w = performJSON(router, http.MethodPut, "/stocks/"+id, mismatched)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Updating onto another record's symbol is a conflict.
	apple := nvidiaPayload()
	apple["symbol"] = "AAPL"
	appleID := createStock(t, router, apple)

	steal := nvidiaPayload()
	steal["id"] = appleID
	w = performJSON(router, http.MethodPut, "/stocks/"+appleID, steal)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
