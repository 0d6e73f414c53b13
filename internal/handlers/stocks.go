// Package handlers translates HTTP requests into portfolio store and
// price lookup calls.
package handlers

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stockfolio/portfolio-services/internal/models"
	"github.com/stockfolio/portfolio-services/internal/store"
)

// The fixed set of recognized payload field names. Anything else in a
// request body is rejected outright.
var stockFields = map[string]bool{
	"id":             true,
	"name":           true,
	"symbol":         true,
	"purchase price": true,
	"purchase date":  true,
	"shares":         true,
}

// StockHandler serves the /stocks collection and item endpoints.
type StockHandler struct {
	store store.Store
}

// NewStockHandler builds a handler around the injected store.
func NewStockHandler(s store.Store) *StockHandler {
	return &StockHandler{store: s}
}

// CreateStock handles POST /stocks. The content type header must be
// exactly "application/json"; media-type parameters are not accepted.
func (h *StockHandler) CreateStock(c *gin.Context) {
	if c.GetHeader("Content-Type") != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Expected application/json media type"})
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
		return
	}
	for field := range raw {
		if !stockFields[field] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
			return
		}
	}
	for _, required := range []string{"symbol", "shares", "purchase price"} {
		if _, ok := raw[required]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
			return
		}
	}
	// An explicit "NA" purchase date is malformed; an absent one
	// defaults to "NA" and is accepted. Kept as documented.
	if date, ok := raw["purchase date"]; ok && date == "NA" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
		return
	}

	name, okName := optionalString(raw, "name", "NA")
	symbol, okSymbol := stringValue(raw["symbol"])
	date, okDate := optionalString(raw, "purchase date", "NA")
	shares, okShares := intValue(raw["shares"])
	price, okPrice := floatValue(raw["purchase price"])
	if !okName || !okSymbol || !okDate || !okShares || !okPrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
		return
	}

	id, err := h.store.Insert(c.Request.Context(), models.Stock{
		Name:          name,
		Symbol:        strings.ToUpper(symbol),
		PurchasePrice: price,
		PurchaseDate:  date,
		Shares:        shares,
	})
	switch {
	case errors.Is(err, store.ErrSymbolExists), errors.Is(err, store.ErrInvalidStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// ListStocks handles GET /stocks. Every supplied query parameter is an
// implicit AND filter, compared case-insensitively against the string
// form of the matching stock field.
func (h *StockHandler) ListStocks(c *gin.Context) {
	stocks, err := h.store.RetrieveAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
		return
	}

	params := c.Request.URL.Query()
	if len(params) == 0 {
		c.JSON(http.StatusOK, stocks)
		return
	}

	filtered := make([]models.Stock, 0)
	for _, stock := range stocks {
		fields := stock.FieldStrings()
		match := true
		for field, values := range params {
			if !strings.EqualFold(fields[field], values[0]) {
				match = false
				break
			}
		}
		if match {
			filtered = append(filtered, stock)
		}
	}
	c.JSON(http.StatusOK, filtered)
}

// GetStock handles GET /stocks/:id.
func (h *StockHandler) GetStock(c *gin.Context) {
	stock, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
	default:
		c.JSON(http.StatusOK, stock)
	}
}

// DeleteStock handles DELETE /stocks/:id.
func (h *StockHandler) DeleteStock(c *gin.Context) {
	err := h.store.DeleteByID(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
	default:
		c.Status(http.StatusNoContent)
	}
}

// UpdateStock handles PUT /stocks/:id. The target must already exist,
// and the payload must carry every recognized field, with its id equal
// to the path id.
func (h *StockHandler) UpdateStock(c *gin.Context) {
	if c.GetHeader("Content-Type") != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Expected application/json media type"})
		return
	}

	id := c.Param("id")
	exists, err := h.store.Exists(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
		return
	}
	for field := range raw {
		if !stockFields[field] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
			return
		}
	}
	for field := range stockFields {
		if _, ok := raw[field]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
			return
		}
	}

	payloadID, okID := stringValue(raw["id"])
	if !okID || payloadID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
		return
	}

	name, okName := stringValue(raw["name"])
	symbol, okSymbol := stringValue(raw["symbol"])
	date, okDate := stringValue(raw["purchase date"])
	shares, okShares := intValue(raw["shares"])
	price, okPrice := floatValue(raw["purchase price"])
	if !okName || !okSymbol || !okDate || !okShares || !okPrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
		return
	}

	err = h.store.Update(c.Request.Context(), id, models.Stock{
		Name:          name,
		Symbol:        strings.ToUpper(symbol),
		PurchasePrice: price,
		PurchaseDate:  date,
		Shares:        shares,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrSymbolExists), errors.Is(err, store.ErrInvalidStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed data"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}

// Kill handles GET /kill by terminating the process. The container
// runtime is expected to restart it.
func Kill(c *gin.Context) {
	os.Exit(1)
}

// stringValue coerces a decoded JSON value to its string form.
func stringValue(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	default:
		return "", false
	}
}

// optionalString coerces a field that may be omitted. Absence yields
// the default; a present value that does not coerce is malformed, it
// never falls back to the default.
func optionalString(raw map[string]any, field, defaultValue string) (string, bool) {
	v, ok := raw[field]
	if !ok {
		return defaultValue, true
	}
	return stringValue(v)
}

// intValue coerces a decoded JSON value to an integer share count.
// Fractional numbers do not coerce.
func intValue(v any) (int, bool) {
	switch value := v.(type) {
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// floatValue coerces a decoded JSON value to a float price.
func floatValue(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
