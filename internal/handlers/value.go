package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockfolio/portfolio-services/internal/pricing"
	"github.com/stockfolio/portfolio-services/internal/store"
)

// ValueHandler serves the valuation endpoints, combining stored
// holdings with live prices.
type ValueHandler struct {
	store  store.Store
	prices pricing.Lookup
}

// NewValueHandler builds a handler around the injected store and price
// lookup.
func NewValueHandler(s store.Store, prices pricing.Lookup) *ValueHandler {
	return &ValueHandler{store: s, prices: prices}
}

// StockValue handles GET /stock-value/:id.
func (h *ValueHandler) StockValue(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	exists, err := h.store.Exists(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	stock, err := h.store.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
		return
	}

	price, err := h.prices.Price(ctx, stock.Symbol)
	if errors.Is(err, pricing.ErrPriceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
		return
	}

	valuation, err := h.store.Valuation(ctx, id, price)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"symbol":      valuation.Symbol,
			"ticker":      valuation.Ticker,
			"stock value": valuation.Value,
		})
	}
}

// PortfolioValue handles GET /portfolio-value. A single failed lookup
// fails the whole computation; there are no partial results.
func (h *ValueHandler) PortfolioValue(c *gin.Context) {
	ctx := c.Request.Context()

	stocks, err := h.store.RetrieveAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
		return
	}
	if len(stocks) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stocks found"})
		return
	}

	total := 0.0
	for _, stock := range stocks {
		price, err := h.prices.Price(ctx, stock.Symbol)
		if errors.Is(err, pricing.ErrPriceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"server error": err.Error()})
			return
		}
		total += price * float64(stock.Shares)
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            time.Now().Format("02-01-2006"),
		"portfolio value": total,
	})
}

// currentPortfolioValue sums shares x live price across all holdings.
// An empty portfolio is worth zero.
func (h *ValueHandler) currentPortfolioValue(ctx context.Context) (float64, error) {
	stocks, err := h.store.RetrieveAll(ctx)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, stock := range stocks {
		price, err := h.prices.Price(ctx, stock.Symbol)
		if err != nil {
			return 0, err
		}
		total += price * float64(stock.Shares)
	}
	return total, nil
}
