package gains

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stockfolio/portfolio-services/internal/models"
	"github.com/stockfolio/portfolio-services/internal/pricing"
)

// Handler serves GET /capital-gains.
type Handler struct {
	stocks *StocksClient
	prices pricing.Lookup
}

// NewHandler builds the capital gains handler.
func NewHandler(stocks *StocksClient, prices pricing.Lookup) *Handler {
	return &Handler{stocks: stocks, prices: prices}
}

// CapitalGains computes sum(shares x (current price - purchase price))
// across the filtered holdings and responds with the rounded total as a
// bare number. Any failure in the pipeline yields a 500 with the error
// text.
func (h *Handler) CapitalGains(c *gin.Context) {
	ctx := c.Request.Context()

	stocks, err := h.stocks.Stocks(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The portfolio selector re-fetches from the same service; with a
	// single Stocks backend it narrows nothing.
	if c.Query("portfolio") != "" {
		stocks, err = h.stocks.Stocks(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if raw := c.Query("numsharesgt"); raw != "" {
		bound, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		stocks = filterShares(stocks, func(shares int) bool { return shares > bound })
	}
	if raw := c.Query("numshareslt"); raw != "" {
		bound, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		stocks = filterShares(stocks, func(shares int) bool { return shares < bound })
	}

	total := 0.0
	for _, stock := range stocks {
		price, err := h.prices.Price(ctx, stock.Symbol)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total += float64(stock.Shares) * (price - stock.PurchasePrice)
	}

	c.JSON(http.StatusOK, math.Round(total*100)/100)
}

func filterShares(stocks []models.Stock, keep func(shares int) bool) []models.Stock {
	out := make([]models.Stock, 0, len(stocks))
	for _, stock := range stocks {
		if keep(stock.Shares) {
			out = append(out, stock)
		}
	}
	return out
}
