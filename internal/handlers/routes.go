package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stockfolio/portfolio-services/internal/pricing"
	"github.com/stockfolio/portfolio-services/internal/store"
)

// Register wires the Stocks service routes onto the router.
func Register(router *gin.Engine, s store.Store, prices pricing.Lookup) {
	stocks := NewStockHandler(s)
	values := NewValueHandler(s, prices)

	router.POST("/stocks", stocks.CreateStock)
	router.GET("/stocks", stocks.ListStocks)
	router.GET("/stocks/:id", stocks.GetStock)
	router.PUT("/stocks/:id", stocks.UpdateStock)
	router.DELETE("/stocks/:id", stocks.DeleteStock)

	router.GET("/stock-value/:id", values.StockValue)
	router.GET("/portfolio-value", values.PortfolioValue)
	router.GET("/ws/portfolio-value", values.StreamPortfolioValue)

	router.GET("/kill", Kill)
}
