package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/stockfolio/portfolio-services/internal/config"
	"github.com/stockfolio/portfolio-services/internal/gains"
	"github.com/stockfolio/portfolio-services/internal/pricing"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults or environment variables")
	}

	stocksClient := gains.NewStocksClient(config.Get("STOCKS_URL", "http://stocks-1a:8000"))
	prices := pricing.NewClient(
		config.Get("NINJA_API_URL", "https://api.api-ninjas.com"),
		config.Get("NINJA_API_KEY", ""),
	)

	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := gains.NewHandler(stocksClient, prices)
	router.GET("/capital-gains", handler.CapitalGains)

	port := config.Get("PORT", "8080")
	log.Println("Capital gains service starting on :" + port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
