package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/stockfolio/portfolio-services/internal/config"
	"github.com/stockfolio/portfolio-services/internal/handlers"
	"github.com/stockfolio/portfolio-services/internal/pricing"
	"github.com/stockfolio/portfolio-services/internal/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults or environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect the portfolio store. The collection name selects which
	// portfolio this instance serves.
	portfolioStore, err := store.NewMongoStore(ctx,
		config.Get("MONGO_URI", "mongodb://localhost:27017"),
		config.Get("MONGO_DB", "stocks_db"),
		config.Get("PORTFOLIO", "stocks1a"),
	)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer portfolioStore.Close(context.Background())
	log.Println("Connected to portfolio collection:", config.Get("PORTFOLIO", "stocks1a"))

	prices := pricing.NewClient(
		config.Get("NINJA_API_URL", "https://api.api-ninjas.com"),
		config.Get("NINJA_API_KEY", ""),
	)

	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handlers.Register(router, portfolioStore, prices)

	port := config.Get("PORT", "8000")
	log.Println("Stocks service starting on :" + port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
