package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ValueUpdate is one frame of the live portfolio-value stream.
type ValueUpdate struct {
	Date           string  `json:"date"`
	PortfolioValue float64 `json:"portfolio_value"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins (for development and demo)
	},
}

// streamInterval is how often a connected client receives a fresh
// portfolio valuation.
const streamInterval = 5 * time.Second

// StreamPortfolioValue handles GET /ws/portfolio-value. It upgrades the
// connection and pushes the current portfolio value on a fixed ticker
// until the client disconnects or a price lookup fails.
func (h *ValueHandler) StreamPortfolioValue(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		total, err := h.currentPortfolioValue(ctx)
		if err != nil {
			log.Println("Portfolio value stream error:", err)
			return
		}

		update := ValueUpdate{
			Date:           time.Now().Format("02-01-2006"),
			PortfolioValue: total,
		}
		if err := conn.WriteJSON(update); err != nil {
			log.Println("WebSocket write error:", err)
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
