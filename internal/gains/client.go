// Package gains serves the Capital Gains service: holdings fetched
// from the Stocks service, aggregated against live prices.
package gains

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stockfolio/portfolio-services/internal/models"
)

// StocksClient fetches the holdings collection from the Stocks service.
type StocksClient struct {
	baseURL string
	cli     *http.Client
}

// NewStocksClient builds a client for the Stocks service at baseURL.
func NewStocksClient(baseURL string) *StocksClient {
	return &StocksClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		cli:     &http.Client{Timeout: 8 * time.Second},
	}
}

// Stocks returns every holding the Stocks service reports.
func (c *StocksClient) Stocks(ctx context.Context) ([]models.Stock, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stocks", nil)
	if err != nil {
		return nil, fmt.Errorf("building stocks request: %w", err)
	}

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching stocks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stocks service returned http %d", resp.StatusCode)
	}

	var stocks []models.Stock
	if err := json.NewDecoder(resp.Body).Decode(&stocks); err != nil {
		return nil, fmt.Errorf("decoding stocks response: %w", err)
	}
	return stocks, nil
}
