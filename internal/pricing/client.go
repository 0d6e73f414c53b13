// Package pricing looks up live stock prices from the external
// stock-price API.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPriceNotFound means the API returned no data for the symbol.
var ErrPriceNotFound = errors.New("price not found")

// Lookup returns the current market price for a ticker symbol.
type Lookup interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

// Client queries GET {base}/v1/stockprice?ticker={symbol} with an
// API-key header.
type Client struct {
	baseURL string
	apiKey  string
	cli     *http.Client
}

// NewClient builds a price client. The base URL is injectable so tests
// can point it at a local server.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		cli:     &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *Client) Price(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v1/stockprice?ticker=%s", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("building price request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.cli.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching price for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("stock price api returned http %d for %s", resp.StatusCode, symbol)
	}

	// An unknown ticker comes back as an empty object rather than an
	// error status.
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return 0, fmt.Errorf("decoding price response for %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return 0, ErrPriceNotFound
	}
	// A non-empty payload without a usable price is a broken response,
	// not a missing ticker.
	price, ok := raw["price"].(float64)
	if !ok {
		return 0, fmt.Errorf("malformed price payload for %s: %v", symbol, raw["price"])
	}
	return price, nil
}
