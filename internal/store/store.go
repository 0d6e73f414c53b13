// Package store persists stock holdings for a single portfolio.
package store

import (
	"context"
	"errors"
	"math"

	"github.com/stockfolio/portfolio-services/internal/models"
)

var (
	// ErrNotFound means no stock with the given id exists.
	ErrNotFound = errors.New("stock not found")
	// ErrSymbolExists means another stock already holds the symbol.
	ErrSymbolExists = errors.New("symbol already exists")
	// ErrInvalidStock means the stock failed field validation.
	ErrInvalidStock = errors.New("invalid stock fields")
)

// Valuation is the derived worth of one holding at a live price.
// It is never persisted.
type Valuation struct {
	Symbol string
	Ticker float64
	Value  float64
}

// Store is the portfolio repository. Implementations enforce symbol
// uniqueness across the collection on both insert and update (the
// record being updated excluded).
type Store interface {
	// Insert validates the stock, assigns a fresh id and persists it.
	// The id on the argument is ignored.
	Insert(ctx context.Context, stock models.Stock) (string, error)

	// RetrieveAll returns every stored stock. An empty portfolio is
	// not an error.
	RetrieveAll(ctx context.Context) ([]models.Stock, error)

	// GetByID returns the stock with the given id.
	GetByID(ctx context.Context, id string) (models.Stock, error)

	// DeleteByID removes the stock with the given id.
	DeleteByID(ctx context.Context, id string) error

	// Update replaces every field of the stock with the given id.
	// The purchase price is persisted rounded to 2 decimal places;
	// Insert stores it as parsed. That asymmetry is documented
	// behavior and kept.
	Update(ctx context.Context, id string, stock models.Stock) error

	// Exists reports whether a stock with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// Valuation returns the holding's symbol, the given live price and
	// shares multiplied by that price.
	Valuation(ctx context.Context, id string, currentPrice float64) (Valuation, error)

	// SearchByField returns every stock whose named field, in string
	// form, exactly equals value. Unknown fields match nothing. The
	// result is always a slice, possibly empty.
	SearchByField(ctx context.Context, field, value string) ([]models.Stock, error)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
