package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stockfolio/portfolio-services/internal/models"
	"github.com/stockfolio/portfolio-services/internal/validation"
)

// MemoryStore keeps stocks in a map guarded by a RWMutex. It backs the
// handler tests and doubles as a database-free development backend.
type MemoryStore struct {
	mu     sync.RWMutex
	stocks map[string]models.Stock
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stocks: make(map[string]models.Stock)}
}

func (m *MemoryStore) Insert(ctx context.Context, stock models.Stock) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.stocks {
		if existing.Symbol == stock.Symbol {
			return "", ErrSymbolExists
		}
	}
	if !validation.Fields(stock.PurchasePrice, stock.PurchaseDate, stock.Shares) {
		return "", ErrInvalidStock
	}

	stock.ID = uuid.NewString()
	m.stocks[stock.ID] = stock
	return stock.ID, nil
}

func (m *MemoryStore) RetrieveAll(ctx context.Context) ([]models.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Stock, 0, len(m.stocks))
	for _, stock := range m.stocks {
		out = append(out, stock)
	}
	return out, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (models.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stock, ok := m.stocks[id]
	if !ok {
		return models.Stock{}, ErrNotFound
	}
	return stock, nil
}

func (m *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stocks[id]; !ok {
		return ErrNotFound
	}
	delete(m.stocks, id)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, stock models.Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stocks[id]; !ok {
		return ErrNotFound
	}
	for otherID, existing := range m.stocks {
		if otherID != id && existing.Symbol == stock.Symbol {
			return ErrSymbolExists
		}
	}
	if !validation.Fields(stock.PurchasePrice, stock.PurchaseDate, stock.Shares) {
		return ErrInvalidStock
	}

	stock.ID = id
	stock.PurchasePrice = round2(stock.PurchasePrice)
	m.stocks[id] = stock
	return nil
}

func (m *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.stocks[id]
	return ok, nil
}

func (m *MemoryStore) Valuation(ctx context.Context, id string, currentPrice float64) (Valuation, error) {
	stock, err := m.GetByID(ctx, id)
	if err != nil {
		return Valuation{}, err
	}
	return Valuation{
		Symbol: stock.Symbol,
		Ticker: currentPrice,
		Value:  float64(stock.Shares) * currentPrice,
	}, nil
}

func (m *MemoryStore) SearchByField(ctx context.Context, field, value string) ([]models.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Stock, 0)
	for _, stock := range m.stocks {
		fields := stock.FieldStrings()
		if got, ok := fields[field]; ok && got == value {
			out = append(out, stock)
		}
	}
	return out, nil
}
