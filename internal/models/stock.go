package models

import (
	"encoding/json"
	"strconv"
)

// Stock represents a single holding in a portfolio.
type Stock struct {
	ID            string  `bson:"_id"`
	Name          string  `bson:"name"`
	Symbol        string  `bson:"symbol"`
	PurchasePrice float64 `bson:"purchase price"`
	PurchaseDate  string  `bson:"purchase date"`
	Shares        int     `bson:"shares"`
}

// The wire format uses field names with spaces ("purchase price"),
// which encoding/json struct tags cannot express, so Stock carries
// its own JSON codec.

// MarshalJSON implements json.Marshaler.
func (s Stock) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"id":             s.ID,
		"name":           s.Name,
		"symbol":         s.Symbol,
		"purchase price": s.PurchasePrice,
		"purchase date":  s.PurchaseDate,
		"shares":         s.Shares,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stock) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["id"].(string); ok {
		s.ID = v
	}
	if v, ok := raw["name"].(string); ok {
		s.Name = v
	}
	if v, ok := raw["symbol"].(string); ok {
		s.Symbol = v
	}
	if v, ok := raw["purchase price"].(float64); ok {
		s.PurchasePrice = v
	}
	if v, ok := raw["purchase date"].(string); ok {
		s.PurchaseDate = v
	}
	if v, ok := raw["shares"].(float64); ok {
		s.Shares = int(v)
	}
	return nil
}

// FieldStrings returns the stock's fields keyed by wire name, each in
// its string form. Query filtering and field search compare against
// these values.
func (s Stock) FieldStrings() map[string]string {
	return map[string]string{
		"id":             s.ID,
		"name":           s.Name,
		"symbol":         s.Symbol,
		"purchase price": strconv.FormatFloat(s.PurchasePrice, 'f', -1, 64),
		"purchase date":  s.PurchaseDate,
		"shares":         strconv.Itoa(s.Shares),
	}
}
