package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stockfolio/portfolio-services/internal/models"
	"github.com/stockfolio/portfolio-services/internal/validation"
)

// MongoStore persists stocks in one MongoDB collection per portfolio.
// A unique index on symbol makes the insert-time conflict check atomic:
// a racing duplicate insert surfaces as a duplicate-key error instead
// of slipping past a check-then-insert window.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and prepares the portfolio
// collection, including the unique symbol index.
func NewMongoStore(ctx context.Context, uri, database, portfolio string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	coll := client.Database(database).Collection(portfolio)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "symbol", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("creating symbol index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Insert(ctx context.Context, stock models.Stock) (string, error) {
	if !validation.Fields(stock.PurchasePrice, stock.PurchaseDate, stock.Shares) {
		return "", ErrInvalidStock
	}

	stock.ID = uuid.NewString()
	if _, err := s.coll.InsertOne(ctx, stock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrSymbolExists
		}
		return "", fmt.Errorf("inserting stock: %w", err)
	}
	return stock.ID, nil
}

func (s *MongoStore) RetrieveAll(ctx context.Context) ([]models.Stock, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing stocks: %w", err)
	}
	stocks := make([]models.Stock, 0)
	if err := cursor.All(ctx, &stocks); err != nil {
		return nil, fmt.Errorf("decoding stocks: %w", err)
	}
	return stocks, nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (models.Stock, error) {
	var stock models.Stock
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&stock)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Stock{}, ErrNotFound
	}
	if err != nil {
		return models.Stock{}, fmt.Errorf("fetching stock: %w", err)
	}
	return stock, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting stock: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, id string, stock models.Stock) error {
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	// Another record (different id) holding the symbol is a conflict.
	err = s.coll.FindOne(ctx, bson.M{"symbol": stock.Symbol, "_id": bson.M{"$ne": id}}).Err()
	if err == nil {
		return ErrSymbolExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("checking symbol conflict: %w", err)
	}

	if !validation.Fields(stock.PurchasePrice, stock.PurchaseDate, stock.Shares) {
		return ErrInvalidStock
	}

	_, err = s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":           stock.Name,
		"symbol":         stock.Symbol,
		"purchase price": round2(stock.PurchasePrice),
		"purchase date":  stock.PurchaseDate,
		"shares":         stock.Shares,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSymbolExists
		}
		return fmt.Errorf("updating stock: %w", err)
	}
	return nil
}

func (s *MongoStore) Exists(ctx context.Context, id string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("checking stock existence: %w", err)
	}
	return count > 0, nil
}

func (s *MongoStore) Valuation(ctx context.Context, id string, currentPrice float64) (Valuation, error) {
	stock, err := s.GetByID(ctx, id)
	if err != nil {
		return Valuation{}, err
	}
	return Valuation{
		Symbol: stock.Symbol,
		Ticker: currentPrice,
		Value:  float64(stock.Shares) * currentPrice,
	}, nil
}

// SearchByField scans client-side over the stocks' string forms so the
// match semantics stay identical to the in-memory store regardless of
// how a field is typed in the documents.
func (s *MongoStore) SearchByField(ctx context.Context, field, value string) ([]models.Stock, error) {
	stocks, err := s.RetrieveAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Stock, 0)
	for _, stock := range stocks {
		fields := stock.FieldStrings()
		if got, ok := fields[field]; ok && got == value {
			out = append(out, stock)
		}
	}
	return out, nil
}
