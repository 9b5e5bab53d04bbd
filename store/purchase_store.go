// api/store/purchase_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/database"
	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

type PurchaseStore struct {
	coll *mongo.Collection
}

func NewPurchaseStore(client *database.MongoClient) *PurchaseStore {
	return &PurchaseStore{coll: client.Purchases()}
}

// InsertIfAbsent writes rec unless a record with the same natural key
// (product_id, customer_location, purchase_date, purchase_time) already
// exists, and reports whether a new record was inserted. Existing records
// are never modified. The check and the insert are separate operations;
// cycles are serialized upstream, so the gap between them is not raced in
// practice.
func (s *PurchaseStore) InsertIfAbsent(ctx context.Context, rec models.PurchaseRecord) (bool, error) {
	filter := bson.M{
		"product_id":        rec.ProductID,
		"customer_location": rec.CustomerLocation,
		"purchase_date":     rec.PurchaseDate,
		"purchase_time":     rec.PurchaseTime,
	}

	err := s.coll.FindOne(ctx, filter).Err()
	if err == nil {
		return false, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, fmt.Errorf("failed to check for existing purchase: %w", err)
	}

	rec.CreatedAt = time.Now()
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return false, fmt.Errorf("failed to insert purchase: %w", err)
	}
	return true, nil
}

// All returns the full stored history, most recent purchase first.
func (s *PurchaseStore) All(ctx context.Context) ([]models.PurchaseRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "purchase_date", Value: -1},
		{Key: "purchase_time", Value: -1},
	})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer cursor.Close(ctx)

	var purchases []models.PurchaseRecord
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("failed to decode purchases: %w", err)
	}
	return purchases, nil
}

func (s *PurchaseStore) Count(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	return count, nil
}

// DistinctProducts returns how many distinct product_id values are stored.
func (s *PurchaseStore) DistinctProducts(ctx context.Context) (int, error) {
	values, err := s.coll.Distinct(ctx, "product_id", bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to query distinct products: %w", err)
	}
	return len(values), nil
}

// DateRange returns the oldest and newest purchase_date present, or
// (nil, nil) when the store is empty.
func (s *PurchaseStore) DateRange(ctx context.Context) (*string, *string, error) {
	var oldest models.PurchaseRecord
	err := s.coll.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "purchase_date", Value: 1}}),
	).Decode(&oldest)
	if err == mongo.ErrNoDocuments {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query oldest purchase: %w", err)
	}

	var newest models.PurchaseRecord
	err = s.coll.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "purchase_date", Value: -1}}),
	).Decode(&newest)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query newest purchase: %w", err)
	}

	return &oldest.PurchaseDate, &newest.PurchaseDate, nil
}
