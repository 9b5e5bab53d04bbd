// api/database/mongo.go
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient wraps the long-lived MongoDB connection shared across
// monitoring cycles. Created once at startup, closed once at shutdown.
type MongoClient struct {
	Client     *mongo.Client
	Database   string
	Collection string
}

func NewMongoDB() (*MongoClient, error) {
	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		return nil, fmt.Errorf("MONGODB_URL environment variable is not set")
	}

	dbName := os.Getenv("MONGO_DB_NAME")
	if dbName == "" {
		dbName = "shopdeck_monitoring"
	}
	collName := os.Getenv("MONGO_COLLECTION")
	if collName == "" {
		collName = "purchases"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Successfully connected to MongoDB database!")
	return &MongoClient{Client: client, Database: dbName, Collection: collName}, nil
}

// Purchases returns the purchase history collection.
func (c *MongoClient) Purchases() *mongo.Collection {
	return c.Client.Database(c.Database).Collection(c.Collection)
}

// Ping reports whether the connection is still usable; the health
// endpoint uses this to distinguish "connected" from "disconnected".
func (c *MongoClient) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

func (c *MongoClient) Close() {
	if c.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Client.Disconnect(ctx); err != nil {
		log.Printf("Error closing MongoDB connection: %v", err)
	} else {
		log.Println("MongoDB connection closed.")
	}
}
