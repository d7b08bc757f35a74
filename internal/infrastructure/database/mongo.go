package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoConnectTimeout = 10 * time.Second

// NewMongoClient connects to MongoDB and verifies the connection
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Println("✅ MongoDB connected successfully")

	return client, nil
}

// EnsureUserIndexes makes username lookups unique and indexed.
// Existing duplicate usernames make the unique index fail; that is logged, not fatal.
func EnsureUserIndexes(ctx context.Context, coll *mongo.Collection) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("⚠️  Could not create unique username index on %s: %v", coll.Name(), err)
	}
}

// EnsureTranscriptIndexes supports the latest-user-analysis lookup and makes
// record ids unique. Records written without a record_id are left out of the unique index.
func EnsureTranscriptIndexes(ctx context.Context, coll *mongo.Collection) {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "speaker", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "record_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"record_id": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		log.Printf("⚠️  Could not create transcript indexes on %s: %v", coll.Name(), err)
	}
}

// CloseMongo disconnects the client
func CloseMongo(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}

	log.Println("✅ MongoDB connection closed")
	return nil
}
