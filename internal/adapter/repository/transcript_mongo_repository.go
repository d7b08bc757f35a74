package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

// MongoTranscriptRepository appends transcript records to a MongoDB collection
type MongoTranscriptRepository struct {
	coll *mongo.Collection
}

// NewMongoTranscriptRepository creates a new transcript repository backed by MongoDB
func NewMongoTranscriptRepository(coll *mongo.Collection) *MongoTranscriptRepository {
	return &MongoTranscriptRepository{coll: coll}
}

// Insert appends a transcript record. The unique record_id index turns a
// redelivered record into a duplicate key, which is treated as stored.
func (r *MongoTranscriptRepository) Insert(ctx context.Context, record *entities.TranscriptRecord) error {
	if record == nil {
		return errors.New("transcript record cannot be nil")
	}
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert transcript record: %w", err)
	}
	return nil
}

// CountByRoom returns the number of stored records for the room
func (r *MongoTranscriptRepository) CountByRoom(ctx context.Context, roomID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return 0, fmt.Errorf("failed to count transcript records: %w", err)
	}
	return int(n), nil
}

// LatestUserAnalysis returns the newest analysis recorded for a user utterance in the room
func (r *MongoTranscriptRepository) LatestUserAnalysis(ctx context.Context, roomID string) (*entities.SentimentAnalysis, error) {
	filter := bson.M{
		"room_id":  roomID,
		"speaker":  string(entities.SpeakerUser),
		"analysis": bson.M{"$exists": true, "$ne": nil},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var record entities.TranscriptRecord
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to query latest analysis: %w", err)
	}
	if record.Analysis == nil {
		return nil, entities.ErrAnalysisNotFound
	}
	return record.Analysis, nil
}
