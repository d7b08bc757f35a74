package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create when free", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, repo.Create(ctx, entities.NewUser("alice", "hash")))

		find := mt.GetStartedEvent()
		assert.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, "alice", find.Command.Lookup("filter", "username").StringValue())
		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("existing username", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "username", Value: "alice"}, {Key: "password", Value: "hash"}},
		))

		err := repo.Create(ctx, entities.NewUser("alice", "other"))
		assert.ErrorIs(mt, err, entities.ErrUserAlreadyExists)
	})

	mt.Run("concurrent signup hits unique index", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
			duplicateKey(),
		)

		err := repo.Create(ctx, entities.NewUser("alice", "hash"))
		assert.ErrorIs(mt, err, entities.ErrUserAlreadyExists)
	})

	mt.Run("find", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "username", Value: "alice"}, {Key: "password", Value: "hash"}},
		))

		u, err := repo.FindByUsername(ctx, "alice")
		require.NoError(mt, err)
		assert.Equal(mt, "alice", u.Username)
		assert.Equal(mt, "hash", u.PasswordHash)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindByUsername(ctx, "bob")
		assert.ErrorIs(mt, err, entities.ErrUserNotFound)
	})
}

func TestMongoTranscriptRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("latest sorts by timestamp desc", func(mt *mtest.T) {
		repo := NewMongoTranscriptRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "record_id", Value: "r1"},
				{Key: "speaker", Value: "user"},
				{Key: "timestamp", Value: 9.0},
				{Key: "room_id", Value: "room"},
				{Key: "analysis", Value: bson.D{
					{Key: "sentiment", Value: "positive"},
					{Key: "confidence", Value: 0.8},
					{Key: "key_points", Value: bson.A{"demo"}},
					{Key: "recommendation_to_salesperson", Value: "Book the demo."},
				}},
			},
		))

		got, err := repo.LatestUserAnalysis(ctx, "room")
		require.NoError(mt, err)
		assert.Equal(mt, entities.SentimentPositive, got.Sentiment)
		assert.Equal(mt, []string{"demo"}, got.KeyPoints)
		assert.Equal(mt, "Book the demo.", got.Recommendation)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, int64(-1), cmd.Lookup("sort", "timestamp").AsInt64())
		assert.Equal(mt, "room", cmd.Lookup("filter", "room_id").StringValue())
		assert.Equal(mt, "user", cmd.Lookup("filter", "speaker").StringValue())
	})

	mt.Run("latest missing", func(mt *mtest.T) {
		repo := NewMongoTranscriptRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.LatestUserAnalysis(ctx, "room")
		assert.ErrorIs(mt, err, entities.ErrAnalysisNotFound)
	})

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewMongoTranscriptRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		rec := entities.NewTranscriptRecord("hello", entities.SpeakerUser, 1, "room", time.Now())
		require.NoError(mt, repo.Insert(ctx, rec))

		doc := mt.GetStartedEvent().Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, rec.ID, doc.Lookup("record_id").StringValue())
		_, err := doc.LookupErr("analysis")
		assert.Error(mt, err, "nil analysis is omitted")
	})

	mt.Run("insert redelivered record", func(mt *mtest.T) {
		repo := NewMongoTranscriptRepository(mt.Coll)
		mt.AddMockResponses(duplicateKey())

		rec := entities.NewTranscriptRecord("hello", entities.SpeakerUser, 1, "room", time.Now())
		assert.NoError(mt, repo.Insert(ctx, rec))
	})

	mt.Run("count by room", func(mt *mtest.T) {
		repo := NewMongoTranscriptRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: 3}},
		))

		n, err := repo.CountByRoom(ctx, "room")
		require.NoError(mt, err)
		assert.Equal(mt, 3, n)
		assert.Equal(mt, "aggregate", mt.GetStartedEvent().CommandName)
	})
}
