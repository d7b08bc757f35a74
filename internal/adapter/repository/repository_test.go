package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// each new connection would open a fresh in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&userRow{}, &transcriptRow{}))
	return db
}

func userRecord(roomID string, ts float64, analysis *entities.SentimentAnalysis) *entities.TranscriptRecord {
	r := entities.NewTranscriptRecord("hello", entities.SpeakerUser, ts, roomID, time.Now())
	r.Analysis = analysis
	return r
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entities.NewUser("alice", "hash")))

	u, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entities.NewUser("alice", "one")))
	err := repo.Create(ctx, entities.NewUser("alice", "two"))
	assert.ErrorIs(t, err, entities.ErrUserAlreadyExists)

	u, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "one", u.PasswordHash)
}

func TestTranscriptRepository_LatestByTimestamp(t *testing.T) {
	repo := NewTranscriptRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.LatestUserAnalysis(ctx, "room")
	assert.ErrorIs(t, err, entities.ErrAnalysisNotFound)

	older := &entities.SentimentAnalysis{Sentiment: entities.SentimentNegative, KeyPoints: []string{"price"}}
	newer := &entities.SentimentAnalysis{Sentiment: entities.SentimentPositive, KeyPoints: []string{"demo"}}

	// inserted out of order; timestamp decides
	require.NoError(t, repo.Insert(ctx, userRecord("room", 9, newer)))
	require.NoError(t, repo.Insert(ctx, userRecord("room", 2, older)))
	require.NoError(t, repo.Insert(ctx, userRecord("room", 12, nil)))
	assistant := entities.NewTranscriptRecord("hi", entities.SpeakerAssistant, 20, "room", time.Now())
	assistant.Analysis = older
	require.NoError(t, repo.Insert(ctx, assistant))
	require.NoError(t, repo.Insert(ctx, userRecord("other", 30, older)))

	got, err := repo.LatestUserAnalysis(ctx, "room")
	require.NoError(t, err)
	assert.Equal(t, entities.SentimentPositive, got.Sentiment)
	assert.Equal(t, []string{"demo"}, got.KeyPoints)
}

func TestTranscriptRepository_InsertIgnoresRedelivery(t *testing.T) {
	repo := NewTranscriptRepository(newTestDB(t))
	ctx := context.Background()

	rec := userRecord("room", 1, nil)
	require.NoError(t, repo.Insert(ctx, rec))
	require.NoError(t, repo.Insert(ctx, rec))
	require.NoError(t, repo.Insert(ctx, userRecord("room", 2, nil)))
	require.NoError(t, repo.Insert(ctx, userRecord("other", 2, nil)))

	n, err := repo.CountByRoom(ctx, "room")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountByRoom(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
