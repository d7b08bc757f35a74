package repositories

import (
	"context"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

// TranscriptRepository defines append-only persistence for transcript records
type TranscriptRepository interface {
	// Insert appends a record; a record id that is already stored is a no-op
	Insert(ctx context.Context, record *entities.TranscriptRecord) error

	// CountByRoom returns the number of stored records for the room
	CountByRoom(ctx context.Context, roomID string) (int, error)

	// LatestUserAnalysis returns the analysis of the most recent (by timestamp) user record
	// in the room that carries one; returns entities.ErrAnalysisNotFound when there is none
	LatestUserAnalysis(ctx context.Context, roomID string) (*entities.SentimentAnalysis, error)
}
