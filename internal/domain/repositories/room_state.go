package repositories

import (
	"context"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

// RoomState holds the per-room latest analysis and transcript buffer.
// Implementations must make Append atomic per room.
type RoomState interface {
	// Latest returns the cached analysis for the room; ok is false on miss
	Latest(ctx context.Context, roomID string) (latest *entities.LatestAnalysis, ok bool, err error)

	// SetLatest overwrites the cached analysis for the room
	SetLatest(ctx context.Context, roomID string, latest entities.LatestAnalysis) error

	// Append adds the record to its room's buffer and returns the room count.
	// A record id the room has already seen is not counted again; added is false.
	Append(ctx context.Context, record *entities.TranscriptRecord) (count int, added bool, err error)

	// Restore sets the room count when the room holds none, e.g. after eviction
	Restore(ctx context.Context, roomID string, count int) error

	// Count returns the number of records appended for the room
	Count(ctx context.Context, roomID string) (int, error)

	// Recent returns the most recent buffered records for the room, oldest first
	Recent(ctx context.Context, roomID string) ([]entities.TranscriptRecord, error)

	// Close releases background resources
	Close() error
}
