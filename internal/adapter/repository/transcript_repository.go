package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

type transcriptRow struct {
	ID         string         `gorm:"column:id;type:varchar(36);primaryKey"`
	Text       string         `gorm:"column:text;type:text;not null"`
	Speaker    string         `gorm:"column:speaker;type:varchar(20);not null"`
	Timestamp  float64        `gorm:"column:timestamp;not null"`
	RoomID     string         `gorm:"column:room_id;type:varchar(255);not null"`
	ReceivedAt string         `gorm:"column:received_at;type:varchar(64);not null"`
	Analysis   datatypes.JSON `gorm:"column:analysis;type:jsonb"`
}

func (transcriptRow) TableName() string {
	return "transcript_records"
}

// TranscriptRepository handles transcript data operations on PostgreSQL
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Insert appends a transcript record; a redelivered record id is ignored
func (r *TranscriptRepository) Insert(ctx context.Context, record *entities.TranscriptRecord) error {
	if record == nil {
		return errors.New("transcript record cannot be nil")
	}

	row := transcriptRow{
		ID:         record.ID,
		Text:       record.Text,
		Speaker:    string(record.Speaker),
		Timestamp:  record.Timestamp,
		RoomID:     record.RoomID,
		ReceivedAt: record.ReceivedAt,
	}
	if record.Analysis != nil {
		b, err := json.Marshal(record.Analysis)
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		row.Analysis = datatypes.JSON(b)
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to insert transcript record: %w", err)
	}
	return nil
}

// CountByRoom returns the number of stored records for the room
func (r *TranscriptRepository) CountByRoom(ctx context.Context, roomID string) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&transcriptRow{}).Where("room_id = ?", roomID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count transcript records: %w", err)
	}
	return int(n), nil
}

// LatestUserAnalysis returns the newest analysis recorded for a user utterance in the room
func (r *TranscriptRepository) LatestUserAnalysis(ctx context.Context, roomID string) (*entities.SentimentAnalysis, error) {
	var row transcriptRow
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND speaker = ? AND analysis IS NOT NULL", roomID, string(entities.SpeakerUser)).
		Order("timestamp DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to query latest analysis: %w", err)
	}

	var analysis entities.SentimentAnalysis
	if err := json.Unmarshal(row.Analysis, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &analysis, nil
}
