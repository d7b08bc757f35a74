package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Speaker tags who produced an utterance
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// IsValid checks if the speaker tag is one of the two participants
func (s Speaker) IsValid() bool {
	switch s {
	case SpeakerUser, SpeakerAssistant:
		return true
	}
	return false
}

// TranscriptRecord is a single finalized utterance in a room.
// Records are append-only; nothing updates one after creation.
type TranscriptRecord struct {
	ID         string             `json:"id" bson:"record_id"`
	Text       string             `json:"text" bson:"text"`
	Speaker    Speaker            `json:"speaker" bson:"speaker"`
	Timestamp  float64            `json:"timestamp" bson:"timestamp"`
	RoomID     string             `json:"room_id" bson:"room_id"`
	ReceivedAt string             `json:"received_at" bson:"received_at"`
	Analysis   *SentimentAnalysis `json:"analysis,omitempty" bson:"analysis,omitempty"`
}

// NewTranscriptRecord creates a record with a server-assigned received_at
func NewTranscriptRecord(text string, speaker Speaker, timestamp float64, roomID string, now time.Time) *TranscriptRecord {
	return &TranscriptRecord{
		ID:         uuid.NewString(),
		Text:       strings.TrimSpace(text),
		Speaker:    speaker,
		Timestamp:  timestamp,
		RoomID:     roomID,
		ReceivedAt: now.UTC().Format(time.RFC3339Nano),
	}
}

// IsFromUser reports whether the human participant spoke
func (r *TranscriptRecord) IsFromUser() bool {
	return r.Speaker == SpeakerUser
}

// WithAnalysis returns a copy of the record carrying the analysis
func (r TranscriptRecord) WithAnalysis(a SentimentAnalysis) *TranscriptRecord {
	r.Analysis = &a
	return &r
}
