// Package voice drives a sales call: it listens for finalized customer utterances,
// generates and speaks replies, and relays both sides of the conversation to the backend.
package voice

import (
	"context"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/pkg/ai"
)

// Listener yields finalized customer utterances. io.EOF ends the call.
type Listener interface {
	Next(ctx context.Context) (string, error)
}

// Replier generates the assistant's next line from the conversation so far
type Replier interface {
	Reply(ctx context.Context, history []ai.Message) (string, error)
}

// Speaker voices a line to the customer
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Transcripts accepts utterances for delivery to the backend without blocking the call
type Transcripts interface {
	Send(u Utterance) bool
}

// Utterance is the body posted to /process-transcription
type Utterance struct {
	// ID stays the same across redeliveries so the backend counts the utterance once
	ID        string           `json:"utterance_id,omitempty"`
	Text      string           `json:"text"`
	Speaker   entities.Speaker `json:"speaker"`
	Timestamp float64          `json:"timestamp"`
	RoomID    string           `json:"room_id"`
}
