package transcript

// ProcessTranscriptionRequest is one finalized utterance from the relay
type ProcessTranscriptionRequest struct {
	Text      string   `json:"text"`
	Speaker   string   `json:"speaker" validate:"required,oneof=user assistant"`
	Timestamp *float64 `json:"timestamp" validate:"required"`
	RoomID    string   `json:"room_id" validate:"required"`
	// UtteranceID is set by the relay and repeated on redelivery
	UtteranceID string `json:"utterance_id,omitempty" validate:"omitempty,uuid"`
}

// LatestAnalysisQuery selects the room for GET /get-latest-analysis
type LatestAnalysisQuery struct {
	RoomID string `query:"room_id" validate:"required"`
}
