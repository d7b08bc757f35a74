package transcript

// AnalysisResponse is the sentiment analysis shown to the salesperson
type AnalysisResponse struct {
	Sentiment      string   `json:"sentiment" example:"positive"`
	Confidence     float64  `json:"confidence" example:"0.85"`
	KeyPoints      []string `json:"key_points"`
	Recommendation string   `json:"recommendation_to_salesperson" example:"Offer a product demo."`
}

// ProcessTranscriptionResponse acknowledges a submitted utterance.
// Analysis and LatestUserMessage are null for assistant utterances.
type ProcessTranscriptionResponse struct {
	OK                bool              `json:"ok"`
	RoomID            string            `json:"room_id"`
	CountInRoom       int               `json:"count_in_room"`
	Analysis          *AnalysisResponse `json:"analysis"`
	LatestUserMessage *string           `json:"latest_user_message"`
}

// LatestAnalysisResponse is the body of GET /get-latest-analysis
type LatestAnalysisResponse struct {
	OK       bool             `json:"ok"`
	RoomID   string           `json:"room_id"`
	Analysis AnalysisResponse `json:"analysis"`
}

// RecordResponse is one buffered transcript record
type RecordResponse struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Speaker    string            `json:"speaker"`
	Timestamp  float64           `json:"timestamp"`
	ReceivedAt string            `json:"received_at"`
	Analysis   *AnalysisResponse `json:"analysis,omitempty"`
}

// RoomTranscriptResponse is the body of GET /rooms/:room_id/transcript
type RoomTranscriptResponse struct {
	OK          bool             `json:"ok"`
	RoomID      string           `json:"room_id"`
	CountInRoom int              `json:"count_in_room"`
	Records     []RecordResponse `json:"records"`
}
