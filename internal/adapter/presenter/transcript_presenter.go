package presenter

import (
	transcriptDTO "github.com/johnquangdev/sales-assistant/internal/adapter/dto/transcript"
	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/internal/usecase/analysis"
)

// ToAnalysisResponse converts a SentimentAnalysis to its DTO
func ToAnalysisResponse(a entities.SentimentAnalysis) transcriptDTO.AnalysisResponse {
	keyPoints := a.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return transcriptDTO.AnalysisResponse{
		Sentiment:      string(a.Sentiment),
		Confidence:     a.Confidence,
		KeyPoints:      keyPoints,
		Recommendation: a.Recommendation,
	}
}

// ToProcessTranscriptionResponse converts a submit result to its DTO
func ToProcessTranscriptionResponse(r *analysis.SubmitResult) *transcriptDTO.ProcessTranscriptionResponse {
	resp := &transcriptDTO.ProcessTranscriptionResponse{
		OK:                true,
		RoomID:            r.RoomID,
		CountInRoom:       r.CountInRoom,
		LatestUserMessage: r.LatestUserMessage,
	}
	if r.Analysis != nil {
		a := ToAnalysisResponse(*r.Analysis)
		resp.Analysis = &a
	}
	return resp
}

// ToRoomTranscriptResponse converts a room window to its DTO
func ToRoomTranscriptResponse(t *analysis.RoomTranscript) *transcriptDTO.RoomTranscriptResponse {
	records := make([]transcriptDTO.RecordResponse, 0, len(t.Records))
	for _, r := range t.Records {
		rec := transcriptDTO.RecordResponse{
			ID:         r.ID,
			Text:       r.Text,
			Speaker:    string(r.Speaker),
			Timestamp:  r.Timestamp,
			ReceivedAt: r.ReceivedAt,
		}
		if r.Analysis != nil {
			a := ToAnalysisResponse(*r.Analysis)
			rec.Analysis = &a
		}
		records = append(records, rec)
	}
	return &transcriptDTO.RoomTranscriptResponse{
		OK:          true,
		RoomID:      t.RoomID,
		CountInRoom: t.CountInRoom,
		Records:     records,
	}
}
