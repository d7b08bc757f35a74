package analysis

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/internal/domain/repositories"
)

// SubmitInput is one finalized utterance sent by the relay.
// UtteranceID is set by the relay so a redelivered utterance is counted and stored once.
type SubmitInput struct {
	Text        string
	Speaker     entities.Speaker
	Timestamp   float64
	RoomID      string
	UtteranceID string
}

// SubmitResult acknowledges a submitted utterance
type SubmitResult struct {
	RoomID            string
	CountInRoom       int
	Analysis          *entities.SentimentAnalysis
	LatestUserMessage *string
}

// RoomTranscript is the buffered window of a room
type RoomTranscript struct {
	RoomID      string
	CountInRoom int
	Records     []entities.TranscriptRecord
}

// Service defines transcript analysis operations
type Service interface {
	SubmitTranscript(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	LatestAnalysis(ctx context.Context, roomID string) (entities.SentimentAnalysis, error)
	RoomTranscript(ctx context.Context, roomID string) (*RoomTranscript, error)
}

type analysisService struct {
	transcripts repositories.TranscriptRepository
	rooms       repositories.RoomState
	classifier  Classifier
	logger      *zap.Logger
	now         func() time.Time
}

// NewService constructs the analysis service
func NewService(
	transcripts repositories.TranscriptRepository,
	rooms repositories.RoomState,
	classifier Classifier,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analysisService{
		transcripts: transcripts,
		rooms:       rooms,
		classifier:  classifier,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitTranscript classifies user utterances, updates room state and persists the record.
// Whitespace-only text is acknowledged without any change.
func (s *analysisService) SubmitTranscript(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if !in.Speaker.IsValid() {
		return nil, errors.ErrInvalidArgument("speaker must be user or assistant")
	}

	s.restoreCount(ctx, in.RoomID)

	text := strings.TrimSpace(in.Text)
	if text == "" {
		count, err := s.rooms.Count(ctx, in.RoomID)
		if err != nil {
			s.logger.Warn("room_state.count_failed", zap.String("room_id", in.RoomID), zap.Error(err))
		}
		return &SubmitResult{RoomID: in.RoomID, CountInRoom: count}, nil
	}

	record := entities.NewTranscriptRecord(text, in.Speaker, in.Timestamp, in.RoomID, s.now())
	if in.UtteranceID != "" {
		record.ID = in.UtteranceID
	}
	result := &SubmitResult{RoomID: in.RoomID}

	if record.IsFromUser() {
		analysis := s.classifier.Classify(ctx, text)
		record = record.WithAnalysis(analysis)

		latest := entities.LatestAnalysis{
			SentimentAnalysis: analysis,
			Timestamp:         in.Timestamp,
			UserMessage:       text,
		}
		if err := s.rooms.SetLatest(ctx, in.RoomID, latest); err != nil {
			s.logger.Warn("room_state.set_latest_failed", zap.String("room_id", in.RoomID), zap.Error(err))
		} else {
			s.logger.Info("analysis.updated",
				zap.String("room_id", in.RoomID),
				zap.String("sentiment", string(analysis.Sentiment)),
				zap.Float64("confidence", analysis.Confidence),
			)
		}

		result.Analysis = &analysis
		result.LatestUserMessage = &text
	}

	count, added, err := s.rooms.Append(ctx, record)
	if err != nil {
		return nil, errors.ErrRoomStateFailed("append", err)
	}
	if !added {
		s.logger.Info("transcript.redelivered",
			zap.String("room_id", in.RoomID),
			zap.String("utterance_id", record.ID),
		)
	}
	result.CountInRoom = count

	if err := s.transcripts.Insert(ctx, record); err != nil {
		return nil, errors.ErrTranscriptPersistFailed(in.RoomID, err)
	}

	return result, nil
}

// restoreCount reseeds the count of a room the room state no longer holds
// from the transcript store, so count_in_room keeps increasing after eviction
func (s *analysisService) restoreCount(ctx context.Context, roomID string) {
	count, err := s.rooms.Count(ctx, roomID)
	if err != nil || count > 0 {
		return
	}

	stored, err := s.transcripts.CountByRoom(ctx, roomID)
	if err != nil {
		s.logger.Warn("transcript.count_failed", zap.String("room_id", roomID), zap.Error(err))
		return
	}
	if stored == 0 {
		return
	}
	if err := s.rooms.Restore(ctx, roomID, stored); err != nil {
		s.logger.Warn("room_state.restore_failed", zap.String("room_id", roomID), zap.Error(err))
		return
	}
	s.logger.Info("room_state.restored", zap.String("room_id", roomID), zap.Int("count", stored))
}

// LatestAnalysis resolves cache, then store, then the waiting default
func (s *analysisService) LatestAnalysis(ctx context.Context, roomID string) (entities.SentimentAnalysis, error) {
	latest, ok, err := s.rooms.Latest(ctx, roomID)
	if err != nil {
		s.logger.Warn("room_state.latest_failed", zap.String("room_id", roomID), zap.Error(err))
	} else if ok {
		s.logger.Debug("analysis.cache_hit", zap.String("room_id", roomID))
		return latest.SentimentAnalysis.Normalized(), nil
	}

	stored, err := s.transcripts.LatestUserAnalysis(ctx, roomID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrAnalysisNotFound) {
			s.logger.Debug("analysis.default", zap.String("room_id", roomID))
			return entities.WaitingAnalysis(), nil
		}
		return entities.SentimentAnalysis{}, errors.ErrAnalysisLookupFailed(roomID, err)
	}

	analysis := stored.Normalized()
	if err := s.rooms.SetLatest(ctx, roomID, entities.LatestAnalysis{SentimentAnalysis: analysis}); err != nil {
		s.logger.Warn("room_state.set_latest_failed", zap.String("room_id", roomID), zap.Error(err))
	}
	s.logger.Debug("analysis.store_hit", zap.String("room_id", roomID))
	return analysis, nil
}

// RoomTranscript returns the buffered records of a room
func (s *analysisService) RoomTranscript(ctx context.Context, roomID string) (*RoomTranscript, error) {
	records, err := s.rooms.Recent(ctx, roomID)
	if err != nil {
		return nil, errors.ErrRoomStateFailed("recent", err)
	}
	count, err := s.rooms.Count(ctx, roomID)
	if err != nil {
		return nil, errors.ErrRoomStateFailed("count", err)
	}
	return &RoomTranscript{RoomID: roomID, CountInRoom: count, Records: records}, nil
}
