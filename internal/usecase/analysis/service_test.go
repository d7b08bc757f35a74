package analysis

import (
	"context"
	stdErrors "errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/internal/infrastructure/cache"
)

type fakeTranscriptRepo struct {
	mu        sync.Mutex
	records   []entities.TranscriptRecord
	insertErr error
	lookupErr error
}

func (f *fakeTranscriptRepo) Insert(_ context.Context, r *entities.TranscriptRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.records {
		if existing.ID == r.ID {
			return nil
		}
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeTranscriptRepo) CountByRoom(_ context.Context, roomID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.records {
		if r.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTranscriptRepo) LatestUserAnalysis(_ context.Context, roomID string) (*entities.SentimentAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var matches []entities.TranscriptRecord
	for _, r := range f.records {
		if r.RoomID == roomID && r.Speaker == entities.SpeakerUser && r.Analysis != nil {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, entities.ErrAnalysisNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Timestamp > matches[j].Timestamp })
	a := *matches[0].Analysis
	return &a, nil
}

type fixedClassifier struct {
	result entities.SentimentAnalysis
	calls  int
}

func (f *fixedClassifier) Classify(context.Context, string) entities.SentimentAnalysis {
	f.calls++
	return f.result
}

var positive = entities.SentimentAnalysis{
	Sentiment:      entities.SentimentPositive,
	Confidence:     0.85,
	KeyPoints:      []string{"interested"},
	Recommendation: "Propose a demo.",
}

func newTestService(t *testing.T, repo *fakeTranscriptRepo, classifier Classifier) (Service, *cache.MemoryRoomState) {
	t.Helper()
	rooms := cache.NewMemoryRoomState(100, time.Hour, 10)
	t.Cleanup(func() { _ = rooms.Close() })
	return NewService(repo, rooms, classifier, nil), rooms
}

func TestSubmitTranscript_UserGetsAnalysisAssistantDoesNot(t *testing.T) {
	repo := &fakeTranscriptRepo{}
	svc, _ := newTestService(t, repo, &fixedClassifier{result: positive})
	ctx := context.Background()

	res, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "  I like it  ", Speaker: entities.SpeakerUser, Timestamp: 1, RoomID: "r1"})
	require.NoError(t, err)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, positive, *res.Analysis)
	require.NotNil(t, res.LatestUserMessage)
	assert.Equal(t, "I like it", *res.LatestUserMessage)
	assert.Equal(t, 1, res.CountInRoom)

	res, err = svc.SubmitTranscript(ctx, SubmitInput{Text: "Great to hear", Speaker: entities.SpeakerAssistant, Timestamp: 2, RoomID: "r1"})
	require.NoError(t, err)
	assert.Nil(t, res.Analysis)
	assert.Nil(t, res.LatestUserMessage)
	assert.Equal(t, 2, res.CountInRoom)

	require.Len(t, repo.records, 2)
	assert.NotNil(t, repo.records[0].Analysis)
	assert.Nil(t, repo.records[1].Analysis)
	assert.NotEmpty(t, repo.records[0].ReceivedAt)
}

func TestSubmitTranscript_EmptyTextIsNoop(t *testing.T) {
	repo := &fakeTranscriptRepo{}
	classifier := &fixedClassifier{result: positive}
	svc, _ := newTestService(t, repo, classifier)
	ctx := context.Background()

	_, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "hello", Speaker: entities.SpeakerUser, Timestamp: 1, RoomID: "r"})
	require.NoError(t, err)
	before, err := svc.LatestAnalysis(ctx, "r")
	require.NoError(t, err)

	res, err := svc.SubmitTranscript(ctx, SubmitInput{Text: " \n\t ", Speaker: entities.SpeakerUser, Timestamp: 2, RoomID: "r"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CountInRoom)
	assert.Nil(t, res.Analysis)

	after, err := svc.LatestAnalysis(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, classifier.calls)
	assert.Len(t, repo.records, 1)
}

func TestSubmitTranscript_CountIncrementsPerRoom(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{}, &fixedClassifier{result: positive})
	ctx := context.Background()

	speakers := []entities.Speaker{entities.SpeakerUser, entities.SpeakerAssistant, entities.SpeakerAssistant, entities.SpeakerUser}
	for i, sp := range speakers {
		res, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "msg", Speaker: sp, Timestamp: float64(i), RoomID: "room-a"})
		require.NoError(t, err)
		assert.Equal(t, i+1, res.CountInRoom)
	}

	res, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "msg", Speaker: entities.SpeakerUser, RoomID: "room-b"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CountInRoom)
}

func TestSubmitTranscript_ClassifierFallbackStillOK(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{}, NewLLMClassifier(completerFunc(func(context.Context, string, string) (string, error) {
		return "{broken", nil
	}), time.Second, nil))

	res, err := svc.SubmitTranscript(context.Background(), SubmitInput{Text: "hmm", Speaker: entities.SpeakerUser, RoomID: "r"})
	require.NoError(t, err)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, entities.FallbackAnalysis(), *res.Analysis)
}

func TestSubmitTranscript_PersistFailureSurfaces(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{insertErr: stdErrors.New("write concern")}, &fixedClassifier{result: positive})

	_, err := svc.SubmitTranscript(context.Background(), SubmitInput{Text: "hi", Speaker: entities.SpeakerAssistant, RoomID: "r"})
	require.Error(t, err)

	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorCode_TRANSCRIPT_PERSIST_FAILED, appErr.Code)
	assert.Equal(t, 500, appErr.HTTPCode)
}

func TestSubmitTranscript_InvalidSpeaker(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{}, &fixedClassifier{result: positive})

	_, err := svc.SubmitTranscript(context.Background(), SubmitInput{Text: "hi", Speaker: "bot", RoomID: "r"})
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestLatestAnalysis_DefaultForUnknownRoom(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{}, &fixedClassifier{result: positive})

	got, err := svc.LatestAnalysis(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, entities.WaitingAnalysis(), got)
}

func TestLatestAnalysis_ReturnsJustComputed(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{}, &fixedClassifier{result: positive})
	ctx := context.Background()

	res, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "sounds good", Speaker: entities.SpeakerUser, Timestamp: 5, RoomID: "fresh"})
	require.NoError(t, err)

	got, err := svc.LatestAnalysis(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, *res.Analysis, got)
}

func TestLatestAnalysis_ReadsThroughStoreAndIsIdempotent(t *testing.T) {
	stored := entities.SentimentAnalysis{Sentiment: entities.SentimentNegative, Confidence: 0.6}
	repo := &fakeTranscriptRepo{records: []entities.TranscriptRecord{
		{RoomID: "r", Speaker: entities.SpeakerUser, Timestamp: 1, Analysis: &positive},
		{RoomID: "r", Speaker: entities.SpeakerUser, Timestamp: 9, Analysis: &stored},
		{RoomID: "r", Speaker: entities.SpeakerAssistant, Timestamp: 10},
	}}
	svc, rooms := newTestService(t, repo, &fixedClassifier{result: positive})
	ctx := context.Background()

	first, err := svc.LatestAnalysis(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, entities.SentimentNegative, first.Sentiment)
	assert.Equal(t, entities.RecommendationKeepEngaging, first.Recommendation)
	assert.Equal(t, []string{}, first.KeyPoints)

	_, cached, err := rooms.Latest(ctx, "r")
	require.NoError(t, err)
	assert.True(t, cached)

	// store changes are not seen once cached
	repo.lookupErr = stdErrors.New("store down")
	second, err := svc.LatestAnalysis(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLatestAnalysis_StoreFailure(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{lookupErr: stdErrors.New("timeout")}, &fixedClassifier{result: positive})

	_, err := svc.LatestAnalysis(context.Background(), "r")
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorCode_ANALYSIS_LOOKUP_FAILED, appErr.Code)
}

func TestRoomTranscript(t *testing.T) {
	svc, _ := newTestService(t, &fakeTranscriptRepo{}, &fixedClassifier{result: positive})
	ctx := context.Background()

	_, _ = svc.SubmitTranscript(ctx, SubmitInput{Text: "one", Speaker: entities.SpeakerAssistant, RoomID: "r"})
	_, _ = svc.SubmitTranscript(ctx, SubmitInput{Text: "two", Speaker: entities.SpeakerUser, RoomID: "r"})

	tr, err := svc.RoomTranscript(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, 2, tr.CountInRoom)
	require.Len(t, tr.Records, 2)
	assert.Equal(t, "one", tr.Records[0].Text)
	assert.NotNil(t, tr.Records[1].Analysis)
}

func TestSubmitTranscript_RedeliveryCountedOnce(t *testing.T) {
	repo := &fakeTranscriptRepo{}
	svc, _ := newTestService(t, repo, &fixedClassifier{result: positive})
	ctx := context.Background()

	in := SubmitInput{
		Text:        "tell me more",
		Speaker:     entities.SpeakerUser,
		Timestamp:   3,
		RoomID:      "r",
		UtteranceID: "6f1c2d8e-8d4b-4a52-9a53-2f0f6f1d9c11",
	}
	first, err := svc.SubmitTranscript(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CountInRoom)

	again, err := svc.SubmitTranscript(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, again.CountInRoom)
	require.NotNil(t, again.Analysis)

	require.Len(t, repo.records, 1)
	assert.Equal(t, in.UtteranceID, repo.records[0].ID)

	next, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "ok", Speaker: entities.SpeakerAssistant, Timestamp: 4, RoomID: "r"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.CountInRoom)
}

func TestSubmitTranscript_RetryAfterPersistFailure(t *testing.T) {
	repo := &fakeTranscriptRepo{insertErr: stdErrors.New("write concern")}
	svc, _ := newTestService(t, repo, &fixedClassifier{result: positive})
	ctx := context.Background()

	in := SubmitInput{Text: "hi", Speaker: entities.SpeakerAssistant, RoomID: "r", UtteranceID: "0d9e5d7a-1c51-4f0e-8f43-4c1c0b6a2e70"}
	_, err := svc.SubmitTranscript(ctx, in)
	require.Error(t, err)

	repo.mu.Lock()
	repo.insertErr = nil
	repo.mu.Unlock()

	res, err := svc.SubmitTranscript(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CountInRoom)
	assert.Len(t, repo.records, 1)
}

func TestSubmitTranscript_CountSurvivesEviction(t *testing.T) {
	repo := &fakeTranscriptRepo{}
	rooms := cache.NewMemoryRoomState(1, time.Hour, 10)
	t.Cleanup(func() { _ = rooms.Close() })
	svc := NewService(repo, rooms, &fixedClassifier{result: positive}, nil)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		res, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "msg", Speaker: entities.SpeakerAssistant, RoomID: "a"})
		require.NoError(t, err)
		assert.Equal(t, i, res.CountInRoom)
	}

	// room b pushes room a out of the one-room cache
	_, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "msg", Speaker: entities.SpeakerAssistant, RoomID: "b"})
	require.NoError(t, err)
	count, err := rooms.Count(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	res, err := svc.SubmitTranscript(ctx, SubmitInput{Text: "back", Speaker: entities.SpeakerUser, RoomID: "a"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.CountInRoom)
}
