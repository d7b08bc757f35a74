package voice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/pkg/ai"
)

type recordingBackend struct {
	mu       sync.Mutex
	received []Utterance
	headers  []http.Header
	bodies   [][]byte
}

func (b *recordingBackend) handler(status func(n int) int) http.HandlerFunc {
	var calls int32
	return func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		body, _ := io.ReadAll(r.Body)
		code := status(n)
		if code == http.StatusOK {
			var u Utterance
			_ = json.Unmarshal(body, &u)
			b.mu.Lock()
			b.received = append(b.received, u)
			b.headers = append(b.headers, r.Header.Clone())
			b.bodies = append(b.bodies, body)
			b.mu.Unlock()
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}
}

func (b *recordingBackend) snapshot() ([]Utterance, []http.Header, [][]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Utterance(nil), b.received...), append([]http.Header(nil), b.headers...), append([][]byte(nil), b.bodies...)
}

func alwaysOK(int) int { return http.StatusOK }

func testRelayConfig(url string) RelayConfig {
	return RelayConfig{
		BackendURL:    url,
		Timeout:       time.Second,
		MaxElapsed:    2 * time.Second,
		RetryInterval: 10 * time.Millisecond,
		QueueSize:     32,
	}
}

func TestRelay_DeliversInOrderAndDrainsOnClose(t *testing.T) {
	backend := &recordingBackend{}
	srv := httptest.NewServer(backend.handler(alwaysOK))
	defer srv.Close()

	relay := NewRelay(testRelayConfig(srv.URL), srv.Client(), nil)

	texts := []string{"one", "two", "three", "four", "five"}
	for i, text := range texts {
		speaker := entities.SpeakerUser
		if i%2 == 1 {
			speaker = entities.SpeakerAssistant
		}
		require.True(t, relay.Send(Utterance{Text: text, Speaker: speaker, Timestamp: float64(i), RoomID: "room-1"}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, relay.Close(ctx))

	received, _, _ := backend.snapshot()
	require.Len(t, received, len(texts))
	for i, u := range received {
		assert.Equal(t, texts[i], u.Text)
		assert.Equal(t, "room-1", u.RoomID)
	}
	assert.Equal(t, entities.SpeakerAssistant, received[1].Speaker)

	assert.False(t, relay.Send(Utterance{Text: "late", Speaker: entities.SpeakerUser, RoomID: "room-1"}))
}

func TestRelay_SkipsEmptyText(t *testing.T) {
	backend := &recordingBackend{}
	srv := httptest.NewServer(backend.handler(alwaysOK))
	defer srv.Close()

	relay := NewRelay(testRelayConfig(srv.URL), srv.Client(), nil)
	assert.False(t, relay.Send(Utterance{Text: "   ", Speaker: entities.SpeakerUser, RoomID: "r"}))
	require.NoError(t, relay.Close(context.Background()))
	received, _, _ := backend.snapshot()
	assert.Empty(t, received)
}

func TestRelay_RetriesServerErrors(t *testing.T) {
	backend := &recordingBackend{}
	srv := httptest.NewServer(backend.handler(func(n int) int {
		if n < 3 {
			return http.StatusServiceUnavailable
		}
		return http.StatusOK
	}))
	defer srv.Close()

	relay := NewRelay(testRelayConfig(srv.URL), srv.Client(), nil)
	require.True(t, relay.Send(Utterance{Text: "hello", Speaker: entities.SpeakerUser, RoomID: "r"}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, relay.Close(ctx))
	received, _, _ := backend.snapshot()
	require.Len(t, received, 1)
}

func TestRelay_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	relay := NewRelay(testRelayConfig(srv.URL), srv.Client(), nil)
	require.True(t, relay.Send(Utterance{Text: "hello", Speaker: entities.SpeakerUser, RoomID: "r"}))
	require.NoError(t, relay.Close(context.Background()))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRelay_SignsBodies(t *testing.T) {
	backend := &recordingBackend{}
	srv := httptest.NewServer(backend.handler(alwaysOK))
	defer srv.Close()

	cfg := testRelayConfig(srv.URL)
	cfg.Secret = "shared"
	relay := NewRelay(cfg, srv.Client(), nil)
	require.True(t, relay.Send(Utterance{Text: "signed", Speaker: entities.SpeakerAssistant, RoomID: "r"}))
	require.NoError(t, relay.Close(context.Background()))

	_, headers, bodies := backend.snapshot()
	require.Len(t, headers, 1)
	sig := headers[0].Get(ai.SignatureHeader)
	assert.True(t, ai.VerifyHMAC("shared", bodies[0], sig))
}

func TestRelay_DropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	cfg := testRelayConfig(srv.URL)
	cfg.QueueSize = 1
	relay := NewRelay(cfg, srv.Client(), nil)

	accepted := 0
	for i := 0; i < 10; i++ {
		if relay.Send(Utterance{Text: "msg", Speaker: entities.SpeakerUser, RoomID: "r"}) {
			accepted++
		}
	}
	// one in flight plus one queued at most
	assert.LessOrEqual(t, accepted, 2)
	assert.GreaterOrEqual(t, accepted, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, relay.Close(ctx), context.DeadlineExceeded)
}

func TestRelay_RedeliveryKeepsUtteranceID(t *testing.T) {
	var (
		mu       sync.Mutex
		ids      []string
		attempts []string
	)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var u Utterance
		_ = json.Unmarshal(body, &u)
		mu.Lock()
		ids = append(ids, u.ID)
		attempts = append(attempts, r.Header.Get(AttemptHeader))
		mu.Unlock()

		// the first answer arrives after the client gave up
		if atomic.AddInt32(&calls, 1) == 1 {
			time.Sleep(150 * time.Millisecond)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testRelayConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	relay := NewRelay(cfg, srv.Client(), nil)
	require.True(t, relay.Send(Utterance{Text: "hello", Speaker: entities.SpeakerUser, RoomID: "r"}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, relay.Close(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, []string{"0", "1"}, attempts)
}

func TestRelay_KeepsCallerUtteranceID(t *testing.T) {
	backend := &recordingBackend{}
	srv := httptest.NewServer(backend.handler(alwaysOK))
	defer srv.Close()

	relay := NewRelay(testRelayConfig(srv.URL), srv.Client(), nil)
	require.True(t, relay.Send(Utterance{ID: "fixed-id", Text: "hi", Speaker: entities.SpeakerUser, RoomID: "r"}))
	require.True(t, relay.Send(Utterance{Text: "there", Speaker: entities.SpeakerUser, RoomID: "r"}))
	require.NoError(t, relay.Close(context.Background()))

	received, _, _ := backend.snapshot()
	require.Len(t, received, 2)
	assert.Equal(t, "fixed-id", received[0].ID)
	assert.NotEmpty(t, received[1].ID)
	assert.NotEqual(t, received[0].ID, received[1].ID)
}
