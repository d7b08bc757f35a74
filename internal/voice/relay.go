package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/pkg/ai"
	"github.com/johnquangdev/sales-assistant/pkg/jobcontext"
)

// AttemptHeader carries the zero-based delivery attempt of a relayed utterance
const AttemptHeader = "X-Relay-Attempt"

const (
	defaultRelayTimeout    = 10 * time.Second
	defaultRelayMaxElapsed = 30 * time.Second
	defaultRelayQueueSize  = 64
	defaultRetryInterval   = 500 * time.Millisecond
)

// RelayConfig configures transcript delivery to the backend
type RelayConfig struct {
	BackendURL string
	Secret     string
	// Timeout bounds each POST attempt
	Timeout time.Duration
	// MaxElapsed bounds all retries of one utterance
	MaxElapsed    time.Duration
	RetryInterval time.Duration
	QueueSize     int
}

// StatusError is a non-200 answer from the backend
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status
func (e *StatusError) StatusCode() int { return e.Code }

// Relay posts utterances to the backend in the order they were sent.
// A single goroutine drains a bounded queue, so Send never blocks the call.
type Relay struct {
	endpoint   string
	secret     string
	timeout    time.Duration
	maxElapsed time.Duration
	interval   time.Duration
	client     *http.Client
	logger     *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Utterance

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRelay starts the delivery goroutine
func NewRelay(cfg RelayConfig, client *http.Client, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRelayTimeout
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = defaultRelayMaxElapsed
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultRelayQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Relay{
		endpoint:   strings.TrimRight(cfg.BackendURL, "/") + "/process-transcription",
		secret:     cfg.Secret,
		timeout:    cfg.Timeout,
		maxElapsed: cfg.MaxElapsed,
		interval:   cfg.RetryInterval,
		client:     client,
		logger:     logger,
		queue:      make(chan Utterance, cfg.QueueSize),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	go r.run()
	return r
}

// Send enqueues an utterance. It returns false when the text is empty,
// the relay is closed, or the queue is full.
// An utterance without an ID gets one, reused by every retry.
func (r *Relay) Send(u Utterance) bool {
	u.Text = strings.TrimSpace(u.Text)
	if u.Text == "" {
		return false
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warn("relay.closed", zap.String("room_id", u.RoomID), zap.String("speaker", string(u.Speaker)))
		return false
	}

	select {
	case r.queue <- u:
		return true
	default:
		r.logger.Warn("relay.dropped",
			zap.String("room_id", u.RoomID),
			zap.String("speaker", string(u.Speaker)),
			zap.Int("queue_size", cap(r.queue)),
		)
		return false
	}
}

// Close stops intake and waits for queued utterances to be delivered.
// When ctx expires first, in-flight delivery is aborted and ctx.Err() is returned.
func (r *Relay) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-r.done
		return ctx.Err()
	}
}

func (r *Relay) run() {
	defer close(r.done)
	for u := range r.queue {
		if r.ctx.Err() != nil {
			r.logger.Warn("relay.failed", zap.String("room_id", u.RoomID), zap.Error(r.ctx.Err()))
			continue
		}
		r.deliver(u)
	}
}

func (r *Relay) deliver(u Utterance) {
	ctx, cancel := jobcontext.JobBegin(r.ctx, uuid.New(), string(u.Speaker), u.RoomID, r.maxElapsed+r.timeout)
	defer cancel()

	body, err := json.Marshal(u)
	if err != nil {
		r.logger.Error("relay.failed", zap.String("room_id", u.RoomID), zap.Error(err))
		return
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.interval),
		backoff.WithMaxElapsedTime(r.maxElapsed),
	)

	attempt := 0
	lastCtx := ctx
	op := func() error {
		lastCtx = jobcontext.SetRetryAttempt(ctx, attempt)
		attempt++
		err := r.post(lastCtx, body)
		if err != nil && !jobcontext.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		r.logger.Debug("relay.retry",
			zap.String("room_id", u.RoomID),
			zap.String("utterance_id", u.ID),
			zap.Int("attempt", jobcontext.GetRetryAttempt(lastCtx)),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err = backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	meta := jobcontext.GetJobMetadata(lastCtx)
	if err != nil {
		r.logger.Error("relay.failed",
			zap.String("job_id", meta.JobID.String()),
			zap.String("room_id", meta.RoomID),
			zap.String("speaker", meta.JobType),
			zap.String("utterance_id", u.ID),
			zap.Int("attempts", meta.RetryAttempt+1),
			zap.Duration("elapsed", time.Since(meta.StartTime)),
			zap.Error(err),
		)
		return
	}

	r.logger.Info("relay.delivered",
		zap.String("job_id", meta.JobID.String()),
		zap.String("room_id", meta.RoomID),
		zap.String("speaker", meta.JobType),
		zap.String("utterance_id", u.ID),
		zap.Int("attempts", meta.RetryAttempt+1),
	)
}

func (r *Relay) post(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AttemptHeader, strconv.Itoa(jobcontext.GetRetryAttempt(ctx)))
	if r.secret != "" {
		req.Header.Set(ai.SignatureHeader, ai.SignHMAC(r.secret, body))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
