package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

func TestJobBeginCarriesMetadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := JobBegin(context.Background(), id, "user", "room-1", time.Minute)
	defer cancel()

	ctx = SetRetryAttempt(ctx, 2)
	meta := GetJobMetadata(ctx)

	assert.Equal(t, id, meta.JobID)
	assert.Equal(t, "user", meta.JobType)
	assert.Equal(t, "room-1", meta.RoomID)
	assert.Equal(t, 2, meta.RetryAttempt)
	assert.False(t, meta.StartTime.IsZero())

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"server error", statusErr(http.StatusBadGateway), true},
		{"rate limited", statusErr(http.StatusTooManyRequests), true},
		{"bad request", fmt.Errorf("relay: %w", statusErr(http.StatusBadRequest)), false},
		{"unauthorized", statusErr(http.StatusUnauthorized), false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"), true},
		{"other", errors.New("json: unsupported value"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}
