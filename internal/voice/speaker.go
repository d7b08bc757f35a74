package voice

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// LogSpeaker prints assistant lines instead of synthesizing audio
type LogSpeaker struct {
	out    io.Writer
	logger *zap.Logger
}

// NewLogSpeaker writes lines to out when it is non-nil
func NewLogSpeaker(out io.Writer, logger *zap.Logger) *LogSpeaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSpeaker{out: out, logger: logger}
}

// Say implements Speaker
func (s *LogSpeaker) Say(_ context.Context, text string) error {
	s.logger.Info("session.assistant_turn", zap.String("text", text))
	if s.out == nil {
		return nil
	}
	_, err := fmt.Fprintf(s.out, "Alex: %s\n", text)
	return err
}
