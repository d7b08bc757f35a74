package voice

import (
	"context"
	stdErrors "errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/pkg/ai"
)

// Greeting is spoken once when the call connects
const Greeting = "Hello! This is Alex calling from TechPro Solutions. I hope I'm not catching you at a bad time. " +
	"I see you recently showed interest in our laptop collection. I'd love to help you find the perfect device for your needs. " +
	"Do you have a few minutes to chat?"

// maxHistory caps the turns sent to the replier
const maxHistory = 40

// Session runs the turn-taking loop of one call
type Session struct {
	roomID      string
	listener    Listener
	replier     Replier
	speaker     Speaker
	transcripts Transcripts
	greeting    string
	logger      *zap.Logger
	now         func() time.Time

	history []ai.Message
}

// NewSession builds a session for roomID
func NewSession(roomID string, listener Listener, replier Replier, speaker Speaker, transcripts Transcripts, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		roomID:      roomID,
		listener:    listener,
		replier:     replier,
		speaker:     speaker,
		transcripts: transcripts,
		greeting:    Greeting,
		logger:      logger.With(zap.String("room_id", roomID)),
		now:         time.Now,
	}
}

// Run speaks the greeting, then listens and replies until the listener
// reports io.EOF or ctx is cancelled. The greeting is never relayed.
func (s *Session) Run(ctx context.Context) error {
	if err := s.speaker.Say(ctx, s.greeting); err != nil {
		s.logger.Warn("session.greeting_failed", zap.Error(err))
	}

	for {
		text, err := s.listener.Next(ctx)
		if err != nil {
			if stdErrors.Is(err, io.EOF) {
				s.logger.Info("session.ended")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		s.logger.Info("session.user_turn", zap.String("text", text))

		// the customer's words reach the backend before the reply is generated
		s.relay(text, entities.SpeakerUser)
		s.remember("user", text)

		reply, err := s.replier.Reply(ctx, s.history)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("session.reply_failed", zap.Error(err))
			continue
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			continue
		}

		if err := s.speaker.Say(ctx, reply); err != nil {
			s.logger.Warn("session.say_failed", zap.Error(err))
		}
		s.relay(reply, entities.SpeakerAssistant)
		s.remember("assistant", reply)
	}
}

func (s *Session) relay(text string, speaker entities.Speaker) {
	ts := float64(s.now().UnixNano()) / float64(time.Second)
	s.transcripts.Send(Utterance{Text: text, Speaker: speaker, Timestamp: ts, RoomID: s.roomID})
}

func (s *Session) remember(role, text string) {
	s.history = append(s.history, ai.Message{Role: role, Content: text})
	if len(s.history) > maxHistory {
		// keep the window starting on a user turn
		trim := len(s.history) - maxHistory
		for trim < len(s.history) && s.history[trim].Role != "user" {
			trim++
		}
		s.history = append([]ai.Message(nil), s.history[trim:]...)
	}
}
