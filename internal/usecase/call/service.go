package call

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/internal/infrastructure/external/livekit"
)

const roomPrefix = "sales_call_"

// ConnectionInput is what the frontend asks for before joining a call
type ConnectionInput struct {
	RoomName        string
	ParticipantName string
}

// ConnectionDetails lets the frontend join the call room
type ConnectionDetails struct {
	ServerURL        string
	RoomName         string
	ParticipantName  string
	ParticipantToken string
}

// Service issues LiveKit join credentials for sales calls
type Service struct {
	client   livekit.Client
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewService creates a new call service
func NewService(client livekit.Client, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	return &Service{client: client, tokenTTL: tokenTTL, logger: logger}
}

// ConnectionDetails creates the room when needed and signs a caller token.
// The room name doubles as the room_id used by the analysis endpoints.
func (s *Service) ConnectionDetails(ctx context.Context, in ConnectionInput) (*ConnectionDetails, error) {
	roomName := strings.TrimSpace(in.RoomName)
	if roomName == "" {
		roomName = roomPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	participant := strings.TrimSpace(in.ParticipantName)
	if participant == "" {
		participant = "user"
	}

	room, err := s.client.CreateRoom(ctx, roomName, livekit.DefaultRoomOptions())
	if err != nil {
		return nil, errors.ErrLiveKitFailed("create room", err)
	}

	identity := participant + "_" + uuid.NewString()[:8]
	token, err := s.client.GenerateToken(identity, room.Name, participant, livekit.DefaultTokenOptions(s.tokenTTL))
	if err != nil {
		return nil, errors.ErrLiveKitFailed("generate token", err)
	}

	s.logger.Info("call.connection_issued",
		zap.String("room_id", room.Name),
		zap.String("identity", identity),
	)

	return &ConnectionDetails{
		ServerURL:        s.client.URL(),
		RoomName:         room.Name,
		ParticipantName:  participant,
		ParticipantToken: token,
	}, nil
}

// WaitForParticipant polls the room until a participant named name has joined.
// It gives up when timeout elapses or ctx is cancelled; timeout 0 waits on ctx alone.
func (s *Service) WaitForParticipant(ctx context.Context, roomName, name string, interval, timeout time.Duration) (*livekit.ParticipantInfo, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var joined *livekit.ParticipantInfo
	op := func() error {
		participants, err := s.client.ListParticipants(ctx, roomName)
		if err != nil {
			return err
		}
		for _, p := range participants {
			if p.Name == name {
				joined = p
				return nil
			}
		}
		return fmt.Errorf("%s has not joined %s", name, roomName)
	}
	notify := func(err error, next time.Duration) {
		s.logger.Debug("call.waiting_for_participant",
			zap.String("room_id", roomName),
			zap.Duration("next", next),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx), notify); err != nil {
		return nil, errors.ErrLiveKitFailed("wait for participant", err)
	}

	s.logger.Info("call.participant_joined",
		zap.String("room_id", roomName),
		zap.String("identity", joined.Identity),
	)
	return joined, nil
}
