package livekit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

// Client wraps the LiveKit operations a sales call needs
type Client interface {
	CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error)
	GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error)
	ListParticipants(ctx context.Context, roomName string) ([]*ParticipantInfo, error)
	URL() string
}

// CreateRoomOptions holds options for creating a room
type CreateRoomOptions struct {
	MaxParticipants  int32
	EmptyTimeout     int32 // seconds - auto-delete if no one joins
	DepartureTimeout int32 // seconds - auto-delete after last participant leaves
	Metadata         string
}

// TokenOptions holds options for generating access token
type TokenOptions struct {
	ValidFor       time.Duration
	CanPublish     bool
	CanSubscribe   bool
	CanPublishData bool
	RoomJoin       bool
}

// RoomInfo holds room information
type RoomInfo struct {
	Name            string
	SID             string
	CreationTime    time.Time
	MaxParticipants int32
	NumParticipants int32
	Metadata        string
}

// ParticipantInfo holds participant information
type ParticipantInfo struct {
	SID      string
	Identity string
	Name     string
	JoinedAt time.Time
}

// DefaultRoomOptions sizes a room for one caller and the voice agent
func DefaultRoomOptions() *CreateRoomOptions {
	return &CreateRoomOptions{
		MaxParticipants:  2,
		EmptyTimeout:     300, // 5 minutes
		DepartureTimeout: 30,
	}
}

// DefaultTokenOptions grants a caller full audio and data access
func DefaultTokenOptions(validFor time.Duration) *TokenOptions {
	return &TokenOptions{
		ValidFor:       validFor,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
		RoomJoin:       true,
	}
}

// realClient is the real LiveKit client implementation
type realClient struct {
	roomClient *lksdk.RoomServiceClient
	apiKey     string
	apiSecret  string
	url        string
}

// NewClient creates a new LiveKit client
func NewClient(url, apiKey, apiSecret string, useMock bool) Client {
	if useMock {
		return &mockClient{
			url:          url,
			apiKey:       apiKey,
			apiSecret:    apiSecret,
			participants: map[string][]*ParticipantInfo{},
		}
	}

	return &realClient{
		roomClient: lksdk.NewRoomServiceClient(url, apiKey, apiSecret),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		url:        url,
	}
}

// URL returns the LiveKit server URL
func (c *realClient) URL() string {
	return c.url
}

// CreateRoom creates a room in LiveKit; an existing room with the same name is returned as is
func (c *realClient) CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error) {
	if options == nil {
		options = DefaultRoomOptions()
	}

	req := &livekit.CreateRoomRequest{
		Name:             name,
		MaxParticipants:  uint32(options.MaxParticipants),
		EmptyTimeout:     uint32(options.EmptyTimeout),
		DepartureTimeout: uint32(options.DepartureTimeout),
		Metadata:         options.Metadata,
	}

	room, err := c.roomClient.CreateRoom(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return &RoomInfo{
		Name:            room.Name,
		SID:             room.Sid,
		CreationTime:    time.Unix(room.CreationTime, 0),
		MaxParticipants: int32(room.MaxParticipants),
		NumParticipants: int32(room.NumParticipants),
		Metadata:        room.Metadata,
	}, nil
}

// GenerateToken generates an access token for joining a room
func (c *realClient) GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error) {
	return signToken(c.apiKey, c.apiSecret, identity, roomName, participantName, options)
}

// ListParticipants lists all participants in a room
func (c *realClient) ListParticipants(ctx context.Context, roomName string) ([]*ParticipantInfo, error) {
	resp, err := c.roomClient.ListParticipants(ctx, &livekit.ListParticipantsRequest{
		Room: roomName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*ParticipantInfo, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		participants = append(participants, &ParticipantInfo{
			SID:      p.Sid,
			Identity: p.Identity,
			Name:     p.Name,
			JoinedAt: time.Unix(p.JoinedAt, 0),
		})
	}

	return participants, nil
}

func signToken(apiKey, apiSecret, identity, roomName, participantName string, options *TokenOptions) (string, error) {
	if options == nil {
		options = DefaultTokenOptions(15 * time.Minute)
	}

	at := auth.NewAccessToken(apiKey, apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:       options.RoomJoin,
		Room:           roomName,
		CanPublish:     &options.CanPublish,
		CanSubscribe:   &options.CanSubscribe,
		CanPublishData: &options.CanPublishData,
	}

	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(participantName).
		SetValidFor(options.ValidFor)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}

// mockClient is a mock implementation for local development and tests.
// Every token it signs counts as a participant that joined the room.
type mockClient struct {
	url       string
	apiKey    string
	apiSecret string

	mu           sync.Mutex
	participants map[string][]*ParticipantInfo
}

// URL returns the configured server URL
func (m *mockClient) URL() string {
	return m.url
}

// CreateRoom (mock) simulates room creation
func (m *mockClient) CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error) {
	if options == nil {
		options = DefaultRoomOptions()
	}

	return &RoomInfo{
		Name:            name,
		SID:             "mock-sid-" + uuid.New().String(),
		CreationTime:    time.Now(),
		MaxParticipants: options.MaxParticipants,
		NumParticipants: 0,
		Metadata:        options.Metadata,
	}, nil
}

// GenerateToken (mock) signs a real token with the configured credentials
func (m *mockClient) GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error) {
	// Use real auth for mock too (for consistency)
	token, err := signToken(m.apiKey, m.apiSecret, identity, roomName, participantName, options)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.participants[roomName] = append(m.participants[roomName], &ParticipantInfo{
		SID:      "mock-pa-" + uuid.New().String(),
		Identity: identity,
		Name:     participantName,
		JoinedAt: time.Now(),
	})
	m.mu.Unlock()
	return token, nil
}

// ListParticipants (mock) returns everyone a token was signed for
func (m *mockClient) ListParticipants(ctx context.Context, roomName string) ([]*ParticipantInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ParticipantInfo{}, m.participants[roomName]...), nil
}
