package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/pkg/config"
)

// RedisRoomState shares room state across API replicas through Redis
type RedisRoomState struct {
	rdb    *redis.Client
	ttl    time.Duration
	window int64
}

// NewRedisClient creates and verifies a Redis connection
func NewRedisClient(ctx context.Context, cfg config.RoomStateConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Verify connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// NewRedisRoomState creates a room state on top of an open Redis client
func NewRedisRoomState(rdb *redis.Client, ttl time.Duration, window int) *RedisRoomState {
	return &RedisRoomState{rdb: rdb, ttl: ttl, window: int64(window)}
}

func latestKey(roomID string) string { return "room:" + roomID + ":latest" }
func countKey(roomID string) string  { return "room:" + roomID + ":count" }
func recentKey(roomID string) string { return "room:" + roomID + ":recent" }
func seenKey(roomID string) string   { return "room:" + roomID + ":seen" }

// appendScript counts a record once per id and keeps the recent window.
// KEYS: count, recent, latest, seen. ARGV: record json, record id, window, ttl ms.
var appendScript = redis.NewScript(`
if ARGV[2] ~= '' and redis.call('SADD', KEYS[4], ARGV[2]) == 0 then
	return {tonumber(redis.call('GET', KEYS[1]) or '0'), 0}
end
local n = redis.call('INCR', KEYS[1])
local window = tonumber(ARGV[3])
if window > 0 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
	redis.call('LTRIM', KEYS[2], -window, -1)
end
local ttl = tonumber(ARGV[4])
if ttl > 0 then
	for i = 1, 4 do
		redis.call('PEXPIRE', KEYS[i], ttl)
	end
end
return {n, 1}
`)

// Latest returns the cached analysis for the room
func (s *RedisRoomState) Latest(ctx context.Context, roomID string) (*entities.LatestAnalysis, bool, error) {
	raw, err := s.rdb.Get(ctx, latestKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read latest analysis: %w", err)
	}

	var latest entities.LatestAnalysis
	if err := json.Unmarshal(raw, &latest); err != nil {
		return nil, false, fmt.Errorf("failed to decode latest analysis: %w", err)
	}
	return &latest, true, nil
}

// SetLatest overwrites the cached analysis for the room
func (s *RedisRoomState) SetLatest(ctx context.Context, roomID string, latest entities.LatestAnalysis) error {
	raw, err := json.Marshal(latest)
	if err != nil {
		return fmt.Errorf("failed to encode latest analysis: %w", err)
	}
	if err := s.rdb.Set(ctx, latestKey(roomID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write latest analysis: %w", err)
	}
	return nil
}

// Append increments the room count and pushes the record onto the recent window.
// The script runs atomically, so a record id already seen in the room is not counted twice.
func (s *RedisRoomState) Append(ctx context.Context, record *entities.TranscriptRecord) (int, bool, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return 0, false, fmt.Errorf("failed to encode transcript record: %w", err)
	}

	keys := []string{
		countKey(record.RoomID),
		recentKey(record.RoomID),
		latestKey(record.RoomID),
		seenKey(record.RoomID),
	}
	res, err := appendScript.Run(ctx, s.rdb, keys, raw, record.ID, s.window, s.ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("failed to append transcript record: %w", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("unexpected append reply %v", res)
	}
	return int(res[0]), res[1] == 1, nil
}

// Restore sets the room count unless the room already has one
func (s *RedisRoomState) Restore(ctx context.Context, roomID string, count int) error {
	if err := s.rdb.SetNX(ctx, countKey(roomID), count, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to restore room count: %w", err)
	}
	return nil
}

// Count returns the number of records appended for the room
func (s *RedisRoomState) Count(ctx context.Context, roomID string) (int, error) {
	n, err := s.rdb.Get(ctx, countKey(roomID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read room count: %w", err)
	}
	return n, nil
}

// Recent returns the buffered records for the room, oldest first
func (s *RedisRoomState) Recent(ctx context.Context, roomID string) ([]entities.TranscriptRecord, error) {
	items, err := s.rdb.LRange(ctx, recentKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent records: %w", err)
	}

	records := make([]entities.TranscriptRecord, 0, len(items))
	for _, item := range items {
		var record entities.TranscriptRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Close closes the Redis connection
func (s *RedisRoomState) Close() error {
	return s.rdb.Close()
}
