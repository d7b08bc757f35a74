package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

// MemoryRoomState is an in-process room state bounded by room count (LRU)
// and idle time (TTL)
type MemoryRoomState struct {
	mu       sync.Mutex
	rooms    map[string]*list.Element
	order    *list.List // front = most recently used
	maxRooms int
	ttl      time.Duration
	window   int
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// seenWindow bounds how many record ids a room remembers for duplicate detection
const seenWindow = 256

type roomEntry struct {
	roomID    string
	latest    *entities.LatestAnalysis
	count     int
	counted   bool
	recent    []entities.TranscriptRecord
	seen      map[string]struct{}
	seenOrder []string
	touchedAt time.Time
}

// markSeen records the id and reports whether it was new
func (e *roomEntry) markSeen(id string) bool {
	if id == "" {
		return true
	}
	if _, ok := e.seen[id]; ok {
		return false
	}
	if e.seen == nil {
		e.seen = make(map[string]struct{})
	}
	e.seen[id] = struct{}{}
	e.seenOrder = append(e.seenOrder, id)
	if len(e.seenOrder) > seenWindow {
		delete(e.seen, e.seenOrder[0])
		e.seenOrder = e.seenOrder[1:]
	}
	return true
}

// NewMemoryRoomState creates a new in-memory room state
func NewMemoryRoomState(maxRooms int, ttl time.Duration, window int) *MemoryRoomState {
	if maxRooms <= 0 {
		maxRooms = 1
	}
	if window < 0 {
		window = 0
	}
	store := &MemoryRoomState{
		rooms:    make(map[string]*list.Element),
		order:    list.New(),
		maxRooms: maxRooms,
		ttl:      ttl,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	// Start cleanup goroutine to remove idle rooms
	if ttl > 0 {
		go store.cleanupExpired(cleanupInterval(ttl))
	}

	return store
}

// Latest returns the cached analysis for the room
func (s *MemoryRoomState) Latest(_ context.Context, roomID string) (*entities.LatestAnalysis, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.get(roomID)
	if entry == nil || entry.latest == nil {
		return nil, false, nil
	}
	latest := *entry.latest
	latest.KeyPoints = append([]string{}, entry.latest.KeyPoints...)
	return &latest, true, nil
}

// SetLatest overwrites the cached analysis for the room
func (s *MemoryRoomState) SetLatest(_ context.Context, roomID string, latest entities.LatestAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest.KeyPoints = append([]string{}, latest.KeyPoints...)
	s.getOrCreate(roomID).latest = &latest
	return nil
}

// Append adds the record to its room's buffer and returns the room count.
// A record id seen recently in the room leaves the count unchanged.
func (s *MemoryRoomState) Append(_ context.Context, record *entities.TranscriptRecord) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.getOrCreate(record.RoomID)
	if !entry.markSeen(record.ID) {
		return entry.count, false, nil
	}
	entry.count++
	entry.counted = true
	if s.window > 0 {
		entry.recent = append(entry.recent, *record)
		if over := len(entry.recent) - s.window; over > 0 {
			entry.recent = append([]entities.TranscriptRecord(nil), entry.recent[over:]...)
		}
	}
	return entry.count, true, nil
}

// Restore sets the room count unless the room already counts records
func (s *MemoryRoomState) Restore(_ context.Context, roomID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.getOrCreate(roomID)
	if !entry.counted {
		entry.count = count
		entry.counted = true
	}
	return nil
}

// Count returns the number of records appended for the room
func (s *MemoryRoomState) Count(_ context.Context, roomID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry := s.get(roomID); entry != nil {
		return entry.count, nil
	}
	return 0, nil
}

// Recent returns the buffered records for the room, oldest first
func (s *MemoryRoomState) Recent(_ context.Context, roomID string) ([]entities.TranscriptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.get(roomID)
	if entry == nil {
		return []entities.TranscriptRecord{}, nil
	}
	return append([]entities.TranscriptRecord{}, entry.recent...), nil
}

// Len returns the number of rooms currently held
func (s *MemoryRoomState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Close stops the cleanup goroutine
func (s *MemoryRoomState) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// get returns the live entry and marks it used; caller holds mu
func (s *MemoryRoomState) get(roomID string) *roomEntry {
	el, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	entry := el.Value.(*roomEntry)
	now := s.now()
	if s.expired(entry, now) {
		s.remove(el)
		return nil
	}
	entry.touchedAt = now
	s.order.MoveToFront(el)
	return entry
}

// getOrCreate returns the room entry, evicting the least recently used room
// when the bound is reached; caller holds mu
func (s *MemoryRoomState) getOrCreate(roomID string) *roomEntry {
	if entry := s.get(roomID); entry != nil {
		return entry
	}
	for s.order.Len() >= s.maxRooms {
		s.remove(s.order.Back())
	}
	entry := &roomEntry{roomID: roomID, touchedAt: s.now()}
	s.rooms[roomID] = s.order.PushFront(entry)
	return entry
}

func (s *MemoryRoomState) remove(el *list.Element) {
	entry := s.order.Remove(el).(*roomEntry)
	delete(s.rooms, entry.roomID)
}

func (s *MemoryRoomState) expired(entry *roomEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.touchedAt) > s.ttl
}

// cleanupExpired periodically removes idle rooms
func (s *MemoryRoomState) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryRoomState) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// least recently used rooms sit at the back
	for el := s.order.Back(); el != nil; {
		prev := el.Prev()
		if !s.expired(el.Value.(*roomEntry), now) {
			break
		}
		s.remove(el)
		el = prev
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
