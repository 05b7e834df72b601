package room

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the single source of truth for rooms and their queues. Every
// method is atomic: concurrent callers never observe a half-applied mutation.
// Implemented by MemoryStore and PostgresStore; handlers depend only on this
// interface and the composition root picks the backend.
type Store interface {
	ListRooms(ctx context.Context, callerID string) ([]RoomSummary, error)
	// CreateRoom returns the full room including the join code, exactly once.
	CreateRoom(ctx context.Context, callerID, name string, isPublic bool, theme *Theme) (*Room, error)
	GetRoom(ctx context.Context, roomID, callerID string) (*RoomView, error)
	JoinRoom(ctx context.Context, roomID, callerID, code string) (*RoomView, error)
	JoinByCode(ctx context.Context, code, callerID string) (*RoomView, error)
	LeaveRoom(ctx context.Context, roomID, callerID string) error
	Enqueue(ctx context.Context, roomID, callerID string, ref TrackRef) ([]QueueItem, error)
	Vote(ctx context.Context, roomID, callerID, key, direction string) ([]QueueItem, error)
}

// newJoinCode derives an 8-char upper-case code from a fresh UUID.
func newJoinCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// MemoryStore keeps all rooms in process memory behind one mutex. Each
// operation is a single critical section with no blocking call inside, which
// is what makes the remove-then-add vote sequence and the check-then-append
// membership updates safe.
type MemoryStore struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	order    []string // creation order, for stable listings
	resolver TrackResolver
}

func NewMemoryStore(resolver TrackResolver) *MemoryStore {
	return &MemoryStore{
		rooms:    make(map[string]*Room),
		resolver: resolver,
	}
}

func (s *MemoryStore) ListRooms(_ context.Context, callerID string) ([]RoomSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RoomSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rooms[id].summary(callerID))
	}
	return out, nil
}

func (s *MemoryStore) CreateRoom(_ context.Context, callerID, name string, isPublic bool, theme *Theme) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = "New Room"
	}
	th := defaultTheme()
	if theme != nil {
		th = *theme
	}

	r := &Room{
		ID:        uuid.NewString(),
		Name:      name,
		Members:   []string{},
		Queue:     []QueueEntry{},
		Theme:     th,
		IsPublic:  isPublic,
		CreatedAt: time.Now().UTC(),
	}
	if !isPublic {
		r.JoinCode = s.uniqueJoinCodeLocked()
	}
	if callerID != "" {
		r.addMember(callerID)
	}

	s.rooms[r.ID] = r
	s.order = append(s.order, r.ID)

	cp := *r
	cp.Members = append([]string(nil), r.Members...)
	return &cp, nil
}

// uniqueJoinCodeLocked regenerates on collision with any currently-private
// room's code. Caller holds s.mu.
func (s *MemoryStore) uniqueJoinCodeLocked() string {
	for {
		code := newJoinCode()
		taken := false
		for _, r := range s.rooms {
			if r.JoinCode != "" && r.JoinCode == code {
				taken = true
				break
			}
		}
		if !taken {
			return code
		}
	}
}

func (s *MemoryStore) GetRoom(_ context.Context, roomID, callerID string) (*RoomView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.view(callerID, s.resolver), nil
}

func (s *MemoryStore) JoinRoom(_ context.Context, roomID, callerID, code string) (*RoomView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if !r.canJoin(code) {
		return nil, ErrBadCode
	}
	r.addMember(callerID)
	return r.view(callerID, s.resolver), nil
}

func (s *MemoryStore) JoinByCode(_ context.Context, code, callerID string) (*RoomView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code == "" {
		return nil, ErrRoomNotFound
	}
	for _, id := range s.order {
		r := s.rooms[id]
		if !r.IsPublic && r.JoinCode == code {
			r.addMember(callerID)
			return r.view(callerID, s.resolver), nil
		}
	}
	return nil, ErrRoomNotFound
}

func (s *MemoryStore) LeaveRoom(_ context.Context, roomID, callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	// No-op when absent; the room persists even when the last member leaves.
	r.removeMember(callerID)
	return nil
}

func (s *MemoryStore) Enqueue(_ context.Context, roomID, callerID string, ref TrackRef) ([]QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if !r.isMember(callerID) {
		return nil, ErrNotMember
	}
	entry, err := buildEntry(ref, s.resolver)
	if err != nil {
		return nil, err
	}
	r.enqueue(entry, callerID)
	return serializeQueue(r.Queue, s.resolver), nil
}

func (s *MemoryStore) Vote(_ context.Context, roomID, callerID, key, direction string) ([]QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if !r.isMember(callerID) {
		return nil, ErrNotMember
	}
	if direction != VoteUp && direction != VoteDown {
		return nil, ErrBadVote
	}
	if err := r.setVote(key, callerID, direction); err != nil {
		return nil, err
	}
	return serializeQueue(r.Queue, s.resolver), nil
}
