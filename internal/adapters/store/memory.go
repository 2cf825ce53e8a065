package store

import (
	"sync"

	"github.com/solivane/vcmeet/internal/core"
	"github.com/solivane/vcmeet/internal/domain"
)

// memoryStore is the in-process core.Store used by tests and local runs.
// Records are deep-copied on the way in and out so callers observe the same
// read-then-write semantics as the Redis store.
type memoryStore struct {
	mu      sync.RWMutex
	rooms   map[string]domain.Room
	members map[string]map[string]domain.Member
}

func NewMemory() core.Store {
	return &memoryStore{
		rooms:   make(map[string]domain.Room),
		members: make(map[string]map[string]domain.Member),
	}
}

func (s *memoryStore) RoomExists(roomID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok, nil
}

func (s *memoryStore) GetRoom(roomID string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, nil
	}
	cp := room
	return &cp, nil
}

func (s *memoryStore) SetRoom(room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.RoomID] = *room
	if _, ok := s.members[room.RoomID]; !ok {
		s.members[room.RoomID] = make(map[string]domain.Member)
	}
	return nil
}

func (s *memoryStore) DeleteRoom(roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	delete(s.members, roomID)
	return nil
}

func (s *memoryStore) GetMember(roomID, userID string) (*domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[roomID][userID]
	if !ok {
		return nil, nil
	}
	cp := m
	return &cp, nil
}

func (s *memoryStore) SetMember(roomID string, m *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[roomID]; !ok {
		s.members[roomID] = make(map[string]domain.Member)
	}
	s.members[roomID][m.UserID] = *m
	return nil
}

func (s *memoryStore) SetMembers(roomID string, members []*domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[roomID]; !ok {
		s.members[roomID] = make(map[string]domain.Member)
	}
	for _, m := range members {
		s.members[roomID][m.UserID] = *m
	}
	return nil
}

func (s *memoryStore) RemoveMember(roomID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[roomID], userID)
	return nil
}

func (s *memoryStore) ListMembers(roomID string) ([]*domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Member, 0, len(s.members[roomID]))
	for _, m := range s.members[roomID] {
		cp := m
		out = append(out, &cp)
	}
	domain.SortMembers(out)
	return out, nil
}

func (s *memoryStore) MemberCount(roomID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members[roomID]), nil
}

func (s *memoryStore) ListRoomIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids, nil
}
