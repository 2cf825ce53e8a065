// Package core holds the contracts between the coordinator and its
// collaborators. Implementations live under internal/adapters.
package core

import "github.com/solivane/vcmeet/internal/domain"

// Store is the durable room/member persistence contract. Every call is a
// single remote round trip; Set* overwrite unconditionally (last writer
// wins). SetMembers is an efficiency grouping, not a transaction.
type Store interface {
	RoomExists(roomID string) (bool, error)
	// GetRoom returns (nil, nil) when the room is absent.
	GetRoom(roomID string) (*domain.Room, error)
	SetRoom(room *domain.Room) error
	DeleteRoom(roomID string) error

	// GetMember returns (nil, nil) when the member is absent.
	GetMember(roomID, userID string) (*domain.Member, error)
	SetMember(roomID string, m *domain.Member) error
	SetMembers(roomID string, members []*domain.Member) error
	RemoveMember(roomID, userID string) error
	// ListMembers returns members in insertion order (see domain.SortMembers).
	ListMembers(roomID string) ([]*domain.Member, error)
	MemberCount(roomID string) (int, error)

	ListRoomIDs() ([]string, error)
}
