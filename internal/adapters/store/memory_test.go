package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solivane/vcmeet/internal/domain"
)

func TestMemoryRoomLifecycle(t *testing.T) {
	s := NewMemory()

	room, err := s.GetRoom("100")
	assert.NoError(t, err)
	assert.Nil(t, room, "missing room reads as nil, not error")

	assert.NoError(t, s.SetRoom(domain.NewRoom("app", "100", "daily", "h", "H", 10)))
	exists, err := s.RoomExists("100")
	assert.NoError(t, err)
	assert.True(t, exists)

	room, err = s.GetRoom("100")
	assert.NoError(t, err)
	assert.Equal(t, "daily", room.RoomName)

	assert.NoError(t, s.DeleteRoom("100"))
	exists, _ = s.RoomExists("100")
	assert.False(t, exists)
}

func TestMemoryReturnsCopies(t *testing.T) {
	s := NewMemory()
	assert.NoError(t, s.SetRoom(domain.NewRoom("app", "100", "", "h", "H", 10)))

	room, _ := s.GetRoom("100")
	room.HostUserID = "mutated"

	fresh, _ := s.GetRoom("100")
	assert.Equal(t, "h", fresh.HostUserID, "callers must not mutate stored state in place")
}

func TestMemoryMembers(t *testing.T) {
	s := NewMemory()
	assert.NoError(t, s.SetMember("100", &domain.Member{UserID: "b", JoinTime: 20}))
	assert.NoError(t, s.SetMember("100", &domain.Member{UserID: "a", JoinTime: 10}))

	m, err := s.GetMember("100", "a")
	assert.NoError(t, err)
	assert.Equal(t, int64(10), m.JoinTime)

	missing, err := s.GetMember("100", "ghost")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	members, err := s.ListMembers("100")
	assert.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, "a", members[0].UserID, "list comes back in insertion order")

	count, _ := s.MemberCount("100")
	assert.Equal(t, 2, count)

	assert.NoError(t, s.RemoveMember("100", "a"))
	count, _ = s.MemberCount("100")
	assert.Equal(t, 1, count)
}

func TestMemorySetMembersBatch(t *testing.T) {
	s := NewMemory()
	batch := []*domain.Member{
		{UserID: "a", Mic: domain.DeviceClosed},
		{UserID: "b", Mic: domain.DeviceClosed},
	}
	assert.NoError(t, s.SetMembers("100", batch))
	m, _ := s.GetMember("100", "b")
	assert.Equal(t, domain.DeviceClosed, m.Mic)
}

func TestMemoryListRoomIDs(t *testing.T) {
	s := NewMemory()
	assert.NoError(t, s.SetRoom(domain.NewRoom("app", "100", "", "h", "H", 10)))
	assert.NoError(t, s.SetRoom(domain.NewRoom("app", "200", "", "h", "H", 10)))

	ids, err := s.ListRoomIDs()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"100", "200"}, ids)
}

func TestMemoryDeleteRoomDropsMembers(t *testing.T) {
	s := NewMemory()
	assert.NoError(t, s.SetRoom(domain.NewRoom("app", "100", "", "h", "H", 10)))
	assert.NoError(t, s.SetMember("100", &domain.Member{UserID: "a"}))
	assert.NoError(t, s.DeleteRoom("100"))

	count, _ := s.MemberCount("100")
	assert.Zero(t, count)
}
