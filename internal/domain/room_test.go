package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFor(t *testing.T) {
	r := NewRoom("app", "100", "", "host1", "Host", 1000)
	assert.Equal(t, RoleHost, r.RoleFor("host1"))
	assert.Equal(t, RoleVisitor, r.RoleFor("someone"))

	fresh := &Room{}
	assert.Equal(t, RoleHost, fresh.RoleFor("first"), "first joiner of an unbooked room takes host")
}

func TestNewRoomDefaults(t *testing.T) {
	r := NewRoom("app", "100", "", "host1", "Host", 1000)
	assert.Equal(t, "100", r.RoomName, "room name falls back to room id")
	assert.Equal(t, AllowMic, r.RoomMicStatus)
	assert.Equal(t, int64(1000), r.StartTime)
	assert.Equal(t, 1800, r.ExperienceTimeLimit)
}

func TestMemberJoinTimeSetOnce(t *testing.T) {
	m := &Member{UserID: "u1"}
	m.JoinRoom("100", RoleHost, 42)
	assert.Equal(t, int64(42), m.JoinTime)

	m.JoinRoom("100", RoleHost, 99)
	assert.Equal(t, int64(42), m.JoinTime, "re-join must not reset the insertion stamp")
}

func TestSortMembersInsertionOrder(t *testing.T) {
	members := []*Member{
		{UserID: "c", JoinTime: 30},
		{UserID: "a", JoinTime: 10},
		{UserID: "b", JoinTime: 20},
	}
	SortMembers(members)
	assert.Equal(t, "a", members[0].UserID)
	assert.Equal(t, "b", members[1].UserID)
	assert.Equal(t, "c", members[2].UserID)
}

func TestSortMembersTieBreakByUserID(t *testing.T) {
	members := []*Member{
		{UserID: "z", JoinTime: 10},
		{UserID: "a", JoinTime: 10},
	}
	SortMembers(members)
	assert.Equal(t, "a", members[0].UserID)
}

func TestNextHost(t *testing.T) {
	assert.Nil(t, NextHost(nil))
	survivors := []*Member{
		{UserID: "late", JoinTime: 50},
		{UserID: "early", JoinTime: 5},
	}
	next := NextHost(survivors)
	assert.Equal(t, "early", next.UserID)
}

func TestShareMirror(t *testing.T) {
	r := NewRoom("app", "100", "", "host1", "Host", 1000)
	sharer := &Member{UserID: "u1", UserName: "One", ShareType: ShareBoard}
	r.MirrorShare(sharer)
	assert.Equal(t, Sharing, r.ShareStatus)
	assert.Equal(t, ShareBoard, r.ShareType)
	assert.Equal(t, "u1", r.ShareUserID)

	// A finish from someone who is not the recorded sharer is a no-op.
	r.ClearShare("u2")
	assert.Equal(t, Sharing, r.ShareStatus)
	assert.Equal(t, "u1", r.ShareUserID)

	r.ClearShare("u1")
	assert.Equal(t, NotSharing, r.ShareStatus)
	assert.Equal(t, "", r.ShareUserID)
	assert.Equal(t, ShareScreen, r.ShareType)
}

func TestIsHumanUserID(t *testing.T) {
	assert.True(t, IsHumanUserID("0123456789abcdef0123456789abcdef"))
	assert.False(t, IsHumanUserID("screen_device_1"))
	assert.False(t, IsHumanUserID(""))
}
