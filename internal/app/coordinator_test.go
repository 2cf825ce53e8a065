package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solivane/vcmeet/internal/adapters/store"
	"github.com/solivane/vcmeet/internal/core"
	"github.com/solivane/vcmeet/internal/domain"
)

// newTestCoordinator runs against the in-memory store with a deterministic
// clock so join order never depends on wall time.
func newTestCoordinator() *Coordinator {
	c := NewCoordinator(store.NewMemory())
	var tick int64
	c.now = func() int64 {
		tick += 1000
		return tick
	}
	return c
}

func join(t *testing.T, c *Coordinator, roomID, userID string) *domain.Member {
	t.Helper()
	m := &domain.Member{UserID: userID, UserName: "name-" + userID, Camera: domain.DeviceOpen, Mic: domain.DeviceOpen}
	_, _, err := c.JoinRoom(m, "app", roomID)
	assert.NoError(t, err)
	return m
}

func TestFirstJoinerBecomesHost(t *testing.T) {
	c := newTestCoordinator()
	u1 := join(t, c, "100", "u1")
	assert.Equal(t, domain.RoleHost, u1.Role)

	u2 := join(t, c, "100", "u2")
	assert.Equal(t, domain.RoleVisitor, u2.Role)

	room, _, members, err := c.RoomState("100", "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u1", room.HostUserID)

	hosts := 0
	for _, m := range members {
		if m.Role == domain.RoleHost {
			hosts++
		}
	}
	assert.Equal(t, 1, hosts, "exactly one host at any time")
}

func TestBookedHostKeepsRole(t *testing.T) {
	c := newTestCoordinator()
	_, err := c.CreateRoom("app", "100", "boss", "Boss", "standup")
	assert.NoError(t, err)

	visitor := join(t, c, "100", "v1")
	assert.Equal(t, domain.RoleVisitor, visitor.Role, "pre-registered host outranks first joiner")

	boss := join(t, c, "100", "boss")
	assert.Equal(t, domain.RoleHost, boss.Role)
}

func TestJoinIdempotent(t *testing.T) {
	c := newTestCoordinator()
	first := join(t, c, "100", "u1")
	stamp := first.JoinTime

	again := &domain.Member{UserID: "u1", UserName: "renamed", Camera: domain.DeviceClosed}
	_, members, err := c.JoinRoom(again, "app", "100")
	assert.NoError(t, err)
	assert.Len(t, members, 1, "re-join must not duplicate the member")
	assert.Equal(t, stamp, again.JoinTime, "re-join keeps the original join time")
	assert.Equal(t, domain.RoleHost, again.Role, "re-join keeps the role")
	assert.Equal(t, "renamed", again.UserName)
}

func TestCreateRoomConflict(t *testing.T) {
	c := newTestCoordinator()
	_, err := c.CreateRoom("app", "100", "u1", "One", "")
	assert.NoError(t, err)
	_, err = c.CreateRoom("app", "100", "u2", "Two", "")
	assert.ErrorIs(t, err, core.ErrRoomExists)
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "u1")

	room, survivors, err := c.LeaveRoom("u1", "100")
	assert.NoError(t, err)
	assert.Nil(t, room)
	assert.Nil(t, survivors)

	exists, err := c.CheckRoomExists("100")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestHostSuccessionByJoinOrder(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")
	join(t, c, "100", "c")

	room, survivors, err := c.LeaveRoom("a", "100")
	assert.NoError(t, err)
	assert.Equal(t, "b", room.HostUserID, "earliest surviving member inherits host")

	var b *domain.Member
	for _, m := range survivors {
		if m.UserID == "b" {
			b = m
		}
	}
	assert.NotNil(t, b)
	assert.Equal(t, domain.RoleHost, b.Role)
}

func TestVisitorLeaveKeepsHost(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")

	room, survivors, err := c.LeaveRoom("b", "100")
	assert.NoError(t, err)
	assert.Equal(t, "a", room.HostUserID)
	assert.Len(t, survivors, 1)
}

func TestFinishRoomHostOnly(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")

	err := c.FinishRoom("b", "100")
	assert.ErrorIs(t, err, core.ErrPermissionDenied)

	assert.NoError(t, c.FinishRoom("a", "100"))
	exists, _ := c.CheckRoomExists("100")
	assert.False(t, exists)
}

func TestCancelMeeting(t *testing.T) {
	c := newTestCoordinator()
	_, err := c.CreateRoom("app", "100", "boss", "Boss", "")
	assert.NoError(t, err)

	assert.ErrorIs(t, c.CancelMeeting("100", "other"), core.ErrPermissionDenied)

	join(t, c, "100", "v1")
	assert.ErrorIs(t, c.CancelMeeting("100", "boss"), core.ErrRoomOccupied)

	_, _, err = c.LeaveRoom("v1", "100")
	assert.NoError(t, err)
	// Last leave deleted the room, so the cancel now misses it.
	assert.ErrorIs(t, c.CancelMeeting("100", "boss"), core.ErrRoomNotFound)
}

func TestOperateSelfDevices(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "u1")

	assert.NoError(t, c.OperateSelfCamera("u1", "100", domain.DeviceClosed))
	assert.NoError(t, c.OperateSelfMic("u1", "100", domain.DeviceClosed))

	_, m, _, err := c.RoomState("100", "u1")
	assert.NoError(t, err)
	assert.Equal(t, domain.DeviceClosed, m.Camera)
	assert.Equal(t, domain.DeviceClosed, m.Mic)

	assert.ErrorIs(t, c.OperateSelfMic("ghost", "100", domain.DeviceOpen), core.ErrMemberNotFound)
	assert.ErrorIs(t, c.OperateSelfMic("u1", "999", domain.DeviceOpen), core.ErrRoomNotFound)
}

func TestOperateOtherMicRequiresHost(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")
	join(t, c, "100", "v")

	_, err := c.OperateOtherMic("b", "100", "v", domain.DeviceClosed)
	assert.ErrorIs(t, err, core.ErrPermissionDenied)

	_, m, _, _ := c.RoomState("100", "v")
	assert.Equal(t, domain.DeviceOpen, m.Mic, "denied operation leaves the target untouched")

	target, err := c.OperateOtherMic("a", "100", "v", domain.DeviceClosed)
	assert.NoError(t, err)
	assert.Equal(t, domain.DeviceClosed, target.Mic)
}

func TestMicApplyChangesNothing(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")

	hostID, err := c.OperateSelfMicApply("b", "100")
	assert.NoError(t, err)
	assert.Equal(t, "a", hostID)

	_, m, _, _ := c.RoomState("100", "b")
	assert.Equal(t, domain.NoPermission, m.MicPermission, "apply alone grants nothing")

	applicant, err := c.OperateSelfMicPermit("a", "100", "b", domain.HasPermission)
	assert.NoError(t, err)
	assert.Equal(t, domain.HasPermission, applicant.MicPermission)
}

func TestOperateAllMic(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")
	join(t, c, "100", "v")

	changed, err := c.OperateAllMic("a", "100", domain.NoPermission, domain.DeviceClosed)
	assert.NoError(t, err)
	assert.Len(t, changed, 2, "acting host is skipped")

	room, host, members, err := c.RoomState("100", "a")
	assert.NoError(t, err)
	assert.Equal(t, domain.AllMuted, room.RoomMicStatus)
	assert.Equal(t, domain.NoPermission, room.SelfMicPermission)
	assert.Equal(t, domain.DeviceOpen, host.Mic, "host mic stays open")
	for _, m := range members {
		if m.UserID == "a" {
			continue
		}
		assert.Equal(t, domain.DeviceClosed, m.Mic)
		assert.Equal(t, domain.NoPermission, m.MicPermission)
	}

	_, err = c.OperateAllMic("b", "100", domain.HasPermission, domain.DeviceOpen)
	assert.ErrorIs(t, err, core.ErrPermissionDenied)
}

func TestShareLastWriterWins(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")

	_, err := c.StartShare("a", "100", domain.ShareScreen)
	assert.NoError(t, err)
	_, err = c.StartShare("b", "100", domain.ShareBoard)
	assert.NoError(t, err)

	room, _, _, _ := c.RoomState("100", "a")
	assert.Equal(t, "b", room.ShareUserID)
	assert.Equal(t, domain.ShareBoard, room.ShareType)

	// The overwritten sharer finishing must not clear b's mirror.
	_, err = c.FinishShare("a", "100")
	assert.NoError(t, err)
	room, _, _, _ = c.RoomState("100", "a")
	assert.Equal(t, domain.Sharing, room.ShareStatus)
	assert.Equal(t, "b", room.ShareUserID)

	_, err = c.FinishShare("b", "100")
	assert.NoError(t, err)
	room, _, _, _ = c.RoomState("100", "a")
	assert.Equal(t, domain.NotSharing, room.ShareStatus)
	assert.Equal(t, "", room.ShareUserID)
}

func TestSharePermissionFlow(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "a")
	join(t, c, "100", "b")

	hostID, err := c.SharePermissionApply("b", "100")
	assert.NoError(t, err)
	assert.Equal(t, "a", hostID)

	_, m, _, _ := c.RoomState("100", "b")
	assert.Equal(t, domain.NoPermission, m.SharePermission)

	applicant, err := c.SharePermissionPermit("a", "100", "b", domain.HasPermission)
	assert.NoError(t, err)
	assert.Equal(t, domain.HasPermission, applicant.SharePermission)

	target, err := c.OperateOtherSharePermission("a", "100", "b", domain.NoPermission)
	assert.NoError(t, err)
	assert.Equal(t, domain.NoPermission, target.SharePermission)
}

func TestCheckUserInRoom(t *testing.T) {
	c := newTestCoordinator()
	p, err := c.CheckUserInRoom("100", "u1")
	assert.NoError(t, err)
	assert.Equal(t, RoomAbsent, p)

	join(t, c, "100", "u1")
	p, _ = c.CheckUserInRoom("100", "u1")
	assert.Equal(t, Present, p)
	p, _ = c.CheckUserInRoom("100", "stranger")
	assert.Equal(t, NotPresent, p)
}

func TestUserMeetings(t *testing.T) {
	c := newTestCoordinator()
	_, err := c.CreateRoom("app", "100", "boss", "Boss", "standup")
	assert.NoError(t, err)
	_, err = c.CreateRoom("app", "200", "other", "Other", "")
	assert.NoError(t, err)
	join(t, c, "100", "v1")

	meetings, err := c.UserMeetings("boss")
	assert.NoError(t, err)
	assert.Len(t, meetings, 1)
	assert.Equal(t, "100", meetings[0].RoomID)
	assert.Equal(t, "standup", meetings[0].RoomName)
	assert.Equal(t, 1, meetings[0].UserCount)

	meetings, err = c.UserMeetings("nobody")
	assert.NoError(t, err)
	assert.Empty(t, meetings)
}

func TestDestroyRoomIdempotent(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "u1")
	assert.NoError(t, c.DestroyRoom("100"))
	assert.NoError(t, c.DestroyRoom("100"), "already-gone room is fine")
}

func TestSetRecordState(t *testing.T) {
	c := newTestCoordinator()
	join(t, c, "100", "u1")

	assert.NoError(t, c.SetRecordState("100", domain.Recording))
	room, _, _, _ := c.RoomState("100", "u1")
	assert.Equal(t, domain.Recording, room.RecordStatus)
	assert.NotZero(t, room.RecordStartTime)

	assert.NoError(t, c.SetRecordState("100", domain.NotRecording))
	room, _, _, _ = c.RoomState("100", "u1")
	assert.Equal(t, domain.NotRecording, room.RecordStatus)
	assert.Zero(t, room.RecordStartTime)
}

func TestUnusedRoomID(t *testing.T) {
	c := newTestCoordinator()
	id, err := c.UnusedRoomID()
	assert.NoError(t, err)
	assert.Len(t, id, 8)
	for _, r := range id {
		assert.True(t, r >= '0' && r <= '9')
	}
}
