// Package app implements the session coordinator: one operation per
// signaling event, each following fetch -> check -> mutate -> persist.
// There is no cross-request locking; the store's last write wins (accepted
// for device toggles, see DESIGN.md).
package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/core"
	"github.com/solivane/vcmeet/internal/domain"
)

type Coordinator struct {
	store core.Store
	now   func() int64
}

func NewCoordinator(store core.Store) *Coordinator {
	return &Coordinator{
		store: store,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// room loads the room record or fails with ErrRoomNotFound.
func (c *Coordinator) room(roomID string) (*domain.Room, error) {
	room, err := c.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, core.ErrRoomNotFound
	}
	return room, nil
}

// member loads a member record or fails with ErrMemberNotFound.
func (c *Coordinator) member(roomID, userID string) (*domain.Member, error) {
	m, err := c.store.GetMember(roomID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, core.ErrMemberNotFound
	}
	return m, nil
}

// hostMember loads the acting member and fails with ErrPermissionDenied
// unless it holds the HOST role.
func (c *Coordinator) hostMember(roomID, userID string) (*domain.Member, error) {
	m, err := c.member(roomID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role != domain.RoleHost {
		return nil, core.ErrPermissionDenied
	}
	return m, nil
}

// CreateRoom books a room with the host identity pre-registered. The host
// becomes an actual member only on their own join.
func (c *Coordinator) CreateRoom(appID, roomID, hostUserID, hostUserName, roomName string) (*domain.Room, error) {
	exists, err := c.store.RoomExists(roomID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.ErrRoomExists
	}
	room := domain.NewRoom(appID, roomID, roomName, hostUserID, hostUserName, c.now()/1000)
	if err := c.store.SetRoom(room); err != nil {
		return nil, err
	}
	log.Info().Str("module", "app.coordinator").Str("room", roomID).Str("host", hostUserID).Msg("room booked")
	return room, nil
}

// JoinRoom adds user to the room, creating the room on first join. The first
// member of an empty room becomes HOST; re-join by a present user id updates
// the existing entry instead of duplicating it.
func (c *Coordinator) JoinRoom(user *domain.Member, appID, roomID string) (*domain.Room, []*domain.Member, error) {
	room, err := c.store.GetRoom(roomID)
	if err != nil {
		return nil, nil, err
	}
	if room == nil {
		room = domain.NewRoom(appID, roomID, "", user.UserID, user.UserName, c.now()/1000)
		if err := c.store.SetRoom(room); err != nil {
			return nil, nil, err
		}
		log.Info().Str("module", "app.coordinator").Str("room", roomID).Str("host", user.UserID).Msg("room created on join")
	}

	existing, err := c.store.GetMember(roomID, user.UserID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		// Idempotent re-join: refresh volatile fields, keep join_time and role.
		existing.UserName = user.UserName
		existing.DeviceID = user.DeviceID
		existing.Camera = user.Camera
		existing.Mic = user.Mic
		existing.IsSilence = user.IsSilence
		if err := c.store.SetMember(roomID, existing); err != nil {
			return nil, nil, err
		}
		*user = *existing
	} else {
		role := room.RoleFor(user.UserID)
		user.JoinRoom(roomID, role, c.now())
		if role == domain.RoleHost && room.HostUserID != user.UserID {
			room.SetHost(user)
			if err := c.store.SetRoom(room); err != nil {
				return nil, nil, err
			}
		}
		if err := c.store.SetMember(roomID, user); err != nil {
			return nil, nil, err
		}
	}

	members, err := c.store.ListMembers(roomID)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("module", "app.coordinator").Str("room", roomID).Str("user", user.UserID).Int("count", len(members)).Msg("member joined")
	return room, members, nil
}

// LeaveRoom removes the member. A departing host hands the role to the first
// surviving member by insertion order; the last member to leave deletes the
// room. The returned room is nil when the room was deleted.
func (c *Coordinator) LeaveRoom(userID, roomID string) (*domain.Room, []*domain.Member, error) {
	room, err := c.room(roomID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := c.member(roomID, userID); err != nil {
		return nil, nil, err
	}
	if err := c.store.RemoveMember(roomID, userID); err != nil {
		return nil, nil, err
	}

	survivors, err := c.store.ListMembers(roomID)
	if err != nil {
		return nil, nil, err
	}
	if len(survivors) == 0 {
		if err := c.store.DeleteRoom(roomID); err != nil {
			return nil, nil, err
		}
		log.Info().Str("module", "app.coordinator").Str("room", roomID).Msg("last member left, room deleted")
		return nil, nil, nil
	}

	if room.HostUserID == userID {
		next := domain.NextHost(survivors)
		next.Role = domain.RoleHost
		room.SetHost(next)
		if err := c.store.SetMember(roomID, next); err != nil {
			return nil, nil, err
		}
		if err := c.store.SetRoom(room); err != nil {
			return nil, nil, err
		}
		log.Info().Str("module", "app.coordinator").Str("room", roomID).Str("host", next.UserID).Msg("host handed over")
	}
	return room, survivors, nil
}

// FinishRoom is the host ending the meeting for everyone.
func (c *Coordinator) FinishRoom(userID, roomID string) error {
	if _, err := c.room(roomID); err != nil {
		return err
	}
	if _, err := c.hostMember(roomID, userID); err != nil {
		return err
	}
	if err := c.store.DeleteRoom(roomID); err != nil {
		return err
	}
	log.Info().Str("module", "app.coordinator").Str("room", roomID).Str("user", userID).Msg("room finished")
	return nil
}

// CancelMeeting deletes a booked room. Only the pre-registered host may
// cancel, and only while nobody has joined.
func (c *Coordinator) CancelMeeting(roomID, userID string) error {
	room, err := c.room(roomID)
	if err != nil {
		return err
	}
	if room.HostUserID != userID {
		return core.ErrPermissionDenied
	}
	count, err := c.store.MemberCount(roomID)
	if err != nil {
		return err
	}
	if count > 0 {
		return core.ErrRoomOccupied
	}
	return c.store.DeleteRoom(roomID)
}

// RoomState returns the aggregate for resync and user-list queries.
func (c *Coordinator) RoomState(roomID, userID string) (*domain.Room, *domain.Member, []*domain.Member, error) {
	room, err := c.room(roomID)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := c.member(roomID, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	members, err := c.store.ListMembers(roomID)
	if err != nil {
		return nil, nil, nil, err
	}
	return room, m, members, nil
}

func (c *Coordinator) CheckRoomExists(roomID string) (bool, error) {
	return c.store.RoomExists(roomID)
}

type Presence int

const (
	RoomAbsent Presence = iota
	NotPresent
	Present
)

// CheckUserInRoom distinguishes "room gone" from "user not in it".
func (c *Coordinator) CheckUserInRoom(roomID, userID string) (Presence, error) {
	exists, err := c.store.RoomExists(roomID)
	if err != nil {
		return RoomAbsent, err
	}
	if !exists {
		return RoomAbsent, nil
	}
	m, err := c.store.GetMember(roomID, userID)
	if err != nil {
		return RoomAbsent, err
	}
	if m == nil {
		return NotPresent, nil
	}
	return Present, nil
}

type MeetingSummary struct {
	RoomID       string `json:"room_id"`
	RoomName     string `json:"room_name"`
	HostUserID   string `json:"host_user_id"`
	HostUserName string `json:"host_user_name"`
	StartTime    int64  `json:"start_time"`
	UserCount    int    `json:"user_count"`
}

// UserMeetings lists the rooms hosted by userID. Linear in the number of
// rooms in the store; fine at the expected cardinality.
func (c *Coordinator) UserMeetings(userID string) ([]MeetingSummary, error) {
	ids, err := c.store.ListRoomIDs()
	if err != nil {
		return nil, err
	}
	meetings := make([]MeetingSummary, 0)
	for _, roomID := range ids {
		room, err := c.store.GetRoom(roomID)
		if err != nil {
			return nil, err
		}
		if room == nil || room.HostUserID != userID {
			continue
		}
		count, err := c.store.MemberCount(roomID)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, MeetingSummary{
			RoomID:       room.RoomID,
			RoomName:     room.RoomName,
			HostUserID:   room.HostUserID,
			HostUserName: room.HostUserName,
			StartTime:    room.StartTime,
			UserCount:    count,
		})
	}
	return meetings, nil
}

// DestroyRoom removes a room torn down at the media layer. No role check;
// idempotent on rooms already gone.
func (c *Coordinator) DestroyRoom(roomID string) error {
	exists, err := c.store.RoomExists(roomID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	log.Info().Str("module", "app.coordinator").Str("room", roomID).Msg("room destroyed by provider")
	return c.store.DeleteRoom(roomID)
}

// SetRecordState stores recording state reported by the provider callback.
func (c *Coordinator) SetRecordState(roomID string, status domain.RecordStatus) error {
	room, err := c.room(roomID)
	if err != nil {
		return err
	}
	room.RecordStatus = status
	if status == domain.Recording {
		room.RecordStartTime = c.now() / 1000
	} else {
		room.RecordStartTime = 0
	}
	return c.store.SetRoom(room)
}
