package app

import (
	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/domain"
)

// OperateSelfCamera toggles the acting member's own camera. No role check.
func (c *Coordinator) OperateSelfCamera(userID, roomID string, operate domain.DeviceState) error {
	if _, err := c.room(roomID); err != nil {
		return err
	}
	m, err := c.member(roomID, userID)
	if err != nil {
		return err
	}
	m.OperateCamera(operate)
	return c.store.SetMember(roomID, m)
}

// OperateSelfMic toggles the acting member's own microphone. No role check.
func (c *Coordinator) OperateSelfMic(userID, roomID string, operate domain.DeviceState) error {
	if _, err := c.room(roomID); err != nil {
		return err
	}
	m, err := c.member(roomID, userID)
	if err != nil {
		return err
	}
	m.OperateMic(operate)
	return c.store.SetMember(roomID, m)
}

// OperateOtherCamera is the host forcing another member's camera state.
func (c *Coordinator) OperateOtherCamera(userID, roomID, targetUserID string, operate domain.DeviceState) (*domain.Member, error) {
	if _, err := c.room(roomID); err != nil {
		return nil, err
	}
	if _, err := c.hostMember(roomID, userID); err != nil {
		return nil, err
	}
	target, err := c.member(roomID, targetUserID)
	if err != nil {
		return nil, err
	}
	target.OperateCamera(operate)
	if err := c.store.SetMember(roomID, target); err != nil {
		return nil, err
	}
	return target, nil
}

// OperateOtherMic is the host forcing another member's microphone state.
func (c *Coordinator) OperateOtherMic(userID, roomID, targetUserID string, operate domain.DeviceState) (*domain.Member, error) {
	if _, err := c.room(roomID); err != nil {
		return nil, err
	}
	if _, err := c.hostMember(roomID, userID); err != nil {
		return nil, err
	}
	target, err := c.member(roomID, targetUserID)
	if err != nil {
		return nil, err
	}
	target.OperateMic(operate)
	if err := c.store.SetMember(roomID, target); err != nil {
		return nil, err
	}
	return target, nil
}

// OperateSelfMicApply raises a floor request towards the host. It changes no
// member state; only the host's permit answer mutates mic_permission. The
// returned id is the host to notify.
func (c *Coordinator) OperateSelfMicApply(userID, roomID string) (string, error) {
	room, err := c.room(roomID)
	if err != nil {
		return "", err
	}
	if _, err := c.member(roomID, userID); err != nil {
		return "", err
	}
	return room.HostUserID, nil
}

// OperateSelfMicPermit is the host answering a member's floor request.
func (c *Coordinator) OperateSelfMicPermit(userID, roomID, applyUserID string, permit domain.Permission) (*domain.Member, error) {
	if _, err := c.room(roomID); err != nil {
		return nil, err
	}
	if _, err := c.hostMember(roomID, userID); err != nil {
		return nil, err
	}
	applicant, err := c.member(roomID, applyUserID)
	if err != nil {
		return nil, err
	}
	applicant.UpdateMicPermission(permit)
	if err := c.store.SetMember(roomID, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

// OperateAllMic bulk-sets every other member's mic state and mic permission
// and records the room-wide mute flag. One batched member write.
func (c *Coordinator) OperateAllMic(userID, roomID string, selfMicPermission domain.Permission, operate domain.DeviceState) ([]*domain.Member, error) {
	room, err := c.room(roomID)
	if err != nil {
		return nil, err
	}
	if _, err := c.hostMember(roomID, userID); err != nil {
		return nil, err
	}
	members, err := c.store.ListMembers(roomID)
	if err != nil {
		return nil, err
	}

	changed := make([]*domain.Member, 0, len(members))
	for _, m := range members {
		if m.UserID == userID {
			continue
		}
		m.OperateMic(operate)
		m.UpdateMicPermission(selfMicPermission)
		changed = append(changed, m)
	}
	if err := c.store.SetMembers(roomID, changed); err != nil {
		return nil, err
	}

	if operate == domain.DeviceClosed {
		room.RoomMicStatus = domain.AllMuted
	} else {
		room.RoomMicStatus = domain.AllowMic
	}
	room.SelfMicPermission = selfMicPermission
	if err := c.store.SetRoom(room); err != nil {
		return nil, err
	}
	log.Info().Str("module", "app.coordinator").Str("room", roomID).Int("affected", len(changed)).
		Int("operate", int(operate)).Msg("all-mic operated")
	return changed, nil
}
