package app

import (
	"github.com/solivane/vcmeet/internal/domain"
)

// StartShare marks the acting member as sharing and mirrors it on the room.
// It does not check for an existing sharer: last writer wins, the previous
// mirror is overwritten (see DESIGN.md).
func (c *Coordinator) StartShare(userID, roomID string, shareType domain.ShareType) (*domain.Member, error) {
	room, err := c.room(roomID)
	if err != nil {
		return nil, err
	}
	m, err := c.member(roomID, userID)
	if err != nil {
		return nil, err
	}
	m.StartShare(shareType)
	if err := c.store.SetMember(roomID, m); err != nil {
		return nil, err
	}
	room.MirrorShare(m)
	if err := c.store.SetRoom(room); err != nil {
		return nil, err
	}
	return m, nil
}

// FinishShare stops the acting member's share. The room mirror is cleared
// only when this member is the recorded sharer.
func (c *Coordinator) FinishShare(userID, roomID string) (*domain.Member, error) {
	room, err := c.room(roomID)
	if err != nil {
		return nil, err
	}
	m, err := c.member(roomID, userID)
	if err != nil {
		return nil, err
	}
	m.FinishShare()
	if err := c.store.SetMember(roomID, m); err != nil {
		return nil, err
	}
	if room.ShareUserID == userID {
		room.ClearShare(userID)
		if err := c.store.SetRoom(room); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SharePermissionApply raises a share-permission request towards the host.
// No state change; the host permit answer is authoritative.
func (c *Coordinator) SharePermissionApply(userID, roomID string) (string, error) {
	room, err := c.room(roomID)
	if err != nil {
		return "", err
	}
	if _, err := c.member(roomID, userID); err != nil {
		return "", err
	}
	return room.HostUserID, nil
}

// SharePermissionPermit is the host answering a share-permission request.
func (c *Coordinator) SharePermissionPermit(userID, roomID, applyUserID string, permit domain.Permission) (*domain.Member, error) {
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
	applicant.UpdateSharePermission(permit)
	if err := c.store.SetMember(roomID, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

// OperateOtherSharePermission is the host granting or revoking another
// member's share permission directly.
func (c *Coordinator) OperateOtherSharePermission(userID, roomID, targetUserID string, operate domain.Permission) (*domain.Member, error) {
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
	target.UpdateSharePermission(operate)
	if err := c.store.SetMember(roomID, target); err != nil {
		return nil, err
	}
	return target, nil
}
