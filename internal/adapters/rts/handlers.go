package rts

import (
	"context"
	"encoding/json"

	"github.com/solivane/vcmeet/internal/domain"
)

const whiteboardPrefix = "whiteboard_"

func (d *Dispatcher) handleJoinRoom(ctx context.Context, req *Request, content json.RawMessage) (any, error) {
	var c joinContent
	if err := decodeContent(content, &c); err != nil {
		return nil, err
	}

	member := &domain.Member{
		UserID:    req.UserID,
		UserName:  c.UserName,
		DeviceID:  req.DeviceID,
		Camera:    c.Camera,
		Mic:       c.Mic,
		IsSilence: c.IsSilence,
	}
	room, members, err := d.coord.JoinRoom(member, d.appIDFor(req), req.RoomID)
	if err != nil {
		return nil, err
	}

	d.informer.FanOut(d.appIDFor(req), members, req.UserID, OnJoinRoom, map[string]any{
		"user":       member,
		"user_count": len(members),
	})

	wbRoomID := whiteboardPrefix + req.RoomID
	wbUserID := whiteboardPrefix + req.UserID
	return &joinRoomRes{
		Room:     room,
		User:     member,
		UserList: members,
		Token:    d.tokens.RTCToken(req.UserID, req.RoomID),
		WbRoomID: wbRoomID,
		WbUserID: wbUserID,
		WbToken:  d.tokens.RTCToken(wbUserID, wbRoomID),
	}, nil
}

func (d *Dispatcher) handleLeaveRoom(ctx context.Context, req *Request) error {
	room, survivors, err := d.coord.LeaveRoom(req.UserID, req.RoomID)
	if err != nil {
		return err
	}
	if room != nil {
		d.informer.FanOut(d.appIDFor(req), survivors, req.UserID, OnLeaveRoom, map[string]any{
			"user_id":      req.UserID,
			"host_user_id": room.HostUserID,
			"user_count":   len(survivors),
		})
	}
	return nil
}

func (d *Dispatcher) handleFinishRoom(ctx context.Context, req *Request) error {
	if err := d.coord.FinishRoom(req.UserID, req.RoomID); err != nil {
		return err
	}
	d.informer.Broadcast(d.appIDFor(req), req.RoomID, OnFinishRoom, map[string]any{
		"room_id": req.RoomID,
	})
	return nil
}

func (d *Dispatcher) handleResync(req *Request) (any, error) {
	room, member, members, err := d.coord.RoomState(req.RoomID, req.UserID)
	if err != nil {
		return nil, err
	}
	return &reconnectRes{Room: room, User: member, UserList: members}, nil
}

func (d *Dispatcher) handleGetUserList(req *Request) (any, error) {
	_, _, members, err := d.coord.RoomState(req.RoomID, req.UserID)
	if err != nil {
		return nil, err
	}
	return &getUserListRes{UserCount: len(members), UserList: members}, nil
}

func (d *Dispatcher) handleOperateSelfCamera(req *Request, content json.RawMessage) error {
	var c operateContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	return d.coord.OperateSelfCamera(req.UserID, req.RoomID, domain.DeviceState(c.Operate))
}

func (d *Dispatcher) handleOperateSelfMic(req *Request, content json.RawMessage) error {
	var c operateContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	return d.coord.OperateSelfMic(req.UserID, req.RoomID, domain.DeviceState(c.Operate))
}

// Self-apply raises a request towards the host; mic permission itself only
// changes on the host's permit answer.
func (d *Dispatcher) handleOperateSelfMicApply(req *Request) error {
	hostID, err := d.coord.OperateSelfMicApply(req.UserID, req.RoomID)
	if err != nil {
		return err
	}
	d.informer.Unicast(d.appIDFor(req), hostID, OnOperateSelfMicApply, map[string]any{
		"apply_user_id": req.UserID,
	})
	return nil
}

func (d *Dispatcher) handleStartShare(req *Request, content json.RawMessage) error {
	var c shareContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	member, err := d.coord.StartShare(req.UserID, req.RoomID, c.ShareType)
	if err != nil {
		return err
	}
	d.fanOutToRoom(req, OnStartShare, map[string]any{
		"user_id":    member.UserID,
		"user_name":  member.UserName,
		"share_type": member.ShareType,
	})
	return nil
}

func (d *Dispatcher) handleFinishShare(req *Request) error {
	if _, err := d.coord.FinishShare(req.UserID, req.RoomID); err != nil {
		return err
	}
	d.fanOutToRoom(req, OnFinishShare, map[string]any{
		"user_id": req.UserID,
	})
	return nil
}

func (d *Dispatcher) handleSharePermissionApply(req *Request) error {
	hostID, err := d.coord.SharePermissionApply(req.UserID, req.RoomID)
	if err != nil {
		return err
	}
	d.informer.Unicast(d.appIDFor(req), hostID, OnSharePermissionApply, map[string]any{
		"apply_user_id": req.UserID,
	})
	return nil
}

func (d *Dispatcher) handleOperateOtherCamera(req *Request, content json.RawMessage) error {
	var c operateOtherContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	target, err := d.coord.OperateOtherCamera(req.UserID, req.RoomID, c.OperateUserID, domain.DeviceState(c.Operate))
	if err != nil {
		return err
	}
	d.informer.Unicast(d.appIDFor(req), target.UserID, OnOperateCamera, map[string]any{
		"operate": c.Operate,
	})
	return nil
}

func (d *Dispatcher) handleOperateOtherMic(req *Request, content json.RawMessage) error {
	var c operateOtherContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	target, err := d.coord.OperateOtherMic(req.UserID, req.RoomID, c.OperateUserID, domain.DeviceState(c.Operate))
	if err != nil {
		return err
	}
	d.informer.Unicast(d.appIDFor(req), target.UserID, OnOperateMic, map[string]any{
		"operate": c.Operate,
	})
	return nil
}

func (d *Dispatcher) handleOperateOtherSharePermission(req *Request, content json.RawMessage) error {
	var c operateOtherContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	target, err := d.coord.OperateOtherSharePermission(req.UserID, req.RoomID, c.OperateUserID, domain.Permission(c.Operate))
	if err != nil {
		return err
	}
	d.informer.Unicast(d.appIDFor(req), target.UserID, OnOperateSharePermit, map[string]any{
		"operate": c.Operate,
	})
	return nil
}

func (d *Dispatcher) handleOperateAllMic(req *Request, content json.RawMessage) error {
	var c allMicContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	changed, err := d.coord.OperateAllMic(req.UserID, req.RoomID, c.SelfMicPermission, c.Operate)
	if err != nil {
		return err
	}
	d.informer.FanOut(d.appIDFor(req), changed, req.UserID, OnOperateAllMic, map[string]any{
		"operate":                     c.Operate,
		"operate_self_mic_permission": c.SelfMicPermission,
	})
	return nil
}

func (d *Dispatcher) handleOperateSelfMicPermit(req *Request, content json.RawMessage) error {
	var c permitContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	applicant, err := d.coord.OperateSelfMicPermit(req.UserID, req.RoomID, c.ApplyUserID, domain.Permission(c.Permit))
	if err != nil {
		return err
	}
	d.informer.Unicast(d.appIDFor(req), applicant.UserID, OnOperateSelfMicPermit, map[string]any{
		"permit": c.Permit,
	})
	return nil
}

func (d *Dispatcher) handleSharePermissionPermit(req *Request, content json.RawMessage) error {
	var c permitContent
	if err := decodeContent(content, &c); err != nil {
		return err
	}
	applicant, err := d.coord.SharePermissionPermit(req.UserID, req.RoomID, c.ApplyUserID, domain.Permission(c.Permit))
	if err != nil {
		return err
	}
	d.informer.Unicast(d.appIDFor(req), applicant.UserID, OnSharePermissionPermit, map[string]any{
		"permit": c.Permit,
	})
	return nil
}

// fanOutToRoom informs every other member of req's room. Listing members is
// best effort: a read failure only costs the notification.
func (d *Dispatcher) fanOutToRoom(req *Request, event InformEvent, data any) {
	_, _, members, err := d.coord.RoomState(req.RoomID, req.UserID)
	if err != nil {
		return
	}
	d.informer.FanOut(d.appIDFor(req), members, req.UserID, event, data)
}
