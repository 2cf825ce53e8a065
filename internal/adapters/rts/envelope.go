// Package rts implements the signaling surface: the inbound message
// envelope, the event dispatcher, provider callbacks and the notification
// fan-out towards room members.
package rts

import (
	"github.com/solivane/vcmeet/internal/domain"
)

// Envelope is the outer wire frame delivered by the messaging transport.
// The message field is itself a JSON-encoded Request.
type Envelope struct {
	Message   string `json:"message"`
	Binary    bool   `json:"binary"`
	Signature string `json:"signature"`
}

// Request is the decoded inner message. Content carries the event payload
// as another JSON string; the dispatcher normalizes and decodes it once,
// raw strings never travel past this boundary.
type Request struct {
	AppID      string    `json:"app_id"`
	RoomID     string    `json:"room_id"`
	DeviceID   string    `json:"device_id"`
	UserID     string    `json:"user_id"`
	LoginToken string    `json:"login_token"`
	RequestID  string    `json:"request_id"`
	EventName  EventName `json:"event_name"`
	Content    string    `json:"content"`
}

// Response is the reply envelope unicast back to the acting user. Every
// request gets exactly one, success or error.
type Response struct {
	MessageType string    `json:"message_type"`
	RequestID   string    `json:"request_id"`
	EventName   EventName `json:"event_name"`
	Code        int       `json:"code"`
	Message     string    `json:"message"`
	Timestamp   int64     `json:"timestamp"`
	Response    any       `json:"response"`
}

// Inform is the envelope pushed to other room members so connected clients
// update their view without polling.
type Inform struct {
	MessageType string      `json:"message_type"`
	Event       InformEvent `json:"event"`
	Data        any         `json:"data"`
	Timestamp   int64       `json:"timestamp"`
}

// EventName is the closed set of inbound signaling events.
type EventName string

const (
	EvJoinRoom                  EventName = "vcJoinRoom"
	EvLeaveRoom                 EventName = "vcLeaveRoom"
	EvFinishRoom                EventName = "vcFinishRoom"
	EvResync                    EventName = "vcResync"
	EvGetUserList               EventName = "vcGetUserList"
	EvOperateSelfCamera         EventName = "vcOperateSelfCamera"
	EvOperateSelfMic            EventName = "vcOperateSelfMic"
	EvOperateSelfMicApply       EventName = "vcOperateSelfMicApply"
	EvStartShare                EventName = "vcStartShare"
	EvFinishShare               EventName = "vcFinishShare"
	EvSharePermissionApply      EventName = "vcSharePermissionApply"
	EvOperateOtherCamera        EventName = "vcOperateOtherCamera"
	EvOperateOtherMic           EventName = "vcOperateOtherMic"
	EvOperateOtherSharePermit   EventName = "vcOperateOtherSharePermission"
	EvOperateAllMic             EventName = "vcOperateAllMic"
	EvOperateSelfMicPermit      EventName = "vcOperateSelfMicPermit"
	EvSharePermissionPermit     EventName = "vcSharePermissionPermit"
)

// InformEvent names the outbound notifications.
type InformEvent string

const (
	OnJoinRoom              InformEvent = "vcOnJoinRoom"
	OnLeaveRoom             InformEvent = "vcOnLeaveRoom"
	OnFinishRoom            InformEvent = "vcOnFinishRoom"
	OnOperateCamera         InformEvent = "vcOnOperateCamera"
	OnOperateMic            InformEvent = "vcOnOperateMic"
	OnOperateAllMic         InformEvent = "vcOnOperateAllMic"
	OnOperateSelfMicApply   InformEvent = "vcOnOperateSelfMicApply"
	OnOperateSelfMicPermit  InformEvent = "vcOnOperateSelfMicPermit"
	OnSharePermissionApply  InformEvent = "vcOnSharePermissionApply"
	OnSharePermissionPermit InformEvent = "vcOnSharePermissionPermit"
	OnOperateSharePermit    InformEvent = "vcOnOperateSharePermission"
	OnStartShare            InformEvent = "vcOnStartShare"
	OnFinishShare           InformEvent = "vcOnFinishShare"
)

// Content payloads per event.

type joinContent struct {
	UserName  string             `json:"user_name"`
	Camera    domain.DeviceState `json:"camera"`
	Mic       domain.DeviceState `json:"mic"`
	IsSilence domain.Silence     `json:"is_silence"`
}

type operateContent struct {
	Operate int `json:"operate"`
}

type operateOtherContent struct {
	OperateUserID string `json:"operate_user_id"`
	Operate       int    `json:"operate"`
}

type allMicContent struct {
	SelfMicPermission domain.Permission  `json:"operate_self_mic_permission"`
	Operate           domain.DeviceState `json:"operate"`
}

type permitContent struct {
	ApplyUserID string `json:"apply_user_id"`
	Permit      int    `json:"permit"`
}

type shareContent struct {
	ShareType domain.ShareType `json:"share_type"`
}

// Reply payloads.

type joinRoomRes struct {
	Room     *domain.Room     `json:"room"`
	User     *domain.Member   `json:"user"`
	UserList []*domain.Member `json:"user_list"`
	Token    string           `json:"token"`
	WbRoomID string           `json:"wb_room_id"`
	WbUserID string           `json:"wb_user_id"`
	WbToken  string           `json:"wb_token"`
}

type reconnectRes struct {
	Room     *domain.Room     `json:"room"`
	User     *domain.Member   `json:"user"`
	UserList []*domain.Member `json:"user_list"`
}

type getUserListRes struct {
	UserCount int              `json:"user_count"`
	UserList  []*domain.Member `json:"user_list"`
}
