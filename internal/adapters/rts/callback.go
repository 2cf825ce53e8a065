package rts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/app"
	"github.com/solivane/vcmeet/internal/core"
	"github.com/solivane/vcmeet/internal/domain"
)

// Callback is the envelope the RTC provider POSTs for out-of-band room
// events. EventData is a JSON string decoded per EventType.
type Callback struct {
	EventType string `json:"EventType"`
	EventData string `json:"EventData"`
	EventTime int64  `json:"EventTime"`
	EventID   string `json:"EventId"`
	AppID     string `json:"AppId"`
	Version   string `json:"Version"`
	Signature string `json:"Signature"`
	Nonce     string `json:"Nonce"`
}

type roomUserEvent struct {
	RoomID string `json:"RoomId"`
	UserID string `json:"UserId"`
}

type relayStreamEvent struct {
	RoomID string `json:"RoomId"`
	TaskID string `json:"TaskId"`
	State  int    `json:"State"`
}

// MediaController tears down vendor-side media when a room dies: evicts the
// remaining media-session users and stops the relay task of the departed
// device.
type MediaController interface {
	BanRoomUser(ctx context.Context, appID, roomID string) error
	StopRelayStream(ctx context.Context, appID, roomID, taskID string) error
}

// CallbackHandler applies provider callbacks to the coordinator. Only
// device/bot participants join and leave through this path; humans go
// through signaling and are ignored here.
type CallbackHandler struct {
	coord    *app.Coordinator
	informer *Informer
	media    MediaController
	appID    string
}

func NewCallbackHandler(coord *app.Coordinator, informer *Informer, media MediaController, appID string) *CallbackHandler {
	return &CallbackHandler{coord: coord, informer: informer, media: media, appID: appID}
}

// Handle decodes one callback envelope. Unknown event types are logged and
// acknowledged so the provider does not retry them forever.
func (h *CallbackHandler) Handle(ctx context.Context, body []byte) error {
	var cb Callback
	if err := json.Unmarshal(body, &cb); err != nil {
		return fmt.Errorf("%w: malformed callback: %v", core.ErrInvalidRequest, err)
	}

	switch cb.EventType {
	case "UserJoinRoom":
		return h.userJoined(ctx, &cb)
	case "UserLeaveRoom":
		return h.userLeft(ctx, &cb)
	case "RelayStreamStateChanged":
		return h.relayStateChanged(&cb)
	case "RecordStarted":
		return h.recordState(&cb, domain.Recording)
	case "RecordStopped":
		return h.recordState(&cb, domain.NotRecording)
	case "RoomDestroyed":
		return h.roomDestroyed(&cb)
	default:
		log.Warn().Str("module", "adapters.rts").Str("event_type", cb.EventType).Msg("unknown callback event")
		return nil
	}
}

func (h *CallbackHandler) userJoined(ctx context.Context, cb *Callback) error {
	var ev roomUserEvent
	if err := json.Unmarshal([]byte(cb.EventData), &ev); err != nil {
		return fmt.Errorf("%w: bad event data: %v", core.ErrInvalidRequest, err)
	}
	if domain.IsHumanUserID(ev.UserID) {
		return nil // humans join through signaling
	}

	presence, err := h.coord.CheckUserInRoom(ev.RoomID, ev.UserID)
	if err != nil {
		return err
	}
	if presence != app.NotPresent {
		// Room gone or duplicate delivery; nothing to do.
		return nil
	}

	member := &domain.Member{
		UserID:   ev.UserID,
		UserName: ev.UserID,
		Camera:   domain.DeviceOpen,
		Mic:      domain.DeviceOpen,
	}
	_, members, err := h.coord.JoinRoom(member, h.appID, ev.RoomID)
	if err != nil {
		return err
	}
	h.informer.FanOut(h.appID, members, ev.UserID, OnJoinRoom, map[string]any{
		"user":       member,
		"user_count": len(members),
	})
	return nil
}

func (h *CallbackHandler) userLeft(ctx context.Context, cb *Callback) error {
	var ev roomUserEvent
	if err := json.Unmarshal([]byte(cb.EventData), &ev); err != nil {
		return fmt.Errorf("%w: bad event data: %v", core.ErrInvalidRequest, err)
	}
	if domain.IsHumanUserID(ev.UserID) {
		return nil
	}

	room, survivors, err := h.coord.LeaveRoom(ev.UserID, ev.RoomID)
	if err != nil {
		// Duplicate delivery after the room is gone is expected.
		log.Debug().Err(err).Str("module", "adapters.rts").Str("room", ev.RoomID).Msg("device leave skipped")
		return nil
	}
	if room != nil {
		h.informer.FanOut(h.appID, survivors, ev.UserID, OnLeaveRoom, map[string]any{
			"user_id":      ev.UserID,
			"host_user_id": room.HostUserID,
			"user_count":   len(survivors),
		})
		return nil
	}

	// The device was the last member out; close the media session too. The
	// relay task id equals the device id (see the drift endpoints).
	h.informer.Broadcast(h.appID, ev.RoomID, OnFinishRoom, map[string]any{"room_id": ev.RoomID})
	if h.media != nil {
		if err := h.media.BanRoomUser(ctx, h.appID, ev.RoomID); err != nil {
			log.Error().Err(err).Str("module", "adapters.rts").Str("room", ev.RoomID).Msg("ban room failed")
		}
		if err := h.media.StopRelayStream(ctx, h.appID, ev.RoomID, ev.UserID); err != nil {
			log.Error().Err(err).Str("module", "adapters.rts").Str("room", ev.RoomID).
				Str("task", ev.UserID).Msg("stop relay failed")
		}
	}
	return nil
}

func (h *CallbackHandler) relayStateChanged(cb *Callback) error {
	var ev relayStreamEvent
	if err := json.Unmarshal([]byte(cb.EventData), &ev); err != nil {
		return fmt.Errorf("%w: bad event data: %v", core.ErrInvalidRequest, err)
	}
	log.Info().Str("module", "adapters.rts").Str("room", ev.RoomID).Str("task", ev.TaskID).
		Int("state", ev.State).Msg("relay stream state changed")
	return nil
}

func (h *CallbackHandler) recordState(cb *Callback, status domain.RecordStatus) error {
	var ev roomUserEvent
	if err := json.Unmarshal([]byte(cb.EventData), &ev); err != nil {
		return fmt.Errorf("%w: bad event data: %v", core.ErrInvalidRequest, err)
	}
	if err := h.coord.SetRecordState(ev.RoomID, status); err != nil {
		log.Warn().Err(err).Str("module", "adapters.rts").Str("room", ev.RoomID).Msg("record state not stored")
	}
	return nil
}

func (h *CallbackHandler) roomDestroyed(cb *Callback) error {
	var ev roomUserEvent
	if err := json.Unmarshal([]byte(cb.EventData), &ev); err != nil {
		return fmt.Errorf("%w: bad event data: %v", core.ErrInvalidRequest, err)
	}
	if err := h.coord.DestroyRoom(ev.RoomID); err != nil {
		return err
	}
	h.informer.Broadcast(h.appID, ev.RoomID, OnFinishRoom, map[string]any{"room_id": ev.RoomID})
	return nil
}
