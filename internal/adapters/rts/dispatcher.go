package rts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/app"
	"github.com/solivane/vcmeet/internal/core"
)

// Dispatcher maps inbound signaling events to coordinator operations and
// formats the unicast reply. The event set is closed: adding an EventName
// constant without a case below is caught by the exhaustive switch tests.
type Dispatcher struct {
	coord     *app.Coordinator
	informer  *Informer
	transport core.Transport
	tokens    core.TokenProvider
	appID     string
	signature string
	now       func() int64
}

func NewDispatcher(coord *app.Coordinator, informer *Informer, transport core.Transport, tokens core.TokenProvider, appID, signature string) *Dispatcher {
	return &Dispatcher{
		coord:     coord,
		informer:  informer,
		transport: transport,
		tokens:    tokens,
		appID:     appID,
		signature: signature,
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

func (d *Dispatcher) reply(req *Request, code int, msg string, payload any) *Response {
	return &Response{
		MessageType: "return",
		RequestID:   req.RequestID,
		EventName:   req.EventName,
		Code:        code,
		Message:     msg,
		Timestamp:   d.now(),
		Response:    payload,
	}
}

func (d *Dispatcher) appIDFor(req *Request) string {
	if req.AppID != "" {
		return req.AppID
	}
	return d.appID
}

// Handle runs one inbound envelope through unwrap, verify, authenticate and
// dispatch. It always returns exactly one reply envelope; the same envelope
// is also unicast back to the acting user when one is known.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) *Response {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.Error().Err(err).Str("module", "adapters.rts").Msg("malformed envelope")
		return d.reply(&Request{}, 400, "invalid message format", nil)
	}
	if env.Binary {
		log.Warn().Str("module", "adapters.rts").Msg("binary payload dropped")
		return d.reply(&Request{}, 400, "binary message not supported", nil)
	}
	if env.Signature != d.signature {
		log.Warn().Str("module", "adapters.rts").Msg("invalid signature")
		return d.reply(&Request{}, 401, "invalid signature", nil)
	}

	var req Request
	if err := json.Unmarshal([]byte(env.Message), &req); err != nil {
		log.Error().Err(err).Str("module", "adapters.rts").Msg("malformed message")
		return d.reply(&Request{}, 400, "invalid message format", nil)
	}
	if req.Content == "" || req.Content == "null" {
		req.Content = "{}"
	}
	if req.RequestID == "" {
		// Replies always carry a correlation id, even for sloppy clients.
		req.RequestID = uuid.NewString()
	}
	if req.LoginToken == "" {
		log.Warn().Str("module", "adapters.rts").Str("user", req.UserID).Msg("missing login token")
		return d.reply(&req, 401, "missing login token", nil)
	}

	resp := d.dispatch(ctx, &req)

	if req.UserID != "" {
		raw, err := json.Marshal(resp)
		if err == nil {
			if err := d.transport.SendUnicast(ctx, d.appIDFor(&req), req.UserID, string(raw)); err != nil {
				log.Error().Err(err).Str("module", "adapters.rts").Str("user", req.UserID).Msg("reply unicast failed")
			}
		}
	}
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, req *Request) *Response {
	content := json.RawMessage(req.Content)

	var (
		payload any
		err     error
	)
	switch req.EventName {
	case EvJoinRoom:
		payload, err = d.handleJoinRoom(ctx, req, content)
	case EvLeaveRoom:
		err = d.handleLeaveRoom(ctx, req)
	case EvFinishRoom:
		err = d.handleFinishRoom(ctx, req)
	case EvResync:
		payload, err = d.handleResync(req)
	case EvGetUserList:
		payload, err = d.handleGetUserList(req)
	case EvOperateSelfCamera:
		err = d.handleOperateSelfCamera(req, content)
	case EvOperateSelfMic:
		err = d.handleOperateSelfMic(req, content)
	case EvOperateSelfMicApply:
		err = d.handleOperateSelfMicApply(req)
	case EvStartShare:
		err = d.handleStartShare(req, content)
	case EvFinishShare:
		err = d.handleFinishShare(req)
	case EvSharePermissionApply:
		err = d.handleSharePermissionApply(req)
	case EvOperateOtherCamera:
		err = d.handleOperateOtherCamera(req, content)
	case EvOperateOtherMic:
		err = d.handleOperateOtherMic(req, content)
	case EvOperateOtherSharePermit:
		err = d.handleOperateOtherSharePermission(req, content)
	case EvOperateAllMic:
		err = d.handleOperateAllMic(req, content)
	case EvOperateSelfMicPermit:
		err = d.handleOperateSelfMicPermit(req, content)
	case EvSharePermissionPermit:
		err = d.handleSharePermissionPermit(req, content)
	default:
		log.Warn().Str("module", "adapters.rts").Str("event", string(req.EventName)).Msg("unknown event")
		return d.reply(req, 400, fmt.Sprintf("unknown event %q", req.EventName), nil)
	}

	if err != nil {
		log.Warn().Err(err).Str("module", "adapters.rts").Str("event", string(req.EventName)).
			Str("room", req.RoomID).Str("user", req.UserID).Msg("event failed")
		return d.reply(req, core.CodeOf(err), err.Error(), nil)
	}
	return d.reply(req, 200, "success", payload)
}

func decodeContent(content json.RawMessage, v any) error {
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("%w: bad content: %v", core.ErrInvalidRequest, err)
	}
	return nil
}
