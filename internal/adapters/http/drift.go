package http

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/core"
)

// MediaRelay runs vendor relay-stream tasks for drift camera devices.
type MediaRelay interface {
	StartRelayStream(ctx context.Context, appID, roomID, userID, taskID, token, streamURL string) (json.RawMessage, error)
	StopRelayStream(ctx context.Context, appID, roomID, taskID string) error
}

// DriftAPI serves the camera-device endpoints: a joining camera pushes its
// stream over RTMP and the relay task forwards it into the room; leave stops
// the task. The device serial doubles as user id and task id.
type DriftAPI struct {
	relay    MediaRelay
	tokens   core.TokenProvider
	appID    string
	rtmpHost string
	rtmpPort int
	rtspPort int
}

func NewDriftAPI(relay MediaRelay, tokens core.TokenProvider, appID, rtmpHost string, rtmpPort, rtspPort int) *DriftAPI {
	return &DriftAPI{
		relay:    relay,
		tokens:   tokens,
		appID:    appID,
		rtmpHost: rtmpHost,
		rtmpPort: rtmpPort,
		rtspPort: rtspPort,
	}
}

type driftJoinRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	DeviceSN string `json:"device_sn" binding:"required"`
}

type driftJoinResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	RTMPURL string `json:"rtmp_url,omitempty"`
	RTSPURL string `json:"rtsp_url,omitempty"`
}

func (d *DriftAPI) join(c *gin.Context) {
	var req driftJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, driftJoinResponse{Code: 400, Message: "invalid request"})
		return
	}

	upURL := fmt.Sprintf("rtmp://%s:%d/live/%s", d.rtmpHost, d.rtmpPort, req.DeviceSN)
	dnURL := fmt.Sprintf("rtsp://%s:%d/live_%s", d.rtmpHost, d.rtspPort, req.DeviceSN)

	token := d.tokens.RTCToken(req.DeviceSN, req.RoomID)
	if _, err := d.relay.StartRelayStream(c.Request.Context(), d.appID, req.RoomID, req.DeviceSN, req.DeviceSN, token, upURL); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", req.RoomID).
			Str("device", req.DeviceSN).Msg("start relay failed")
		c.JSON(nethttp.StatusOK, driftJoinResponse{Code: 500, Message: "failed to start media tasks"})
		return
	}

	c.JSON(nethttp.StatusOK, driftJoinResponse{Code: 200, Message: "ok", RTMPURL: upURL, RTSPURL: dnURL})
}

type driftLeaveRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	DeviceSN string `json:"device_sn" binding:"required"`
}

type driftLeaveResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (d *DriftAPI) leave(c *gin.Context) {
	var req driftLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, driftLeaveResponse{Code: 400, Message: "invalid request"})
		return
	}
	if err := d.relay.StopRelayStream(c.Request.Context(), d.appID, req.RoomID, req.DeviceSN); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", req.RoomID).
			Str("device", req.DeviceSN).Msg("stop relay failed")
		c.JSON(nethttp.StatusOK, driftLeaveResponse{Code: 500, Message: "failed to stop media tasks"})
		return
	}
	c.JSON(nethttp.StatusOK, driftLeaveResponse{Code: 200, Message: "ok"})
}
