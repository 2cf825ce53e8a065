// Package rtc is the HTTP client for the vendor real-time-communication
// openAPI: point-to-point and room-wide messaging plus media task control.
// Request signing is handled by the vendor gateway side; this client only
// carries the application credentials.
package rtc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/core"
)

const (
	versionMessaging = "2023-07-20"
	versionRoomCtl   = "2023-11-01"
	versionAgent     = "2024-12-01"
)

type Client struct {
	host   string
	appKey string
	hc     *http.Client
}

func NewClient(host, appKey string, timeout time.Duration) *Client {
	return &Client{
		host:   host,
		appKey: appKey,
		hc:     &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type apiResponse struct {
	ResponseMetadata struct {
		RequestID string    `json:"RequestId"`
		Action    string    `json:"Action"`
		Error     *apiError `json:"Error,omitempty"`
	} `json:"ResponseMetadata"`
	Result json.RawMessage `json:"Result,omitempty"`
}

// call POSTs body to the openAPI endpoint identified by Action/Version query
// parameters and decodes the structured success/error result.
func (c *Client) call(ctx context.Context, action, version string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", core.ErrUpstream, action, err)
	}

	q := url.Values{}
	q.Set("Action", action)
	q.Set("Version", version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrUpstream, action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrUpstream, action, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", core.ErrUpstream, action, err)
	}
	if out.ResponseMetadata.Error != nil {
		e := out.ResponseMetadata.Error
		return nil, fmt.Errorf("%w: %s: %s (%s)", core.ErrUpstream, action, e.Message, e.Code)
	}
	log.Debug().Str("module", "adapters.rtc").Str("action", action).
		Str("request_id", out.ResponseMetadata.RequestID).Msg("api call ok")
	return out.Result, nil
}

type unicastBody struct {
	AppID   string `json:"AppId"`
	To      string `json:"To"`
	Message string `json:"Message"`
	Binary  bool   `json:"Binary"`
}

type broadcastBody struct {
	AppID   string `json:"AppId"`
	RoomID  string `json:"RoomId"`
	Message string `json:"Message"`
	Binary  bool   `json:"Binary"`
}

func (c *Client) SendUnicast(ctx context.Context, appID, toUserID, message string) error {
	_, err := c.call(ctx, "SendUnicast", versionMessaging, unicastBody{
		AppID:   appID,
		To:      toUserID,
		Message: message,
	})
	return err
}

func (c *Client) SendBroadcast(ctx context.Context, appID, roomID, message string) error {
	_, err := c.call(ctx, "SendBroadcast", versionMessaging, broadcastBody{
		AppID:   appID,
		RoomID:  roomID,
		Message: message,
	})
	return err
}
