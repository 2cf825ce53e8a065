package rtc

import (
	"context"
	"encoding/json"
)

// Media task control calls. These manage vendor-side jobs (stream relay,
// conversational agents, room eviction); the coordinator never inspects the
// results beyond success/error.

type relayControl struct {
	StreamURL   string `json:"StreamUrl"`
	VideoWidth  int    `json:"VideoWidth"`
	VideoHeight int    `json:"VideoHeight"`
}

type startRelayBody struct {
	AppID   string       `json:"AppId"`
	RoomID  string       `json:"RoomId"`
	UserID  string       `json:"UserId"`
	TaskID  string       `json:"TaskId"`
	Token   string       `json:"Token"`
	Control relayControl `json:"Control"`
}

type taskBody struct {
	AppID  string `json:"AppId"`
	RoomID string `json:"RoomId"`
	TaskID string `json:"TaskId"`
}

// StartRelayStream pushes an online media stream into roomID as userID.
func (c *Client) StartRelayStream(ctx context.Context, appID, roomID, userID, taskID, token, streamURL string) (json.RawMessage, error) {
	return c.call(ctx, "StartRelayStream", versionRoomCtl, startRelayBody{
		AppID:  appID,
		RoomID: roomID,
		UserID: userID,
		TaskID: taskID,
		Token:  token,
		Control: relayControl{
			StreamURL:   streamURL,
			VideoWidth:  1280,
			VideoHeight: 720,
		},
	})
}

func (c *Client) StopRelayStream(ctx context.Context, appID, roomID, taskID string) error {
	_, err := c.call(ctx, "StopRelayStream", versionRoomCtl, taskBody{AppID: appID, RoomID: roomID, TaskID: taskID})
	return err
}

type agentConfig struct {
	TargetUserID   []string `json:"TargetUserId"`
	UserID         string   `json:"UserId"`
	WelcomeMessage string   `json:"WelcomeMessage,omitempty"`
}

type startVoiceChatBody struct {
	AppID       string          `json:"AppId"`
	RoomID      string          `json:"RoomId"`
	TaskID      string          `json:"TaskId"`
	Config      json.RawMessage `json:"Config,omitempty"`
	AgentConfig agentConfig     `json:"AgentConfig"`
}

// StartVoiceChat starts a conversational voice agent for a single user.
// Model configuration is passed through opaquely.
func (c *Client) StartVoiceChat(ctx context.Context, appID, roomID, botID, userID, taskID string, cfg json.RawMessage) (json.RawMessage, error) {
	return c.call(ctx, "StartVoiceChat", versionAgent, startVoiceChatBody{
		AppID:  appID,
		RoomID: roomID,
		TaskID: taskID,
		Config: cfg,
		AgentConfig: agentConfig{
			TargetUserID: []string{userID},
			UserID:       botID,
		},
	})
}

func (c *Client) StopVoiceChat(ctx context.Context, appID, roomID, taskID string) error {
	_, err := c.call(ctx, "StopVoiceChat", versionAgent, taskBody{AppID: appID, RoomID: roomID, TaskID: taskID})
	return err
}

type banRoomBody struct {
	AppID  string `json:"AppId"`
	RoomID string `json:"RoomId"`
}

// BanRoomUser evicts everyone still connected to the media session. Used
// when the control-plane room is torn down.
func (c *Client) BanRoomUser(ctx context.Context, appID, roomID string) error {
	_, err := c.call(ctx, "BanRoomUser", versionRoomCtl, banRoomBody{AppID: appID, RoomID: roomID})
	return err
}
