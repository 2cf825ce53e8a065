package http

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/solivane/vcmeet/internal/app"
	"github.com/solivane/vcmeet/internal/core"
)

// meetingAPI is the thin CRUD surface over the coordinator. Responses carry
// the status in the body with HTTP 200, the way the clients expect.
type meetingAPI struct {
	coord *app.Coordinator
}

type bookRequest struct {
	AppID        string `json:"app_id"`
	RoomID       string `json:"room_id" binding:"required"`
	HostUserID   string `json:"host_user_id" binding:"required"`
	HostUserName string `json:"host_user_name" binding:"required"`
	RoomName     string `json:"room_name"`
}

type bookResponse struct {
	Code     int    `json:"code"`
	RoomID   string `json:"room_id"`
	RoomName string `json:"room_name"`
	Message  string `json:"message"`
}

func (m *meetingAPI) book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, bookResponse{Code: 400, Message: "invalid request"})
		return
	}
	room, err := m.coord.CreateRoom(req.AppID, req.RoomID, req.HostUserID, req.HostUserName, req.RoomName)
	if err != nil {
		msg := "booking failed"
		if errors.Is(err, core.ErrRoomExists) {
			msg = "meeting already exists"
		}
		c.JSON(nethttp.StatusOK, bookResponse{Code: core.CodeOf(err), RoomID: req.RoomID, RoomName: req.RoomName, Message: msg})
		return
	}
	c.JSON(nethttp.StatusOK, bookResponse{Code: 200, RoomID: room.RoomID, RoomName: room.RoomName, Message: "meeting booked"})
}

type cancelRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

type cancelResponse struct {
	Code    int    `json:"code"`
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

func (m *meetingAPI) cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, cancelResponse{Code: 400, Message: "invalid request"})
		return
	}
	if err := m.coord.CancelMeeting(req.RoomID, req.UserID); err != nil {
		c.JSON(nethttp.StatusOK, cancelResponse{Code: core.CodeOf(err), RoomID: req.RoomID, Message: err.Error()})
		return
	}
	c.JSON(nethttp.StatusOK, cancelResponse{Code: 200, RoomID: req.RoomID, Message: "meeting cancelled"})
}

type getMyRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type getMyResponse struct {
	Code     int                  `json:"code"`
	Meetings []app.MeetingSummary `json:"meetings"`
	Total    int                  `json:"total"`
	Message  string               `json:"message"`
}

func (m *meetingAPI) getMy(c *gin.Context) {
	var req getMyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, getMyResponse{Code: 400, Meetings: []app.MeetingSummary{}, Message: "invalid request"})
		return
	}
	meetings, err := m.coord.UserMeetings(req.UserID)
	if err != nil {
		c.JSON(nethttp.StatusOK, getMyResponse{Code: 500, Meetings: []app.MeetingSummary{}, Message: err.Error()})
		return
	}
	c.JSON(nethttp.StatusOK, getMyResponse{Code: 200, Meetings: meetings, Total: len(meetings), Message: "ok"})
}

type checkRoomRequest struct {
	RoomID string `json:"room_id" binding:"required"`
}

type checkRoomResponse struct {
	Code    int    `json:"code"`
	RoomID  string `json:"room_id"`
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

func (m *meetingAPI) checkRoom(c *gin.Context) {
	var req checkRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, checkRoomResponse{Code: 400, Message: "invalid request"})
		return
	}
	exists, err := m.coord.CheckRoomExists(req.RoomID)
	if err != nil {
		c.JSON(nethttp.StatusOK, checkRoomResponse{Code: 500, RoomID: req.RoomID, Message: err.Error()})
		return
	}
	c.JSON(nethttp.StatusOK, checkRoomResponse{Code: 200, RoomID: req.RoomID, Exists: exists, Message: "ok"})
}

type checkUserRequest struct {
	RoomID string `json:"room_id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

type checkUserResponse struct {
	Code    int    `json:"code"`
	RoomID  string `json:"room_id"`
	UserID  string `json:"user_id"`
	Status  int    `json:"status"` // -1 room absent, 0 not present, 1 present
	Message string `json:"message"`
}

func (m *meetingAPI) checkUser(c *gin.Context) {
	var req checkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, checkUserResponse{Code: 400, Message: "invalid request"})
		return
	}
	presence, err := m.coord.CheckUserInRoom(req.RoomID, req.UserID)
	if err != nil {
		c.JSON(nethttp.StatusOK, checkUserResponse{Code: 500, RoomID: req.RoomID, UserID: req.UserID, Message: err.Error()})
		return
	}
	status := map[app.Presence]int{app.RoomAbsent: -1, app.NotPresent: 0, app.Present: 1}[presence]
	c.JSON(nethttp.StatusOK, checkUserResponse{Code: 200, RoomID: req.RoomID, UserID: req.UserID, Status: status, Message: "ok"})
}

type roomIDResponse struct {
	Code    int    `json:"code"`
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

func (m *meetingAPI) roomID(c *gin.Context) {
	id, err := m.coord.UnusedRoomID()
	if err != nil {
		c.JSON(nethttp.StatusOK, roomIDResponse{Code: 500, Message: "no free room id"})
		return
	}
	c.JSON(nethttp.StatusOK, roomIDResponse{Code: 200, RoomID: id, Message: "ok"})
}
