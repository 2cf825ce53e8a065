// Package http wires the gin router: the signaling endpoint, the provider
// callback endpoint and the meeting-management API.
package http

import (
	"io"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/adapters/rts"
	"github.com/solivane/vcmeet/internal/app"
)

func SetupRouter(mode string, coord *app.Coordinator, dispatcher *rts.Dispatcher, callbacks *rts.CallbackHandler, drift *DriftAPI) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	// The transport does not promise a JSON content type; both endpoints
	// read the raw body and parse it themselves.
	r.POST("/rts/message", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(nethttp.StatusBadRequest)
			return
		}
		c.JSON(nethttp.StatusOK, dispatcher.Handle(c.Request.Context(), body))
	})

	r.POST("/rts/callback", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(nethttp.StatusBadRequest)
			return
		}
		if err := callbacks.Handle(c.Request.Context(), body); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("callback rejected")
		}
		c.String(nethttp.StatusOK, "ok")
	})

	m := &meetingAPI{coord: coord}
	meeting := r.Group("/meeting")
	meeting.POST("/book", m.book)
	meeting.POST("/cancel", m.cancel)
	meeting.POST("/get-my", m.getMy)
	meeting.POST("/check-room", m.checkRoom)
	meeting.POST("/check-user", m.checkUser)
	meeting.POST("/room-id", m.roomID)

	if drift != nil {
		d := r.Group("/drift")
		d.POST("/join", drift.join)
		d.POST("/leave", drift.leave)
	}

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
