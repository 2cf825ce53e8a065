package rts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog/log"

	"github.com/solivane/vcmeet/internal/core"
	"github.com/solivane/vcmeet/internal/domain"
)

// Informer pushes inform envelopes to room members. Sends run on a bounded
// worker pool so a slow vendor call never stalls the request path; failures
// are logged and never roll back the state change that triggered them.
type Informer struct {
	transport core.Transport
	pool      *workerpool.WorkerPool
	now       func() int64
}

func NewInformer(transport core.Transport, workers int) *Informer {
	if workers <= 0 {
		workers = 16
	}
	return &Informer{
		transport: transport,
		pool:      workerpool.New(workers),
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// Stop drains queued sends. Call on shutdown.
func (i *Informer) Stop() {
	i.pool.StopWait()
}

func (i *Informer) encode(event InformEvent, data any) (string, bool) {
	raw, err := json.Marshal(&Inform{
		MessageType: "inform",
		Event:       event,
		Data:        data,
		Timestamp:   i.now(),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.rts").Str("event", string(event)).Msg("encode inform")
		return "", false
	}
	return string(raw), true
}

// Unicast informs a single user.
func (i *Informer) Unicast(appID, toUserID string, event InformEvent, data any) {
	if toUserID == "" {
		return
	}
	msg, ok := i.encode(event, data)
	if !ok {
		return
	}
	i.pool.Submit(func() {
		if err := i.transport.SendUnicast(context.Background(), appID, toUserID, msg); err != nil {
			log.Error().Err(err).Str("module", "adapters.rts").Str("event", string(event)).
				Str("to", toUserID).Msg("inform unicast failed")
		}
	})
}

// FanOut informs every member except the acting user and non-human
// participants. Nothing is sent when the actor had no peers.
func (i *Informer) FanOut(appID string, members []*domain.Member, excludeUserID string, event InformEvent, data any) {
	msg, ok := i.encode(event, data)
	if !ok {
		return
	}
	for _, m := range members {
		if m.UserID == excludeUserID || !m.IsHuman() {
			continue
		}
		to := m.UserID
		i.pool.Submit(func() {
			if err := i.transport.SendUnicast(context.Background(), appID, to, msg); err != nil {
				log.Error().Err(err).Str("module", "adapters.rts").Str("event", string(event)).
					Str("to", to).Msg("inform unicast failed")
			}
		})
	}
}

// Broadcast informs everyone still subscribed to the room channel. Used for
// room teardown where the member list is already gone.
func (i *Informer) Broadcast(appID, roomID string, event InformEvent, data any) {
	msg, ok := i.encode(event, data)
	if !ok {
		return
	}
	i.pool.Submit(func() {
		if err := i.transport.SendBroadcast(context.Background(), appID, roomID, msg); err != nil {
			log.Error().Err(err).Str("module", "adapters.rts").Str("event", string(event)).
				Str("room", roomID).Msg("inform broadcast failed")
		}
	})
}
