package app

import (
	"math/rand"

	"github.com/solivane/vcmeet/internal/core"
)

const (
	roomIDDigits     = "0123456789"
	roomIDLength     = 8
	roomIDMaxAttempt = 10
)

// UnusedRoomID draws random numeric ids until one is free in the store.
// Bounded attempts; collisions past the bound surface as ErrUpstream.
func (c *Coordinator) UnusedRoomID() (string, error) {
	for i := 0; i < roomIDMaxAttempt; i++ {
		b := make([]byte, roomIDLength)
		for j := range b {
			b[j] = roomIDDigits[rand.Intn(len(roomIDDigits))]
		}
		id := string(b)
		exists, err := c.store.RoomExists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", core.ErrUpstream
}
