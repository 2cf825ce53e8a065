package core

import "context"

// Transport is the outbound real-time-messaging contract. A transport error
// never rolls back an already-committed store mutation; callers log and move
// on.
type Transport interface {
	// SendUnicast delivers message to a single user, in or out of room.
	SendUnicast(ctx context.Context, appID, toUserID, message string) error
	// SendBroadcast delivers message to every user in roomID.
	SendBroadcast(ctx context.Context, appID, roomID, message string) error
}

// TokenProvider issues opaque media-session access tokens. Token format is
// vendor-defined; the coordinator only forwards the value.
type TokenProvider interface {
	RTCToken(userID, roomID string) string
}
