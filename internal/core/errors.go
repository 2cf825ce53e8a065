package core

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrMemberNotFound   = errors.New("member not in room")
	ErrRoomExists       = errors.New("room already exists")
	ErrPermissionDenied = errors.New("host permission required")
	ErrRoomOccupied     = errors.New("meeting has members present")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUpstream         = errors.New("upstream call failed")
)

// CodeOf maps the error taxonomy to the numeric reply codes clients expect.
func CodeOf(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrMemberNotFound):
		return 404
	case errors.Is(err, ErrRoomExists), errors.Is(err, ErrInvalidRequest):
		return 400
	case errors.Is(err, ErrPermissionDenied):
		return 403
	case errors.Is(err, ErrRoomOccupied):
		return 409
	default:
		return 500
	}
}
