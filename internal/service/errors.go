package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrInvalidInput         = errors.New("username and password are required")
	ErrInvalidInviteCode    = errors.New("invalid or expired invite code")
	ErrInternalServer       = errors.New("internal server error")
	ErrShapeNotFound        = errors.New("shape not found")
	ErrInvalidShape         = errors.New("invalid shape operation")
	// ErrDegenerateShape marks geometry that is dropped instead of stored:
	// pencil strokes with fewer than two points and empty text.
	ErrDegenerateShape = errors.New("degenerate shape")
	ErrNotRoomMember   = errors.New("not a member of this room")
)
