package repository

import "errors"

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means a unique constraint was violated.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
	// ErrKindMismatch means an update tried to change a shape's kind.
	ErrKindMismatch = errors.New("repository: shape kind cannot change")
	// ErrStaleScene means the scene changed after the caller read it.
	ErrStaleScene = errors.New("repository: scene changed since it was read")
)

var (
	ErrUserNotFound  = ErrNotFound
	ErrRoomNotFound  = ErrNotFound
	ErrShapeNotFound = ErrNotFound
	ErrCacheMiss     = ErrNotFound
)
