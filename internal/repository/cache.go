package repository

import (
	"context"
	"time"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// SceneCache holds the full shape list of recently loaded rooms.
//
// Each room carries a generation that Invalidate advances. A loader reads the
// generation before it reads the database and passes it to Set, so a list
// taken before a concurrent write is never stored after that write.
type SceneCache interface {
	// Get returns ErrCacheMiss when the room is not cached.
	Get(ctx context.Context, roomID string) ([]domain.Shape, error)
	// Generation returns the room's current generation, zero if never invalidated.
	Generation(ctx context.Context, roomID string) (int64, error)
	// Set stores shapes for ttl (zero means no expiry) only while the room is
	// still at generation gen; otherwise it returns ErrStaleScene.
	Set(ctx context.Context, roomID string, gen int64, shapes []domain.Shape, ttl time.Duration) error
	Invalidate(ctx context.Context, roomID string) error
	// CachedRooms lists the rooms that currently have a cache entry.
	CachedRooms(ctx context.Context) ([]string, error)
}
