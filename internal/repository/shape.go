package repository

import (
	"context"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// ShapeRepository is the persistence gateway for room shapes. Every call is
// scoped to one room.
type ShapeRepository interface {
	// CreateOrReplace inserts the shape. When the id already exists its data is
	// overwritten and its creation time, and so its z-order, is kept.
	CreateOrReplace(ctx context.Context, roomID string, userID uint, shape domain.Shape) error
	// Update replaces the shape by id. It returns ErrShapeNotFound when the id
	// is absent and ErrKindMismatch when the stored kind differs.
	Update(ctx context.Context, roomID string, shape domain.Shape) error
	// Delete is idempotent.
	Delete(ctx context.Context, roomID, shapeID string) error
	DeleteAllInRoom(ctx context.Context, roomID string) error
	// ListByRoom returns the room's records oldest first.
	ListByRoom(ctx context.Context, roomID string) ([]domain.ShapeRecord, error)
}
