package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// SceneCache is a testify mock of repository.SceneCache.
type SceneCache struct {
	mock.Mock
}

func (m *SceneCache) Get(ctx context.Context, roomID string) ([]domain.Shape, error) {
	args := m.Called(ctx, roomID)
	shapes, _ := args.Get(0).([]domain.Shape)
	return shapes, args.Error(1)
}

func (m *SceneCache) Generation(ctx context.Context, roomID string) (int64, error) {
	args := m.Called(ctx, roomID)
	gen, _ := args.Get(0).(int64)
	return gen, args.Error(1)
}

func (m *SceneCache) Set(ctx context.Context, roomID string, gen int64, shapes []domain.Shape, ttl time.Duration) error {
	return m.Called(ctx, roomID, gen, shapes, ttl).Error(0)
}

func (m *SceneCache) Invalidate(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *SceneCache) CachedRooms(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]string)
	return rooms, args.Error(1)
}
