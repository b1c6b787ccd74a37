package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// ShapeRepository is a testify mock of repository.ShapeRepository.
type ShapeRepository struct {
	mock.Mock
}

func (m *ShapeRepository) CreateOrReplace(ctx context.Context, roomID string, userID uint, shape domain.Shape) error {
	return m.Called(ctx, roomID, userID, shape).Error(0)
}

func (m *ShapeRepository) Update(ctx context.Context, roomID string, shape domain.Shape) error {
	return m.Called(ctx, roomID, shape).Error(0)
}

func (m *ShapeRepository) Delete(ctx context.Context, roomID, shapeID string) error {
	return m.Called(ctx, roomID, shapeID).Error(0)
}

func (m *ShapeRepository) DeleteAllInRoom(ctx context.Context, roomID string) error {
	return m.Called(ctx, roomID).Error(0)
}

func (m *ShapeRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.ShapeRecord, error) {
	args := m.Called(ctx, roomID)
	records, _ := args.Get(0).([]domain.ShapeRecord)
	return records, args.Error(1)
}
