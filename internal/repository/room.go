package repository

import (
	"context"

	"github.com/Abhijitam01/drawr/internal/domain"
)

type RoomRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Room, error)
	FindByInviteCode(ctx context.Context, code string) (*domain.Room, error)
	Save(ctx context.Context, room *domain.Room) error
	IsInviteCodeExists(ctx context.Context, code string) (bool, error)
}
