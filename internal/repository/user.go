package repository

import (
	"context"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// UserRepository stores accounts.
type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByID returns ErrUserNotFound when no account matches.
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	// Save creates or updates the user. A unique violation is ErrDuplicateEntry.
	Save(ctx context.Context, user *domain.User) error
}
