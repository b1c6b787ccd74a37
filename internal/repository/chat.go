package repository

import (
	"context"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// ChatRepository stores chat payloads that are not shape operations.
type ChatRepository interface {
	Save(ctx context.Context, msg *domain.ChatMessage) error
}
