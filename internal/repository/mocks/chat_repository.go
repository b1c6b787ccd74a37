package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// ChatRepository is a testify mock of repository.ChatRepository.
type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	return m.Called(ctx, msg).Error(0)
}
