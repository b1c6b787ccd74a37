package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// GormChatRepository implements repository.ChatRepository.
type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	if db == nil {
		panic("database connection cannot be nil for GormChatRepository")
	}
	return &GormChatRepository{db: db}
}

// Save inserts msg, assigning an id and timestamp when they are unset.
func (r *GormChatRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		if isDuplicateEntryError(err) {
			// A retried task already stored this message.
			return nil
		}
		return fmt.Errorf("gorm: save chat message in room %s: %w", msg.RoomID, err)
	}
	return nil
}
