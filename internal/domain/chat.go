package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a free-text room message, stored when a chat payload is not a
// shape operation.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	RoomID    string    `gorm:"index;size:64;not null"`
	UserID    uint      `gorm:"index;not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (ChatMessage) TableName() string { return "chats" }
