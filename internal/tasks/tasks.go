package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// Task type names.
const (
	TypeChatPersist     = "chat:persist"
	TypeSceneCacheSweep = "scene:cache-sweep"
)

// SweepSchedule is the cron spec of the periodic cache sweep.
const SweepSchedule = "@every 5m"

// ChatPersistPayload carries one free-text room message to the worker.
type ChatPersistPayload struct {
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
	UserID    uint      `json:"user_id"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// ChatMessage converts the payload back to the stored model.
func (p ChatPersistPayload) ChatMessage() (domain.ChatMessage, error) {
	id, err := uuid.Parse(p.MessageID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("chat payload message id: %w", err)
	}
	return domain.ChatMessage{
		ID:        id,
		RoomID:    p.RoomID,
		UserID:    p.UserID,
		Message:   p.Message,
		CreatedAt: p.SentAt,
	}, nil
}

// NewChatPersistTask builds the task that stores msg.
func NewChatPersistTask(msg domain.ChatMessage) (*asynq.Task, error) {
	payload, err := json.Marshal(ChatPersistPayload{
		MessageID: msg.ID.String(),
		RoomID:    msg.RoomID,
		UserID:    msg.UserID,
		Message:   msg.Message,
		SentAt:    msg.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat persist payload: %w", err)
	}
	return asynq.NewTask(TypeChatPersist, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// NewSceneCacheSweepTask builds the periodic sweep task. It has no payload.
func NewSceneCacheSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSceneCacheSweep, nil, asynq.MaxRetry(0))
}
