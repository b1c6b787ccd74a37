package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/repository"
	"github.com/Abhijitam01/drawr/internal/tasks"
)

// ChatPersistenceHandler stores chat messages delivered by TypeChatPersist tasks.
type ChatPersistenceHandler struct {
	chatRepo repository.ChatRepository
}

func NewChatPersistenceHandler(chatRepo repository.ChatRepository) *ChatPersistenceHandler {
	if chatRepo == nil {
		panic("ChatRepository cannot be nil for ChatPersistenceHandler")
	}
	return &ChatPersistenceHandler{chatRepo: chatRepo}
}

// ProcessTask implements asynq.Handler.
func (h *ChatPersistenceHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := taskLogger(ctx, t)

	var payload tasks.ChatPersistPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	msg, err := payload.ChatMessage()
	if err != nil {
		logCtx.WithError(err).Error("Invalid chat payload")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("room_id", msg.RoomID)

	if err := h.chatRepo.Save(ctx, &msg); err != nil {
		logCtx.WithError(err).Error("Failed to save chat message")
		return fmt.Errorf("failed to save chat message %s: %w", msg.ID, err)
	}

	logCtx.Debug("Chat persistence task processed successfully")
	return nil
}

// taskLogger builds the common log fields. The result writer is nil for
// tasks not dispatched by a server, as in tests.
func taskLogger(ctx context.Context, t *asynq.Task) *logrus.Entry {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	return logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})
}
