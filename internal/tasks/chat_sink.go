package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/domain"
)

// Enqueuer is the subset of *asynq.Client the sink needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueChatSink stores chat messages by enqueueing a TypeChatPersist task.
type QueueChatSink struct {
	client Enqueuer
	queue  string
}

func NewQueueChatSink(client Enqueuer, queue string) *QueueChatSink {
	if client == nil {
		panic("asynq client cannot be nil for QueueChatSink")
	}
	if queue == "" {
		queue = "default"
	}
	return &QueueChatSink{client: client, queue: queue}
}

func (s *QueueChatSink) Persist(ctx context.Context, msg domain.ChatMessage) error {
	task, err := NewChatPersistTask(msg)
	if err != nil {
		return err
	}
	// The message id doubles as the task id so a retried enqueue is rejected
	// instead of storing the message twice.
	info, err := s.client.EnqueueContext(ctx, task, asynq.Queue(s.queue), asynq.TaskID(msg.ID.String()))
	if err != nil {
		return fmt.Errorf("enqueue chat persist for room %s: %w", msg.RoomID, err)
	}
	logrus.WithFields(logrus.Fields{
		"room_id": msg.RoomID,
		"task_id": info.ID,
		"queue":   info.Queue,
	}).Debug("Chat persistence task enqueued")
	return nil
}
