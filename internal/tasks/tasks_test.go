package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/tasks"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Queue: "default", Type: task.Type()}, nil
}

func TestNewChatPersistTask_PayloadRoundTrip(t *testing.T) {
	msg := domain.ChatMessage{
		ID:        uuid.New(),
		RoomID:    "4",
		UserID:    2,
		Message:   "hi",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	task, err := tasks.NewChatPersistTask(msg)
	require.NoError(t, err)
	assert.Equal(t, tasks.TypeChatPersist, task.Type())

	var payload tasks.ChatPersistPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	back, err := payload.ChatMessage()
	require.NoError(t, err)
	assert.Equal(t, msg.ID, back.ID)
	assert.Equal(t, msg.Message, back.Message)
	assert.True(t, msg.CreatedAt.Equal(back.CreatedAt))
}

func TestQueueChatSink_Persist(t *testing.T) {
	client := &fakeEnqueuer{}
	sink := tasks.NewQueueChatSink(client, "")

	err := sink.Persist(context.Background(), domain.ChatMessage{ID: uuid.New(), RoomID: "1", Message: "yo"})

	require.NoError(t, err)
	require.Len(t, client.tasks, 1)
	assert.Equal(t, tasks.TypeChatPersist, client.tasks[0].Type())
}

func TestQueueChatSink_EnqueueFailure(t *testing.T) {
	sink := tasks.NewQueueChatSink(&fakeEnqueuer{err: errors.New("redis down")}, "low")

	err := sink.Persist(context.Background(), domain.ChatMessage{ID: uuid.New(), RoomID: "1"})

	assert.ErrorContains(t, err, "redis down")
}

func TestNewSceneCacheSweepTask(t *testing.T) {
	assert.Equal(t, tasks.TypeSceneCacheSweep, tasks.NewSceneCacheSweepTask().Type())
}
