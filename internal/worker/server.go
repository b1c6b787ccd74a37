package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/repository"
	"github.com/Abhijitam01/drawr/internal/tasks"
)

// WorkerServer wraps the asynq server and the periodic scheduler.
type WorkerServer struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	log       *logrus.Entry
}

func NewWorkerServer(redisOpt asynq.RedisClientOpt, chatRepo repository.ChatRepository, rooms ActiveRooms, scenes SceneSweeper, logger *logrus.Logger) *WorkerServer {
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeChatPersist, NewChatPersistenceHandler(chatRepo))
	mux.Handle(tasks.TypeSceneCacheSweep, NewSceneSweepHandler(rooms, scenes))

	return &WorkerServer{
		server:    server,
		scheduler: asynq.NewScheduler(redisOpt, nil),
		mux:       mux,
		log:       logEntry,
	}
}

// Start runs the task server and registers the periodic sweep. It returns
// once both are running.
func (ws *WorkerServer) Start() error {
	if err := ws.server.Start(ws.mux); err != nil {
		if errors.Is(err, asynq.ErrServerClosed) {
			return nil
		}
		return err
	}
	ws.log.Info("Worker server started")

	entryID, err := ws.scheduler.Register(tasks.SweepSchedule, tasks.NewSceneCacheSweepTask(), asynq.Queue("low"))
	if err != nil {
		return err
	}
	if err := ws.scheduler.Start(); err != nil {
		return err
	}
	ws.log.Infof("Periodic scene cache sweep registered with schedule '%s' (EntryID: %s)", tasks.SweepSchedule, entryID)
	return nil
}

func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.scheduler.Shutdown()
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
