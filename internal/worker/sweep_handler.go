package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// ActiveRooms reports the rooms that currently have live connections.
// *hub.Hub implements it.
type ActiveRooms interface {
	ActiveRoomIDs() []string
}

// SceneSweeper drops cached scenes of rooms not in active.
// *service.SceneService implements it.
type SceneSweeper interface {
	SweepIdleScenes(ctx context.Context, active []string) (int, error)
}

// SceneSweepHandler runs the periodic TypeSceneCacheSweep task.
type SceneSweepHandler struct {
	rooms  ActiveRooms
	scenes SceneSweeper
}

func NewSceneSweepHandler(rooms ActiveRooms, scenes SceneSweeper) *SceneSweepHandler {
	if rooms == nil || scenes == nil {
		panic("ActiveRooms and SceneSweeper cannot be nil for SceneSweepHandler")
	}
	return &SceneSweepHandler{rooms: rooms, scenes: scenes}
}

// ProcessTask implements asynq.Handler. A failed sweep is not retried; the
// next tick tries again.
func (h *SceneSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := taskLogger(ctx, t)

	active := h.rooms.ActiveRoomIDs()
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := h.scenes.SweepIdleScenes(sweepCtx, active)
	if err != nil {
		logCtx.WithError(err).Error("Scene cache sweep failed")
		return nil
	}
	logCtx.WithFields(logrus.Fields{
		"active_rooms": len(active),
		"removed":      removed,
	}).Info("Scene cache sweep completed")
	return nil
}
