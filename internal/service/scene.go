package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/repository"
)

// DefaultSceneTTL bounds how long a cached scene may serve reads.
const DefaultSceneTTL = 10 * time.Minute

// SceneService serves the initial full fetch of a room's shapes.
type SceneService struct {
	shapes repository.ShapeRepository
	scenes repository.SceneCache
	ttl    time.Duration
}

func NewSceneService(shapes repository.ShapeRepository, scenes repository.SceneCache, ttl time.Duration) *SceneService {
	if shapes == nil || scenes == nil {
		panic("ShapeRepository and SceneCache must be non-nil for SceneService")
	}
	if ttl <= 0 {
		ttl = DefaultSceneTTL
	}
	return &SceneService{shapes: shapes, scenes: scenes, ttl: ttl}
}

// LoadRoomShapes returns the room's shapes in z-order, reading through the
// cache. Rows that fail to decode are skipped.
func (s *SceneService) LoadRoomShapes(ctx context.Context, roomID string) ([]domain.Shape, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "operation": "LoadRoomShapes"})

	cached, err := s.scenes.Get(ctx, roomID)
	if err == nil {
		logCtx.WithField("count", len(cached)).Debug("Scene cache hit")
		return cached, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		logCtx.WithError(err).Warn("Scene cache read failed, falling back to database")
	}

	// Read before the database so a write landing during the load is detected.
	gen, genErr := s.scenes.Generation(ctx, roomID)
	if genErr != nil {
		logCtx.WithError(genErr).Warn("Scene generation read failed, skipping backfill")
	}

	records, err := s.shapes.ListByRoom(ctx, roomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list room shapes")
		return nil, ErrInternalServer
	}
	shapes := make([]domain.Shape, 0, len(records))
	for i := range records {
		shape, err := records[i].Shape()
		if err != nil {
			logCtx.WithError(err).WithField("shape_id", records[i].ID).Warn("Skipping undecodable shape row")
			continue
		}
		shapes = append(shapes, shape)
	}

	if genErr == nil {
		switch err := s.scenes.Set(ctx, roomID, gen, shapes, s.ttl); {
		case err == nil:
		case errors.Is(err, repository.ErrStaleScene):
			logCtx.Debug("Room changed during load, not caching")
		default:
			logCtx.WithError(err).Warn("Failed to backfill scene cache")
		}
	}
	return shapes, nil
}

// SweepIdleScenes drops cached scenes of rooms not in active and returns how
// many entries were removed.
func (s *SceneService) SweepIdleScenes(ctx context.Context, active []string) (int, error) {
	cachedRooms, err := s.scenes.CachedRooms(ctx)
	if err != nil {
		return 0, err
	}
	live := make(map[string]struct{}, len(active))
	for _, id := range active {
		live[id] = struct{}{}
	}

	removed := 0
	for _, roomID := range cachedRooms {
		if _, ok := live[roomID]; ok {
			continue
		}
		if err := s.scenes.Invalidate(ctx, roomID); err != nil {
			logrus.WithError(err).WithField("room_id", roomID).Warn("Failed to drop idle scene")
			continue
		}
		removed++
	}
	return removed, nil
}
