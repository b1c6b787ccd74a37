package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
	"github.com/Abhijitam01/drawr/internal/repository"
)

// ChatSink stores free-text room messages. The production sink enqueues a
// background task; tests and tools may write straight to a repository.
type ChatSink interface {
	Persist(ctx context.Context, msg domain.ChatMessage) error
}

// OutcomeKind says how a chat payload was handled.
type OutcomeKind int

const (
	OutcomeShapeOp OutcomeKind = iota + 1
	OutcomeChat
)

// ChatOutcome describes a successfully handled chat payload.
type ChatOutcome struct {
	Kind OutcomeKind
	Op   dto.ShapeOp // set when Kind is OutcomeShapeOp
}

// CollaborationService applies the chat envelope's payload: shape operations
// go to the persistence gateway, anything else is stored as chat.
type CollaborationService struct {
	shapes repository.ShapeRepository
	scenes repository.SceneCache
	chats  ChatSink
	now    func() time.Time
}

func NewCollaborationService(shapes repository.ShapeRepository, scenes repository.SceneCache, chats ChatSink) *CollaborationService {
	if shapes == nil || scenes == nil || chats == nil {
		panic("ShapeRepository, SceneCache and ChatSink must be non-nil for CollaborationService")
	}
	return &CollaborationService{shapes: shapes, scenes: scenes, chats: chats, now: time.Now}
}

// HandleChat persists message for roomID. It returns only after the write
// completed, so callers can broadcast on success. Degenerate shapes return
// ErrDegenerateShape and are not stored.
func (s *CollaborationService) HandleChat(ctx context.Context, roomID string, userID uint, message string) (ChatOutcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":   roomID,
		"user_id":   userID,
		"operation": "HandleChat",
	})

	op, err := dto.ParseShapeOp(message)
	if err != nil {
		logCtx.WithError(err).Debug("Payload is not a shape op, storing as chat")
		msg := domain.ChatMessage{
			ID:        uuid.New(),
			RoomID:    roomID,
			UserID:    userID,
			Message:   message,
			CreatedAt: s.now().UTC(),
		}
		if err := s.chats.Persist(ctx, msg); err != nil {
			logCtx.WithError(err).Error("Failed to persist chat message")
			return ChatOutcome{}, ErrInternalServer
		}
		return ChatOutcome{Kind: OutcomeChat}, nil
	}

	logCtx = logCtx.WithFields(logrus.Fields{"op": op.Kind, "shape_id": op.TargetID()})
	if err := s.applyShapeOp(ctx, roomID, userID, op); err != nil {
		switch {
		case errors.Is(err, ErrDegenerateShape):
			logCtx.Debug("Dropping degenerate shape")
		case errors.Is(err, ErrShapeNotFound), errors.Is(err, ErrInvalidShape):
			logCtx.WithError(err).Warn("Shape op rejected")
		default:
			logCtx.WithError(err).Error("Shape op failed")
		}
		return ChatOutcome{}, err
	}

	if err := s.scenes.Invalidate(ctx, roomID); err != nil {
		// The entry expires on its own; a stale read is bounded by the TTL.
		logCtx.WithError(err).Warn("Failed to invalidate scene cache")
	}
	logCtx.Debug("Shape op persisted")
	return ChatOutcome{Kind: OutcomeShapeOp, Op: op}, nil
}

func (s *CollaborationService) applyShapeOp(ctx context.Context, roomID string, userID uint, op dto.ShapeOp) error {
	var err error
	switch op.Kind {
	case dto.OpCreate:
		if op.Shape.IsDegenerate() {
			return ErrDegenerateShape
		}
		err = s.shapes.CreateOrReplace(ctx, roomID, userID, op.Shape)
	case dto.OpUpdate:
		if op.Shape.IsDegenerate() {
			return ErrDegenerateShape
		}
		err = s.shapes.Update(ctx, roomID, op.Shape)
	case dto.OpDelete:
		err = s.shapes.Delete(ctx, roomID, op.ID)
	case dto.OpClear:
		err = s.shapes.DeleteAllInRoom(ctx, roomID)
	default:
		return ErrInvalidShape
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrShapeNotFound):
		return ErrShapeNotFound
	case errors.Is(err, repository.ErrKindMismatch):
		return ErrInvalidShape
	default:
		return errors.Join(ErrInternalServer, err)
	}
}
