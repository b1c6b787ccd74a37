package syncclient

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
	"github.com/Abhijitam01/drawr/internal/scene"
)

// Effect says which part of the client state an inbound message touched.
type Effect int

const (
	EffectNone Effect = iota
	EffectScene
	EffectPresence
	EffectError
)

// ErrServer wraps error frames sent by the server.
var ErrServer = errors.New("syncclient: server rejected message")

// Apply folds one server message into the local scene and presence. It is
// idempotent under echo of the client's own mutations: create upserts,
// update of an absent id and delete of an absent id are no-ops. Frames for
// another room are ignored.
func Apply(msg dto.ServerMessage, room string, store *scene.Store, presence *Presence) (Effect, error) {
	if msg.RoomID != "" && msg.RoomID != room {
		return EffectNone, nil
	}

	switch msg.Type {
	case dto.TypeChat:
		return applyChat(msg.Message, store)
	case dto.TypeCursorMove:
		presence.MoveCursor(msg.UserID, msg.Name, domain.Point{X: msg.X, Y: msg.Y})
		return EffectPresence, nil
	case dto.TypeUserList:
		presence.SetRoster(msg.Users)
		return EffectPresence, nil
	case dto.TypeError:
		return EffectError, fmt.Errorf("%w: %s", ErrServer, msg.Message)
	default:
		logrus.WithField("type", msg.Type).Debug("syncclient: ignoring unknown frame")
		return EffectNone, nil
	}
}

func applyChat(message string, store *scene.Store) (Effect, error) {
	op, err := dto.ParseShapeOp(message)
	if err != nil {
		// free-text chat
		return EffectNone, nil
	}

	switch op.Kind {
	case dto.OpCreate:
		if err := store.Upsert(op.Shape); err != nil {
			return EffectNone, fmt.Errorf("apply create %s: %w", op.Shape.ID, err)
		}
	case dto.OpUpdate:
		if _, err := store.Replace(op.Shape); err != nil {
			return EffectNone, fmt.Errorf("apply update %s: %w", op.Shape.ID, err)
		}
	case dto.OpDelete:
		store.Remove(op.ID)
	case dto.OpClear:
		store.Clear()
	}
	return EffectScene, nil
}
