package interaction

import (
	"time"

	"github.com/Abhijitam01/drawr/internal/domain"
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent carries a screen-space position. A zero Time means "now".
type PointerEvent struct {
	Screen domain.Point
	Button Button
	Time   time.Time
}

// KeyEvent uses DOM-style key names: "a", "Enter", "Escape", " ", "Delete".
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

func (k KeyEvent) command() bool { return k.Ctrl || k.Meta }

// Outbox receives every committed local mutation and cursor move, in order.
type Outbox interface {
	Create(s domain.Shape) error
	Update(s domain.Shape) error
	Delete(id string) error
	Clear() error
	Cursor(p domain.Point) error
}

// Confirmer gates destructive actions behind an explicit user answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Redrawer schedules frames. Request* calls are coalesced to the next tick;
// RenderNow draws synchronously.
type Redrawer interface {
	RequestScene()
	RequestOverlay()
	RenderNow()
}
