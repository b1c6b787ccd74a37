package editor

import (
	"io"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/interaction"
)

// Event is a UI input handled on the editor loop.
type Event interface {
	handle(e *Editor)
}

type PointerDown struct{ interaction.PointerEvent }
type PointerMove struct{ interaction.PointerEvent }
type PointerUp struct{ interaction.PointerEvent }
type KeyDown struct{ interaction.KeyEvent }
type KeyUp struct{ interaction.KeyEvent }

type Wheel struct {
	Screen domain.Point
	DeltaY float64
}

// TextInput replaces the buffer of the text being edited.
type TextInput struct{ Body string }

// TextBlur commits the text being edited.
type TextBlur struct{}

type SelectTool struct{ Tool interaction.Tool }
type ChangeStyle struct{ Style domain.Style }
type Undo struct{}
type Redo struct{}

type Resize struct{ Width, Height int }

// OpenRoom switches the session to another room.
type OpenRoom struct{ Room string }

type ExportFormat string

const (
	FormatPNG ExportFormat = "png"
	FormatPDF ExportFormat = "pdf"
)

// Export writes the current scene to W and reports the result on Done.
type Export struct {
	Format ExportFormat
	W      io.Writer
	Done   chan<- error
}

func (ev PointerDown) handle(e *Editor) { e.ctl.PointerDown(ev.PointerEvent) }
func (ev PointerMove) handle(e *Editor) { e.ctl.PointerMove(ev.PointerEvent) }
func (ev PointerUp) handle(e *Editor)   { e.ctl.PointerUp(ev.PointerEvent) }
func (ev KeyDown) handle(e *Editor)     { e.ctl.KeyDown(ev.KeyEvent) }
func (ev KeyUp) handle(e *Editor)       { e.ctl.KeyUp(ev.KeyEvent) }
func (ev Wheel) handle(e *Editor)       { e.ctl.Wheel(ev.Screen, ev.DeltaY) }
func (ev TextInput) handle(e *Editor)   { e.ctl.UpdateTextDraft(ev.Body) }
func (TextBlur) handle(e *Editor)       { e.ctl.CommitText() }
func (ev SelectTool) handle(e *Editor)  { e.ctl.SetTool(ev.Tool) }
func (ev ChangeStyle) handle(e *Editor) { e.ctl.SetStyle(ev.Style) }
func (Undo) handle(e *Editor)           { e.ctl.Undo() }
func (Redo) handle(e *Editor)           { e.ctl.Redo() }

func (ev Resize) handle(e *Editor) {
	e.pipeline.Resize(ev.Width, ev.Height)
	e.sched.RenderNow()
}

func (ev OpenRoom) handle(e *Editor) { e.LoadRoom(e.ctx, ev.Room) }

func (ev Export) handle(e *Editor) {
	err := e.export(ev.Format, ev.W)
	if ev.Done != nil {
		ev.Done <- err
	}
}
