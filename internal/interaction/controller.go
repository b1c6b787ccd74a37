// Package interaction turns pointer and keyboard input into scene mutations
// and outbound protocol messages.
package interaction

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/camera"
	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/geometry"
	"github.com/Abhijitam01/drawr/internal/scene"
)

const (
	DoubleClickWindow = 300 * time.Millisecond
	// DoubleClickRadius is measured per axis in screen pixels.
	DoubleClickRadius = 5.0

	clearPrompt = "Clear entire canvas?"
)

// Deps are the collaborators of a Controller. NewID defaults to uuid.NewString.
type Deps struct {
	Store     *scene.Store
	History   *scene.History
	Camera    *camera.Camera
	Outbox    Outbox
	Confirmer Confirmer
	Redrawer  Redrawer
	NewID     func() string
	Now       func() time.Time
}

// Controller is the gesture state machine. It is not safe for concurrent use.
type Controller struct {
	store   *scene.Store
	history *scene.History
	cam     *camera.Camera
	out     Outbox
	confirm Confirmer
	redraw  Redrawer
	newID   func() string
	now     func() time.Time

	tool      Tool
	style     domain.Style
	state     State
	selection string
	spaceHeld bool

	// Drawing
	anchor domain.Point
	draft  *domain.Shape

	// Dragging / Resizing
	origin  domain.Shape
	start   domain.Point
	handle  geometry.HandleID
	changed bool

	// Panning
	panLast domain.Point

	// EditingText
	text     *domain.Shape
	textNew  bool
	textBody string

	lastDown   time.Time
	lastDownAt domain.Point
}

func NewController(d Deps) *Controller {
	if d.Store == nil || d.History == nil || d.Camera == nil {
		panic("NewController requires a non-nil Store, History and Camera")
	}
	if d.Outbox == nil || d.Confirmer == nil || d.Redrawer == nil {
		panic("NewController requires a non-nil Outbox, Confirmer and Redrawer")
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Controller{
		store:   d.Store,
		history: d.History,
		cam:     d.Camera,
		out:     d.Outbox,
		confirm: d.Confirmer,
		redraw:  d.Redrawer,
		newID:   d.NewID,
		now:     d.Now,
		tool:    ToolSelect,
		style:   domain.DefaultStyle(),
	}
}

func (c *Controller) Tool() Tool          { return c.tool }
func (c *Controller) State() State        { return c.state }
func (c *Controller) Style() domain.Style { return c.style }
func (c *Controller) Selection() string   { return c.selection }
func (c *Controller) CanUndo() bool       { return c.history.CanUndo() }
func (c *Controller) CanRedo() bool       { return c.history.CanRedo() }

// Draft is the in-progress shape preview while Drawing.
func (c *Controller) Draft() (domain.Shape, bool) {
	if c.draft == nil {
		return domain.Shape{}, false
	}
	return c.draft.Clone(), true
}

// TextEdit returns the text shape being edited with the current buffer as its
// content.
func (c *Controller) TextEdit() (domain.Shape, bool) {
	if c.state != EditingText || c.text == nil {
		return domain.Shape{}, false
	}
	s := c.text.Clone()
	g := s.Geom.(domain.Text)
	g.Content = c.textBody
	s.Geom = g
	return s, true
}

// SetTool switches the active tool. A pending text edit is committed first.
func (c *Controller) SetTool(t Tool) {
	if c.state == EditingText {
		c.CommitText()
	}
	c.tool = t
	if t != ToolSelect && c.selection != "" {
		c.selection = ""
		c.redraw.RequestOverlay()
	}
}

// SetStyle sets the style for new shapes and restyles the selected shape.
func (c *Controller) SetStyle(s domain.Style) {
	c.style = s
	if c.state != Idle || c.selection == "" {
		return
	}
	sel, ok := c.store.Get(c.selection)
	if !ok {
		return
	}
	sel.Style = s
	c.commitReplace(sel)
}

func (c *Controller) PointerDown(ev PointerEvent) {
	if ev.Time.IsZero() {
		ev.Time = c.now()
	}
	double := c.trackClick(ev)

	if c.state == EditingText {
		c.CommitText()
	}
	if ev.Button == ButtonMiddle || c.spaceHeld {
		c.state = Panning
		c.panLast = ev.Screen
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	world := c.cam.ScreenToWorld(ev.Screen)
	switch {
	case c.tool == ToolSelect:
		c.selectAt(world)
	case c.tool == ToolEraser:
		c.eraseAt(world)
	case c.tool == ToolClear:
		c.ClearScene()
	case c.tool == ToolText:
		c.textAt(world, double)
	case c.tool.Draws():
		c.state = Drawing
		c.anchor = world
		c.draft = nil
		if c.tool == ToolPencil {
			c.draft = &domain.Shape{Style: c.style, Geom: domain.Pencil{Points: []domain.Point{world}}}
		}
	}
}

func (c *Controller) PointerMove(ev PointerEvent) {
	world := c.cam.ScreenToWorld(ev.Screen)
	if err := c.out.Cursor(world); err != nil {
		logrus.WithError(err).Debug("interaction: cursor not sent")
	}

	switch c.state {
	case Panning:
		c.cam.PanBy(ev.Screen.X-c.panLast.X, ev.Screen.Y-c.panLast.Y)
		c.panLast = ev.Screen
		c.redraw.RequestScene()
	case Drawing:
		c.draft = c.preview(world)
		c.redraw.RequestOverlay()
	case DraggingSelection:
		c.applyGesture(geometry.Translate(c.origin, world.X-c.start.X, world.Y-c.start.Y))
	case ResizingSelection:
		c.applyGesture(geometry.Resize(c.origin, c.handle, world))
	}
}

func (c *Controller) PointerUp(ev PointerEvent) {
	switch c.state {
	case Panning:
		c.state = Idle
	case Drawing:
		world := c.cam.ScreenToWorld(ev.Screen)
		shape := c.preview(world)
		c.state = Idle
		c.draft = nil
		if shape == nil || shape.IsDegenerate() {
			c.redraw.RequestOverlay()
			return
		}
		shape.ID = c.newID()
		c.commitCreate(*shape)
	case DraggingSelection, ResizingSelection:
		c.state = Idle
		if !c.changed {
			return
		}
		final, ok := c.store.Get(c.origin.ID)
		if !ok {
			c.redraw.RequestScene()
			return
		}
		c.history.Commit(c.store.Snapshot())
		c.send(c.out.Update(final), "update")
		c.redraw.RenderNow()
	}
}

// Wheel zooms toward the pointer.
func (c *Controller) Wheel(screen domain.Point, deltaY float64) {
	c.cam.Wheel(screen, deltaY)
	c.redraw.RequestScene()
}

func (c *Controller) selectAt(world domain.Point) {
	zoom := c.cam.Zoom
	if sel, ok := c.store.Get(c.selection); ok {
		if h, ok := geometry.HandleAt(world, sel, zoom); ok {
			c.beginGesture(ResizingSelection, sel, world)
			c.handle = h
			return
		}
	}
	if hit, ok := c.store.TopmostAt(world, zoom, nil); ok {
		c.selection = hit.ID
		c.beginGesture(DraggingSelection, hit, world)
	} else {
		c.selection = ""
	}
	c.redraw.RequestOverlay()
}

func (c *Controller) beginGesture(s State, origin domain.Shape, world domain.Point) {
	c.state = s
	c.origin = origin
	c.start = world
	c.changed = false
}

// applyGesture writes a shape derived from the gesture origin into the scene.
// If the shape vanished remotely the gesture is abandoned.
func (c *Controller) applyGesture(next domain.Shape) {
	ok, err := c.store.Replace(next)
	if err != nil || !ok {
		c.state = Idle
		c.selection = ""
		c.redraw.RequestScene()
		return
	}
	c.changed = true
	c.redraw.RequestScene()
}

// cancelGesture puts the shape back as it was when the gesture began. Nothing
// is committed or sent.
func (c *Controller) cancelGesture() {
	if c.changed {
		if _, err := c.store.Replace(c.origin); err != nil {
			logrus.WithError(err).WithField("shape_id", c.origin.ID).Warn("interaction: gesture not reverted")
		}
	}
	c.state = Idle
	c.changed = false
	c.redraw.RequestScene()
}

func (c *Controller) eraseAt(world domain.Point) {
	hit, ok := c.store.TopmostAt(world, c.cam.Zoom, nil)
	if !ok {
		return
	}
	c.commitRemove(hit.ID)
}

func isText(s domain.Shape) bool { return s.Kind() == domain.KindText }

func (c *Controller) textAt(world domain.Point, double bool) {
	if double {
		if hit, ok := c.store.TopmostAt(c.cam.ScreenToWorld(c.lastDownAt), c.cam.Zoom, isText); ok {
			c.beginText(hit, false)
			return
		}
	}
	c.beginText(domain.Shape{
		ID:    c.newID(),
		Style: c.style,
		Geom:  domain.Text{X: world.X, Y: world.Y},
	}, true)
}

func (c *Controller) beginText(s domain.Shape, isNew bool) {
	c.state = EditingText
	c.text = &s
	c.textNew = isNew
	c.textBody = s.Geom.(domain.Text).Content
	c.selection = ""
	c.redraw.RequestOverlay()
}

// UpdateTextDraft replaces the edit buffer.
func (c *Controller) UpdateTextDraft(body string) {
	if c.state != EditingText {
		return
	}
	c.textBody = body
	c.redraw.RequestOverlay()
}

// CommitText ends the text edit. Empty text never reaches the scene: a new
// draft is dropped and an existing shape is deleted.
func (c *Controller) CommitText() {
	edited, ok := c.TextEdit()
	if !ok {
		return
	}
	isNew, original := c.textNew, *c.text
	c.endText()

	switch {
	case isNew && edited.IsDegenerate():
		c.redraw.RequestOverlay()
	case isNew:
		c.commitCreate(edited)
	case edited.IsDegenerate():
		c.commitRemove(edited.ID)
	case edited.Geom != original.Geom:
		if !c.store.Has(edited.ID) {
			c.redraw.RequestOverlay()
			return
		}
		c.commitReplace(edited)
	default:
		c.redraw.RequestOverlay()
	}
}

// CancelText discards the edit buffer.
func (c *Controller) CancelText() {
	if c.state != EditingText {
		return
	}
	c.endText()
	c.redraw.RequestOverlay()
}

func (c *Controller) endText() {
	c.state = Idle
	c.text = nil
	c.textNew = false
	c.textBody = ""
}

// ClearScene empties the room after the user confirms.
func (c *Controller) ClearScene() {
	if !c.confirm.Confirm(clearPrompt) {
		return
	}
	c.store.Clear()
	c.selection = ""
	c.history.Commit(c.store.Snapshot())
	c.send(c.out.Clear(), "clear")
	c.redraw.RenderNow()
}

// DeleteSelection removes the selected shape.
func (c *Controller) DeleteSelection() {
	if c.selection == "" || c.state != Idle {
		return
	}
	c.commitRemove(c.selection)
}

// Undo restores the previous local snapshot. It sends nothing.
func (c *Controller) Undo() {
	if c.state != Idle {
		return
	}
	if snap, ok := c.history.Undo(); ok {
		c.restore(snap)
	}
}

func (c *Controller) Redo() {
	if c.state != Idle {
		return
	}
	if snap, ok := c.history.Redo(); ok {
		c.restore(snap)
	}
}

func (c *Controller) restore(snap scene.Snapshot) {
	c.store.Restore(snap)
	if !c.store.Has(c.selection) {
		c.selection = ""
	}
	c.redraw.RenderNow()
}

// SceneReplaced drops local state tied to the previous scene, as on a room
// switch.
func (c *Controller) SceneReplaced() {
	c.state = Idle
	c.selection = ""
	c.draft = nil
	c.endText()
}

// SceneChanged reconciles local state after a remote mutation.
func (c *Controller) SceneChanged() {
	if c.selection != "" && !c.store.Has(c.selection) {
		c.selection = ""
		if c.state == DraggingSelection || c.state == ResizingSelection {
			c.state = Idle
		}
	}
	c.redraw.RequestScene()
}

func (c *Controller) KeyDown(k KeyEvent) {
	if c.state == EditingText {
		switch {
		case k.Key == "Enter" && !k.Shift:
			c.CommitText()
		case k.Key == "Escape":
			c.CancelText()
		}
		return
	}

	if k.command() {
		switch k.Key {
		case "z", "Z":
			if k.Shift {
				c.Redo()
			} else {
				c.Undo()
			}
		case "y", "Y":
			c.Redo()
		}
		return
	}

	switch k.Key {
	case " ":
		c.spaceHeld = true
	case "Delete", "Backspace":
		c.DeleteSelection()
	case "Escape":
		switch c.state {
		case Drawing:
			c.state = Idle
			c.draft = nil
		case DraggingSelection, ResizingSelection:
			c.cancelGesture()
		}
		c.selection = ""
		c.redraw.RequestOverlay()
	default:
		if t, ok := ToolForKey(k.Key); ok && c.state == Idle {
			c.SetTool(t)
		}
	}
}

func (c *Controller) KeyUp(k KeyEvent) {
	if k.Key == " " {
		c.spaceHeld = false
	}
}

func (c *Controller) commitCreate(s domain.Shape) {
	if err := c.store.Append(s); err != nil {
		logrus.WithError(err).WithField("shape_id", s.ID).Warn("interaction: shape not added")
		return
	}
	c.history.Commit(c.store.Snapshot())
	c.send(c.out.Create(s), "create")
	c.redraw.RenderNow()
}

func (c *Controller) commitReplace(s domain.Shape) {
	if ok, err := c.store.Replace(s); err != nil || !ok {
		return
	}
	c.history.Commit(c.store.Snapshot())
	c.send(c.out.Update(s), "update")
	c.redraw.RenderNow()
}

func (c *Controller) commitRemove(id string) {
	c.store.Remove(id)
	if c.selection == id {
		c.selection = ""
	}
	c.history.Commit(c.store.Snapshot())
	c.send(c.out.Delete(id), "delete")
	c.redraw.RenderNow()
}

func (c *Controller) send(err error, op string) {
	if err != nil {
		logrus.WithError(err).WithField("operation", op).Warn("interaction: outbound message dropped")
	}
}

// trackClick reports whether ev completes a double click with the previous
// pointer-down.
func (c *Controller) trackClick(ev PointerEvent) bool {
	double := !c.lastDown.IsZero() &&
		ev.Time.Sub(c.lastDown) < DoubleClickWindow &&
		math.Abs(ev.Screen.X-c.lastDownAt.X) < DoubleClickRadius &&
		math.Abs(ev.Screen.Y-c.lastDownAt.Y) < DoubleClickRadius
	if double {
		c.lastDown = time.Time{}
		return true
	}
	c.lastDown = ev.Time
	c.lastDownAt = ev.Screen
	return false
}

// preview builds the candidate shape for the drawing tool from the anchor to
// world. The result has no id.
func (c *Controller) preview(world domain.Point) *domain.Shape {
	a := c.anchor
	var g domain.Geometry
	switch c.tool {
	case ToolRect:
		g = domain.Rect{X: a.X, Y: a.Y, Width: world.X - a.X, Height: world.Y - a.Y}
	case ToolDiamond:
		g = domain.Diamond{X: a.X, Y: a.Y, Width: world.X - a.X, Height: world.Y - a.Y}
	case ToolCircle:
		g = domain.Circle{CenterX: a.X, CenterY: a.Y, Radius: math.Hypot(world.X-a.X, world.Y-a.Y)}
	case ToolArrow:
		g = domain.Arrow{StartX: a.X, StartY: a.Y, EndX: world.X, EndY: world.Y}
	case ToolLine:
		g = domain.Line{StartX: a.X, StartY: a.Y, EndX: world.X, EndY: world.Y}
	case ToolPencil:
		var pts []domain.Point
		if c.draft != nil {
			pts = c.draft.Geom.(domain.Pencil).Points
		}
		if n := len(pts); n == 0 || pts[n-1] != world {
			pts = append(pts, world)
		}
		g = domain.Pencil{Points: pts}
	default:
		return nil
	}
	return &domain.Shape{Style: c.style, Geom: g}
}
