// Package editor composes the client side: one loop owns the scene, history,
// camera, gesture controller, render pipeline and sync session.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/camera"
	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
	"github.com/Abhijitam01/drawr/internal/export"
	"github.com/Abhijitam01/drawr/internal/interaction"
	"github.com/Abhijitam01/drawr/internal/render"
	"github.com/Abhijitam01/drawr/internal/scene"
	"github.com/Abhijitam01/drawr/internal/syncclient"
)

// DefaultFrameInterval is roughly one display refresh at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

var ErrDisconnected = errors.New("editor: session disconnected")

// Session is the sync connection the editor talks through.
// *syncclient.Client implements it.
type Session interface {
	interaction.Outbox
	Inbound() <-chan dto.ServerMessage
	SwitchRoom(ctx context.Context, room string) ([]domain.Shape, error)
	Room() string
	Close() error
}

type Options struct {
	Width, Height int
	FrameInterval time.Duration
	HistoryLimit  int
	// Present receives the composited frame after every draw. Optional.
	Present func(image.Image)
}

// Status is the read-only view offered to UI chrome.
type Status struct {
	Room         string
	Tool         interaction.Tool
	State        interaction.State
	ZoomPercent  int
	CanUndo      bool
	CanRedo      bool
	Shapes       int
	Participants []dto.Participant
	LastError    string
}

type Editor struct {
	ctx      context.Context
	session  Session
	store    *scene.Store
	history  *scene.History
	cam      *camera.Camera
	ctl      *interaction.Controller
	pipeline *render.Pipeline
	sched    *render.Scheduler
	presence *syncclient.Presence

	events   chan Event
	interval time.Duration
	present  func(image.Image)
	lastErr  error
	status   atomic.Pointer[Status]
	log      *logrus.Entry
}

func New(session Session, confirmer interaction.Confirmer, opts Options) *Editor {
	if session == nil || confirmer == nil {
		panic("editor.New requires a non-nil Session and Confirmer")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}

	e := &Editor{
		ctx:      context.Background(),
		session:  session,
		store:    scene.NewStore(),
		history:  scene.NewHistory(opts.HistoryLimit),
		cam:      camera.New(),
		pipeline: render.NewPipeline(opts.Width, opts.Height),
		presence: syncclient.NewPresence(),
		events:   make(chan Event, 256),
		interval: opts.FrameInterval,
		present:  opts.Present,
		log:      logrus.WithField("component", "editor"),
	}
	e.sched = render.NewScheduler(e.draw)
	e.ctl = interaction.NewController(interaction.Deps{
		Store:     e.store,
		History:   e.history,
		Camera:    e.cam,
		Outbox:    session,
		Confirmer: confirmer,
		Redrawer:  e.sched,
	})
	e.publish()
	return e
}

// Post queues a UI event for the loop. It blocks while the queue is full.
func (e *Editor) Post(ctx context.Context, ev Event) error {
	select {
	case e.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the latest published UI read-out. Safe from any goroutine.
func (e *Editor) Status() Status {
	return *e.status.Load()
}

// LoadRoom makes room current: it leaves the previous room, joins the new
// one and seeds the scene from the server. A failed fetch leaves an empty
// scene. Call before Run or through an OpenRoom event.
func (e *Editor) LoadRoom(ctx context.Context, room string) {
	shapes, err := e.session.SwitchRoom(ctx, room)
	if err != nil {
		e.log.WithError(err).WithField("room_id", room).Warn("initial scene fetch failed, starting empty")
		e.lastErr = err
		shapes = nil
	}
	e.store.Restore(scene.Snapshot(shapes))
	e.history.Reset(e.store.Snapshot())
	e.presence.Reset()
	e.ctl.SceneReplaced()
	e.cam.Reset()
	e.pipeline.Invalidate()
	e.sched.RenderNow()
	e.publish()
}

// Run processes UI events, inbound frames and frame ticks until ctx ends or
// the session drops. It closes the session on return.
func (e *Editor) Run(ctx context.Context) error {
	e.ctx = ctx
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	defer e.pipeline.Close()
	defer func() {
		if err := e.session.Close(); err != nil {
			e.log.WithError(err).Warn("session close failed")
		}
	}()

	inbound := e.session.Inbound()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-e.events:
			ev.handle(e)
		case msg, ok := <-inbound:
			if !ok {
				return ErrDisconnected
			}
			e.handleInbound(msg)
		case <-ticker.C:
			e.sched.Flush()
			continue
		}
		e.publish()
	}
}

func (e *Editor) handleInbound(msg dto.ServerMessage) {
	effect, err := syncclient.Apply(msg, e.session.Room(), e.store, e.presence)
	if err != nil {
		e.lastErr = err
		e.log.WithError(err).WithField("type", msg.Type).Warn("inbound message not applied")
	}
	switch effect {
	case syncclient.EffectScene:
		e.ctl.SceneChanged()
	case syncclient.EffectPresence:
		e.sched.RequestOverlay()
	}
}

// draw is the scheduler callback.
func (e *Editor) draw(static, interactive bool) {
	edit, editing := e.ctl.TextEdit()
	if static {
		hidden := ""
		if editing {
			hidden = edit.ID
		}
		if _, err := e.pipeline.RenderStatic(e.store.Shapes(), *e.cam, hidden); err != nil {
			e.log.WithError(err).Error("static render failed")
		}
	}
	if interactive {
		if err := e.pipeline.RenderInteractive(e.overlay(edit, editing), *e.cam); err != nil {
			e.log.WithError(err).Error("overlay render failed")
		}
	}
	if e.present != nil {
		e.present(e.pipeline.Composite())
	}
}

func (e *Editor) overlay(edit domain.Shape, editing bool) render.Overlay {
	var ov render.Overlay
	if sel, ok := e.store.Get(e.ctl.Selection()); ok {
		ov.Selection = &sel
	}
	if d, ok := e.ctl.Draft(); ok {
		ov.Draft = &d
	}
	if editing {
		ov.TextEdit = &edit
	}
	for _, c := range e.presence.Cursors() {
		ov.Cursors = append(ov.Cursors, render.Cursor{UserID: c.UserID, Name: c.Name, At: c.At})
	}
	return ov
}

func (e *Editor) export(format ExportFormat, w io.Writer) error {
	shapes := e.store.Shapes()
	switch format {
	case FormatPNG:
		return export.WritePNG(w, shapes, export.Options{})
	case FormatPDF:
		return export.WritePDF(w, shapes, export.Options{})
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
}

func (e *Editor) publish() {
	st := Status{
		Room:         e.session.Room(),
		Tool:         e.ctl.Tool(),
		State:        e.ctl.State(),
		ZoomPercent:  e.cam.ZoomPercent(),
		CanUndo:      e.ctl.CanUndo(),
		CanRedo:      e.ctl.CanRedo(),
		Shapes:       e.store.Len(),
		Participants: e.presence.Roster(),
	}
	if e.lastErr != nil {
		st.LastError = e.lastErr.Error()
	}
	e.status.Store(&st)
}
