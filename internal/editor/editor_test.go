package editor_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
	"github.com/Abhijitam01/drawr/internal/editor"
	"github.com/Abhijitam01/drawr/internal/interaction"
)

type fakeSession struct {
	mu       sync.Mutex
	room     string
	switched []string
	created  []domain.Shape
	cursors  int
	closed   bool
	scene    []domain.Shape
	fetchErr error
	inbound  chan dto.ServerMessage
}

func newFakeSession() *fakeSession {
	return &fakeSession{inbound: make(chan dto.ServerMessage, 16)}
}

func (s *fakeSession) Create(sh domain.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, sh)
	return nil
}
func (s *fakeSession) Update(domain.Shape) error { return nil }
func (s *fakeSession) Delete(string) error       { return nil }
func (s *fakeSession) Clear() error              { return nil }
func (s *fakeSession) Cursor(domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors++
	return nil
}
func (s *fakeSession) Inbound() <-chan dto.ServerMessage { return s.inbound }
func (s *fakeSession) SwitchRoom(_ context.Context, room string) ([]domain.Shape, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = room
	s.switched = append(s.switched, room)
	return s.scene, s.fetchErr
}
func (s *fakeSession) Room() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}
func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
func (s *fakeSession) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

type yes struct{}

func (yes) Confirm(string) bool { return true }

func startEditor(t *testing.T, session *fakeSession) (*editor.Editor, context.CancelFunc, chan error) {
	t.Helper()
	ed := editor.New(session, yes{}, editor.Options{Width: 200, Height: 150, FrameInterval: time.Millisecond})
	ed.LoadRoom(context.Background(), "1")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ed.Run(ctx) }()
	return ed, cancel, done
}

func post(t *testing.T, ed *editor.Editor, ev editor.Event) {
	t.Helper()
	require.NoError(t, ed.Post(context.Background(), ev))
}

func pointer(x, y float64) interaction.PointerEvent {
	return interaction.PointerEvent{Screen: domain.Point{X: x, Y: y}}
}

func TestLoadRoom_SeedsSceneAndResetsHistory(t *testing.T) {
	session := newFakeSession()
	session.scene = []domain.Shape{{ID: "a", Style: domain.DefaultStyle(), Geom: domain.Rect{Width: 5, Height: 5}}}
	ed := editor.New(session, yes{}, editor.Options{})

	ed.LoadRoom(context.Background(), "7")

	st := ed.Status()
	assert.Equal(t, "7", st.Room)
	assert.Equal(t, 1, st.Shapes)
	assert.False(t, st.CanUndo)
	assert.Empty(t, st.LastError)
}

func TestLoadRoom_FetchFailureStartsEmpty(t *testing.T) {
	session := newFakeSession()
	session.scene = []domain.Shape{{ID: "a", Style: domain.DefaultStyle(), Geom: domain.Rect{Width: 5, Height: 5}}}
	session.fetchErr = errors.New("connection refused")
	ed := editor.New(session, yes{}, editor.Options{})

	ed.LoadRoom(context.Background(), "7")

	st := ed.Status()
	assert.Equal(t, 0, st.Shapes)
	assert.Contains(t, st.LastError, "connection refused")
}

func TestRun_DrawsAndSendsShape(t *testing.T) {
	session := newFakeSession()
	ed, cancel, done := startEditor(t, session)

	post(t, ed, editor.SelectTool{Tool: interaction.ToolRect})
	post(t, ed, editor.PointerDown{pointer(10, 10)})
	post(t, ed, editor.PointerMove{pointer(60, 40)})
	post(t, ed, editor.PointerUp{pointer(110, 60)})

	require.Eventually(t, func() bool { return ed.Status().Shapes == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, session.createdCount())
	assert.True(t, ed.Status().CanUndo)
	assert.Equal(t, interaction.ToolRect, ed.Status().Tool)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.True(t, session.closed)
}

func TestRun_AppliesRemoteShapesAndPresence(t *testing.T) {
	session := newFakeSession()
	ed, cancel, done := startEditor(t, session)
	defer func() { cancel(); <-done }()

	msg, err := dto.ShapeOp{Kind: dto.OpCreate, Shape: domain.Shape{
		ID: "remote", Style: domain.DefaultStyle(), Geom: domain.Circle{CenterX: 50, CenterY: 50, Radius: 20},
	}}.Encode()
	require.NoError(t, err)
	session.inbound <- dto.ServerMessage{Type: dto.TypeChat, RoomID: "1", Message: msg}
	session.inbound <- dto.ServerMessage{Type: dto.TypeUserList, RoomID: "1", Users: []dto.Participant{{UserID: "2", Name: "bea"}}}

	require.Eventually(t, func() bool {
		st := ed.Status()
		return st.Shapes == 1 && len(st.Participants) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, ed.Status().CanUndo, "remote mutations are not undoable")
}

func TestRun_ErrorFrameSurfaces(t *testing.T) {
	session := newFakeSession()
	ed, cancel, done := startEditor(t, session)
	defer func() { cancel(); <-done }()

	session.inbound <- dto.ServerMessage{Type: dto.TypeError, RoomID: "1", Message: "shape not found"}

	require.Eventually(t, func() bool {
		return ed.Status().LastError != ""
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, ed.Status().LastError, "shape not found")
}

func TestRun_StopsWhenSessionDrops(t *testing.T) {
	session := newFakeSession()
	_, cancel, done := startEditor(t, session)
	defer cancel()

	close(session.inbound)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, editor.ErrDisconnected)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRun_Export(t *testing.T) {
	session := newFakeSession()
	session.scene = []domain.Shape{{ID: "a", Style: domain.DefaultStyle(), Geom: domain.Rect{Width: 50, Height: 30}}}
	ed, cancel, done := startEditor(t, session)
	defer func() { cancel(); <-done }()

	var buf bytes.Buffer
	result := make(chan error, 1)
	post(t, ed, editor.Export{Format: editor.FormatPDF, W: &buf, Done: result})

	require.NoError(t, <-result)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
