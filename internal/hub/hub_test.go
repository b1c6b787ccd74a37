package hub_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
	"github.com/Abhijitam01/drawr/internal/hub"
	"github.com/Abhijitam01/drawr/internal/service"
)

// memoryCollab keeps live shape ids per room, like the persistence gateway.
type memoryCollab struct {
	mu     sync.Mutex
	shapes map[string]map[string]bool
	chats  []string
}

func newMemoryCollab() *memoryCollab {
	return &memoryCollab{shapes: make(map[string]map[string]bool)}
}

func (m *memoryCollab) HandleChat(_ context.Context, roomID string, _ uint, message string) (service.ChatOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, err := dto.ParseShapeOp(message)
	if err != nil {
		m.chats = append(m.chats, message)
		return service.ChatOutcome{Kind: service.OutcomeChat}, nil
	}
	room := m.shapes[roomID]
	if room == nil {
		room = make(map[string]bool)
		m.shapes[roomID] = room
	}
	switch op.Kind {
	case dto.OpCreate:
		if op.Shape.IsDegenerate() {
			return service.ChatOutcome{}, service.ErrDegenerateShape
		}
		room[op.Shape.ID] = true
	case dto.OpUpdate:
		if !room[op.Shape.ID] {
			return service.ChatOutcome{}, service.ErrShapeNotFound
		}
	case dto.OpDelete:
		delete(room, op.ID)
	case dto.OpClear:
		m.shapes[roomID] = make(map[string]bool)
	}
	return service.ChatOutcome{Kind: service.OutcomeShapeOp, Op: op}, nil
}

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func startServer(t *testing.T) (*hub.Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := hub.NewHub(newMemoryCollab())
	go h.Run()

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Query("user"), 10, 64)
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := hub.NewClient(h, conn, uint(id), c.Query("name"))
		h.Register(client)
		client.Run()
	})
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		h.Shutdown()
		srv.Close()
	})
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, userID int, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=" + strconv.Itoa(userID) + "&name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, env dto.ClientEnvelope) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(env))
}

// readUntil skips frames until one matches typ and pred.
func readUntil(t *testing.T, conn *websocket.Conn, typ string, pred func(dto.ServerMessage) bool) dto.ServerMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var msg dto.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg), "waiting for %s", typ)
		if msg.Type == typ && (pred == nil || pred(msg)) {
			return msg
		}
	}
}

// expectSilence asserts no frame of type typ arrives within d.
func expectSilence(t *testing.T, conn *websocket.Conn, typ string, d time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(d)))
	for {
		var msg dto.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		assert.NotEqual(t, typ, msg.Type, "unexpected %s frame: %+v", typ, msg)
	}
}

func rosterSize(n int) func(dto.ServerMessage) bool {
	return func(m dto.ServerMessage) bool { return len(m.Users) == n }
}

func joinBoth(t *testing.T, srv *httptest.Server, room string) (*websocket.Conn, *websocket.Conn) {
	alice := dial(t, srv, 1, "alice")
	bob := dial(t, srv, 2, "bob")
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: room})
	readUntil(t, alice, dto.TypeUserList, rosterSize(1))
	send(t, bob, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: room})
	readUntil(t, alice, dto.TypeUserList, rosterSize(2))
	readUntil(t, bob, dto.TypeUserList, rosterSize(2))
	return alice, bob
}

func rectOp(t *testing.T, kind dto.OpKind, id string) string {
	t.Helper()
	op := dto.ShapeOp{Kind: kind, Shape: domain.Shape{
		ID:    id,
		Style: domain.DefaultStyle(),
		Geom:  domain.Rect{X: 10, Y: 20, Width: 30, Height: 40},
	}}
	s, err := op.Encode()
	require.NoError(t, err)
	return s
}

func TestHub_JoinBroadcastsUserList(t *testing.T) {
	// Arrange
	_, srv := startServer(t)

	// Act
	alice, _ := joinBoth(t, srv, "7")
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: "7"})

	// Assert
	msg := readUntil(t, alice, dto.TypeUserList, nil)
	assert.Equal(t, "7", msg.RoomID)
	assert.Equal(t, []dto.Participant{{UserID: "1", Name: "alice"}, {UserID: "2", Name: "bob"}}, msg.Users)
}

func TestHub_ShapeCreateIsEchoedToAllMembers(t *testing.T) {
	// Arrange
	_, srv := startServer(t)
	alice, bob := joinBoth(t, srv, "1")
	payload := rectOp(t, dto.OpCreate, "s1")

	// Act
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeChat, RoomID: "1", Message: payload})

	// Assert
	got := readUntil(t, bob, dto.TypeChat, nil)
	assert.Equal(t, payload, got.Message)
	assert.Equal(t, "1", got.RoomID)
	echo := readUntil(t, alice, dto.TypeChat, nil)
	assert.Equal(t, payload, echo.Message)

	op, err := dto.ParseShapeOp(got.Message)
	require.NoError(t, err)
	assert.Equal(t, domain.Rect{X: 10, Y: 20, Width: 30, Height: 40}, op.Shape.Geom)
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	// Arrange
	_, srv := startServer(t)
	alice := dial(t, srv, 1, "alice")
	carol := dial(t, srv, 3, "carol")
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: "1"})
	readUntil(t, alice, dto.TypeUserList, nil)
	send(t, carol, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: "2"})
	readUntil(t, carol, dto.TypeUserList, nil)

	// Act
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeChat, RoomID: "1", Message: rectOp(t, dto.OpCreate, "a")})
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeCursorMove, RoomID: "1", X: 5, Y: 6})

	// Assert
	readUntil(t, alice, dto.TypeChat, nil)
	expectSilence(t, carol, dto.TypeChat, 200*time.Millisecond)
}

func TestHub_UpdateAfterDeleteErrorsOnlyToSender(t *testing.T) {
	// Arrange
	_, srv := startServer(t)
	alice, bob := joinBoth(t, srv, "1")
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeChat, RoomID: "1", Message: rectOp(t, dto.OpCreate, "s1")})
	readUntil(t, bob, dto.TypeChat, nil)
	del, err := dto.ShapeOp{Kind: dto.OpDelete, ID: "s1"}.Encode()
	require.NoError(t, err)
	send(t, bob, dto.ClientEnvelope{Type: dto.TypeChat, RoomID: "1", Message: del})
	readUntil(t, alice, dto.TypeChat, func(m dto.ServerMessage) bool { return m.Message == del })
	readUntil(t, bob, dto.TypeChat, func(m dto.ServerMessage) bool { return m.Message == del })

	// Act
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeChat, RoomID: "1", Message: rectOp(t, dto.OpUpdate, "s1")})

	// Assert
	errMsg := readUntil(t, alice, dto.TypeError, nil)
	assert.Equal(t, service.ErrShapeNotFound.Error(), errMsg.Message)
	assert.Equal(t, "1", errMsg.RoomID)
	expectSilence(t, bob, dto.TypeError, 200*time.Millisecond)
}

func TestHub_DegenerateShapeIsDroppedSilently(t *testing.T) {
	_, srv := startServer(t)
	alice, bob := joinBoth(t, srv, "1")
	op, err := dto.ShapeOp{Kind: dto.OpCreate, Shape: domain.Shape{
		ID: "p", Style: domain.DefaultStyle(), Geom: domain.Pencil{Points: []domain.Point{{X: 1, Y: 1}}},
	}}.Encode()
	require.NoError(t, err)

	send(t, alice, dto.ClientEnvelope{Type: dto.TypeChat, RoomID: "1", Message: op})

	expectSilence(t, bob, dto.TypeChat, 200*time.Millisecond)
	expectSilence(t, alice, dto.TypeError, 100*time.Millisecond)
}

func TestHub_CursorGoesToOthersOnly(t *testing.T) {
	// Arrange
	_, srv := startServer(t)
	alice, bob := joinBoth(t, srv, "1")

	// Act
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeCursorMove, RoomID: "1", X: 12.5, Y: -4})

	// Assert
	msg := readUntil(t, bob, dto.TypeCursorMove, nil)
	assert.Equal(t, "1", msg.UserID)
	assert.Equal(t, "alice", msg.Name)
	assert.Equal(t, 12.5, msg.X)
	assert.Equal(t, -4.0, msg.Y)
	expectSilence(t, alice, dto.TypeCursorMove, 200*time.Millisecond)
}

func TestHub_NonMemberChatIsRejected(t *testing.T) {
	_, srv := startServer(t)
	alice := dial(t, srv, 1, "alice")

	send(t, alice, dto.ClientEnvelope{Type: dto.TypeChat, RoomID: "9", Message: "hi"})

	msg := readUntil(t, alice, dto.TypeError, nil)
	assert.Equal(t, service.ErrNotRoomMember.Error(), msg.Message)
}

func TestHub_MalformedAndUnknownFrames(t *testing.T) {
	_, srv := startServer(t)
	alice := dial(t, srv, 1, "alice")

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("{nope")))
	first := readUntil(t, alice, dto.TypeError, nil)
	send(t, alice, dto.ClientEnvelope{Type: "dance", RoomID: "1"})
	second := readUntil(t, alice, dto.TypeError, nil)

	assert.Equal(t, "invalid message", first.Message)
	assert.Equal(t, "unknown message type", second.Message)
}

func TestHub_LeaveAndDisconnectRebroadcastRoster(t *testing.T) {
	// Arrange
	h, srv := startServer(t)
	alice, bob := joinBoth(t, srv, "1")
	carol := dial(t, srv, 3, "carol")
	send(t, carol, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: "1"})
	readUntil(t, alice, dto.TypeUserList, rosterSize(3))

	// Act
	send(t, bob, dto.ClientEnvelope{Type: dto.TypeLeaveRoom, RoomID: "1"})
	afterLeave := readUntil(t, alice, dto.TypeUserList, rosterSize(2))
	require.NoError(t, carol.Close())
	afterDisconnect := readUntil(t, alice, dto.TypeUserList, rosterSize(1))

	// Assert
	assert.Equal(t, []dto.Participant{{UserID: "1", Name: "alice"}, {UserID: "3", Name: "carol"}}, afterLeave.Users)
	assert.Equal(t, []dto.Participant{{UserID: "1", Name: "alice"}}, afterDisconnect.Users)
	assert.Equal(t, []string{"1"}, h.ActiveRoomIDs())
}

func TestHub_ActiveRoomIDs(t *testing.T) {
	h, srv := startServer(t)
	alice := dial(t, srv, 1, "alice")
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: "b"})
	readUntil(t, alice, dto.TypeUserList, nil)
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: "a"})
	readUntil(t, alice, dto.TypeUserList, func(m dto.ServerMessage) bool { return m.RoomID == "a" })

	assert.Equal(t, []string{"a", "b"}, h.ActiveRoomIDs())

	send(t, alice, dto.ClientEnvelope{Type: dto.TypeLeaveRoom, RoomID: "b"})
	assert.Eventually(t, func() bool {
		ids := h.ActiveRoomIDs()
		return len(ids) == 1 && ids[0] == "a"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	// Arrange
	h, srv := startServer(t)
	alice := dial(t, srv, 1, "alice")
	send(t, alice, dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: "1"})
	readUntil(t, alice, dto.TypeUserList, nil)

	// Act
	h.Shutdown()

	// Assert
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	var err error
	for err == nil {
		_, _, err = alice.ReadMessage()
	}
	assert.Error(t, err)
	assert.Empty(t, h.ActiveRoomIDs())
}
