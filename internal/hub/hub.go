package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/dto"
	"github.com/Abhijitam01/drawr/internal/service"
)

// WebSocket timing shared by the client pumps.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Pencil strokes are the largest frames.
	maxMessageSize = 512 * 1024

	// Upper bound for one chat payload to be persisted.
	chatTimeout = 10 * time.Second
)

// Collaboration applies chat payloads. *service.CollaborationService implements it.
type Collaboration interface {
	HandleChat(ctx context.Context, roomID string, userID uint, message string) (service.ChatOutcome, error)
}

// HubMessage is a lifecycle event handled by the Run loop.
type HubMessage struct {
	Type   string // "register" or "unregister"
	Client *Client
}

// Hub tracks connections and room membership. A connection may belong to
// several rooms at once.
type Hub struct {
	messageChan chan HubMessage
	done        chan struct{}
	closeOnce   sync.Once

	// roomsMu guards rooms, clients and every Client's rooms and closed fields.
	roomsMu sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	// One sequencer per room orders persist-then-broadcast of chat frames.
	seqMu      sync.Mutex
	sequencers map[string]*sync.Mutex

	collab Collaboration
}

func NewHub(collab Collaboration) *Hub {
	if collab == nil {
		panic("Collaboration cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		done:        make(chan struct{}),
		rooms:       make(map[string]map[*Client]struct{}),
		clients:     make(map[*Client]struct{}),
		sequencers:  make(map[string]*sync.Mutex),
		collab:      collab,
	}
}

// Run processes register and unregister events until Shutdown.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")
	for {
		select {
		case msg := <-h.messageChan:
			switch msg.Type {
			case "register":
				h.registerClient(msg.Client)
			case "unregister":
				h.unregisterClient(msg.Client)
			default:
				log.Warnf("Hub: Received unknown message type: %s", msg.Type)
			}
		case <-h.done:
			log.Info("Hub is shutting down...")
			return
		}
	}
}

// Register hands a new connection to the Run loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.messageChan <- HubMessage{Type: "register", Client: client}:
	case <-h.done:
		client.CloseConn()
	}
}

func (h *Hub) unregister(client *Client) {
	select {
	case h.messageChan <- HubMessage{Type: "unregister", Client: client}:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	if client.closed {
		return
	}
	h.clients[client] = struct{}{}
	logrus.WithFields(logrus.Fields{
		"user_id":   client.userID,
		"operation": "registerClient",
	}).Info("Client registered")
}

// unregisterClient removes the connection from every room it joined and
// rebroadcasts those rooms' rosters.
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	delete(h.clients, client)
	left := make([]string, 0, len(client.rooms))
	for roomID := range client.rooms {
		left = append(left, roomID)
	}
	for _, roomID := range left {
		h.removeFromRoomLocked(client, roomID)
	}
	if !client.closed {
		client.closed = true
		close(client.send)
	}
	for _, roomID := range left {
		h.broadcastUserListLocked(roomID)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   client.userID,
		"rooms":     left,
		"operation": "unregisterClient",
	}).Info("Client unregistered")
}

// handleFrame dispatches one inbound frame. It runs on the client's read pump.
func (h *Hub) handleFrame(c *Client, raw []byte) {
	var env dto.ClientEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendError(c, "", "invalid message")
		return
	}
	if env.Type != dto.TypeJoinRoom && env.Type != dto.TypeLeaveRoom &&
		env.Type != dto.TypeCursorMove && env.Type != dto.TypeChat {
		h.sendError(c, env.RoomID, "unknown message type")
		return
	}
	if env.RoomID == "" {
		h.sendError(c, "", "roomId is required")
		return
	}

	switch env.Type {
	case dto.TypeJoinRoom:
		h.join(c, env.RoomID)
	case dto.TypeLeaveRoom:
		h.leave(c, env.RoomID)
	case dto.TypeCursorMove:
		h.cursor(c, env)
	case dto.TypeChat:
		h.chat(c, env)
	}
}

func (h *Hub) join(c *Client, roomID string) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	if c.closed {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
	c.rooms[roomID] = struct{}{}
	h.clients[c] = struct{}{}

	logrus.WithFields(logrus.Fields{
		"room_id":   roomID,
		"user_id":   c.userID,
		"operation": "join",
	}).Debug("Client joined room")
	h.broadcastUserListLocked(roomID)
}

func (h *Hub) leave(c *Client, roomID string) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	if _, ok := c.rooms[roomID]; !ok {
		return
	}
	h.removeFromRoomLocked(c, roomID)
	logrus.WithFields(logrus.Fields{
		"room_id":   roomID,
		"user_id":   c.userID,
		"operation": "leave",
	}).Debug("Client left room")
	h.broadcastUserListLocked(roomID)
}

// removeFromRoomLocked drops c from roomID and forgets the room once empty.
// Caller holds roomsMu for writing.
func (h *Hub) removeFromRoomLocked(c *Client, roomID string) {
	delete(c.rooms, roomID)
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, roomID)
		h.seqMu.Lock()
		delete(h.sequencers, roomID)
		h.seqMu.Unlock()
	}
}

// cursor relays a pointer position to the other members. Frames from
// non-members are dropped.
func (h *Hub) cursor(c *Client, env dto.ClientEnvelope) {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	if _, ok := c.rooms[env.RoomID]; !ok {
		return
	}
	data, err := json.Marshal(dto.CursorDTO{
		Type:   dto.TypeCursorMove,
		RoomID: env.RoomID,
		UserID: c.UserKey(),
		Name:   c.name,
		X:      env.X,
		Y:      env.Y,
	})
	if err != nil {
		return
	}
	for member := range h.rooms[env.RoomID] {
		if member != c {
			h.sendLocked(member, data)
		}
	}
}

// chat persists the payload and, only on success, echoes it verbatim to every
// member including the sender. Failures go to the sender alone.
func (h *Hub) chat(c *Client, env dto.ClientEnvelope) {
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":   env.RoomID,
		"user_id":   c.userID,
		"operation": "chat",
	})
	if !h.isMember(c, env.RoomID) {
		h.sendError(c, env.RoomID, service.ErrNotRoomMember.Error())
		return
	}

	seq := h.sequencer(env.RoomID)
	seq.Lock()
	defer seq.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()
	if _, err := h.collab.HandleChat(ctx, env.RoomID, c.userID, env.Message); err != nil {
		if errors.Is(err, service.ErrDegenerateShape) {
			logCtx.Debug("Dropped degenerate shape")
			return
		}
		logCtx.WithError(err).Warn("Chat payload rejected")
		h.sendError(c, env.RoomID, clientErrorMessage(err))
		return
	}

	data, err := json.Marshal(dto.NewChat(env.RoomID, env.Message))
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal chat broadcast")
		return
	}
	h.broadcast(env.RoomID, data)
}

// clientErrorMessage hides internal failures from the wire.
func clientErrorMessage(err error) string {
	for _, known := range []error{service.ErrShapeNotFound, service.ErrInvalidShape, service.ErrNotRoomMember} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return service.ErrInternalServer.Error()
}

func (h *Hub) sequencer(roomID string) *sync.Mutex {
	h.seqMu.Lock()
	defer h.seqMu.Unlock()
	seq, ok := h.sequencers[roomID]
	if !ok {
		seq = &sync.Mutex{}
		h.sequencers[roomID] = seq
	}
	return seq
}

func (h *Hub) isMember(c *Client, roomID string) bool {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	_, ok := c.rooms[roomID]
	return ok
}

func (h *Hub) broadcast(roomID string, data []byte) {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	for member := range h.rooms[roomID] {
		h.sendLocked(member, data)
	}
}

func (h *Hub) sendError(c *Client, roomID, message string) {
	data, err := json.Marshal(dto.NewError(roomID, message))
	if err != nil {
		return
	}
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	h.sendLocked(c, data)
}

// broadcastUserListLocked sends the room roster to all members. A user with
// several connections is listed once.
func (h *Hub) broadcastUserListLocked(roomID string) {
	members := h.rooms[roomID]
	if len(members) == 0 {
		return
	}
	seen := make(map[uint]struct{}, len(members))
	users := make([]dto.Participant, 0, len(members))
	for member := range members {
		if _, dup := seen[member.userID]; dup {
			continue
		}
		seen[member.userID] = struct{}{}
		users = append(users, dto.Participant{UserID: member.UserKey(), Name: member.name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })

	data, err := json.Marshal(dto.NewUserList(roomID, users))
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to marshal user list")
		return
	}
	for member := range members {
		h.sendLocked(member, data)
	}
}

// sendLocked queues data without blocking. Caller holds roomsMu.
func (h *Hub) sendLocked(c *Client, data []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		logrus.WithFields(logrus.Fields{"user_id": c.userID}).Warn("Client send buffer full, dropping message")
	}
}

// ActiveRoomIDs lists rooms that currently have at least one connection.
func (h *Hub) ActiveRoomIDs() []string {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	ids := make([]string, 0, len(h.rooms))
	for roomID := range h.rooms {
		ids = append(ids, roomID)
	}
	sort.Strings(ids)
	return ids
}

// Shutdown stops the Run loop and closes every connection.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.roomsMu.Lock()
		defer h.roomsMu.Unlock()
		for c := range h.clients {
			if !c.closed {
				c.closed = true
				close(c.send)
			}
			c.CloseConn()
			c.rooms = make(map[string]struct{})
		}
		h.clients = make(map[*Client]struct{})
		h.rooms = make(map[string]map[*Client]struct{})
		logrus.WithField("component", "hub").Info("Hub shut down, all connections closed")
	})
}

func formatUserID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
