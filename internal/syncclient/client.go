// Package syncclient keeps one websocket session with the room server and
// applies the streamed deltas to the local scene.
package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/dto"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 256
	closeGrace     = 2 * time.Second
)

var (
	ErrClosed       = errors.New("syncclient: connection closed")
	ErrNoRoom       = errors.New("syncclient: not in a room")
	ErrSendOverflow = errors.New("syncclient: send buffer full")
	ErrUnauthorized = errors.New("syncclient: credentials rejected")
)

type Config struct {
	// BaseURL is the HTTP origin of the server, e.g. http://localhost:8080.
	BaseURL string
	Token   string
	HTTP    *http.Client
	Dialer  *websocket.Dialer
}

// Client is one authenticated socket session. Outbound calls are safe from
// any goroutine; inbound frames arrive on Inbound.
type Client struct {
	conn    *websocket.Conn
	fetcher SceneFetcher
	send    chan []byte
	inbound chan dto.ServerMessage
	done    chan struct{}
	quit    chan struct{}

	mu      sync.Mutex
	room    string
	closing bool

	closeOnce sync.Once
	log       *logrus.Entry
}

// Dial opens the socket at <BaseURL>/ws?token=... and starts the pumps.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	wsURL, err := socketURL(cfg.BaseURL, cfg.Token)
	if err != nil {
		return nil, err
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("dial %s: %w", redact(wsURL), err)
	}

	c := &Client{
		conn:    conn,
		fetcher: SceneFetcher{BaseURL: cfg.BaseURL, Token: cfg.Token, HTTP: cfg.HTTP},
		send:    make(chan []byte, sendBuffer),
		inbound: make(chan dto.ServerMessage, sendBuffer),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
		log:     logrus.WithField("component", "syncclient"),
	}
	go c.writePump()
	go c.readPump()
	return c, nil
}

func socketURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func redact(raw string) string {
	if i := strings.Index(raw, "?"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// Inbound delivers decoded server frames. It is closed when the connection ends.
func (c *Client) Inbound() <-chan dto.ServerMessage { return c.inbound }

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// FetchScene loads the persisted shapes of room.
func (c *Client) FetchScene(ctx context.Context, room string) ([]domain.Shape, error) {
	return c.fetcher.Fetch(ctx, room)
}

// Join adds room to the session's membership and makes it current.
func (c *Client) Join(room string) error {
	if err := c.enqueue(dto.ClientEnvelope{Type: dto.TypeJoinRoom, RoomID: room}); err != nil {
		return err
	}
	c.mu.Lock()
	c.room = room
	c.mu.Unlock()
	return nil
}

// Leave removes room from the session's membership.
func (c *Client) Leave(room string) error {
	if err := c.enqueue(dto.ClientEnvelope{Type: dto.TypeLeaveRoom, RoomID: room}); err != nil {
		return err
	}
	c.mu.Lock()
	if c.room == room {
		c.room = ""
	}
	c.mu.Unlock()
	return nil
}

// SwitchRoom leaves the current room explicitly, joins room and fetches its
// scene.
func (c *Client) SwitchRoom(ctx context.Context, room string) ([]domain.Shape, error) {
	if prev := c.Room(); prev != "" && prev != room {
		if err := c.Leave(prev); err != nil {
			return nil, err
		}
	}
	if err := c.Join(room); err != nil {
		return nil, err
	}
	return c.FetchScene(ctx, room)
}

func (c *Client) Create(s domain.Shape) error {
	return c.sendOp(dto.ShapeOp{Kind: dto.OpCreate, Shape: s})
}

func (c *Client) Update(s domain.Shape) error {
	return c.sendOp(dto.ShapeOp{Kind: dto.OpUpdate, Shape: s})
}

func (c *Client) Delete(id string) error {
	return c.sendOp(dto.ShapeOp{Kind: dto.OpDelete, ID: id})
}

func (c *Client) Clear() error {
	return c.sendOp(dto.ShapeOp{Kind: dto.OpClear})
}

func (c *Client) Cursor(p domain.Point) error {
	room := c.Room()
	if room == "" {
		return ErrNoRoom
	}
	return c.enqueue(dto.ClientEnvelope{Type: dto.TypeCursorMove, RoomID: room, X: p.X, Y: p.Y})
}

func (c *Client) sendOp(op dto.ShapeOp) error {
	room := c.Room()
	if room == "" {
		return ErrNoRoom
	}
	msg, err := op.Encode()
	if err != nil {
		return err
	}
	return c.enqueue(dto.ClientEnvelope{Type: dto.TypeChat, RoomID: room, Message: msg})
}

func (c *Client) enqueue(env dto.ClientEnvelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Type, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		return ErrClosed
	}
	select {
	case <-c.done:
		return ErrClosed
	case c.send <- b:
		return nil
	default:
		return ErrSendOverflow
	}
}

// Close leaves the current room, flushes pending frames and closes the
// socket. It waits at most a short grace period for the server.
func (c *Client) Close() error {
	if room := c.Room(); room != "" {
		if err := c.Leave(room); err != nil && !errors.Is(err, ErrClosed) {
			c.log.WithError(err).Warn("leave on close failed")
		}
	}
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closing = true
		close(c.send)
		c.mu.Unlock()
	})
	select {
	case <-c.done:
	case <-time.After(closeGrace):
		close(c.quit)
		_ = c.conn.Close()
		<-c.done
	}
	return nil
}

func (c *Client) readPump() {
	defer func() {
		close(c.done)
		close(c.inbound)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("socket closed unexpectedly")
			} else {
				c.log.WithError(err).Debug("socket read ended")
			}
			return
		}
		var msg dto.ServerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.WithError(err).Debug("dropping malformed frame")
			continue
		}
		select {
		case c.inbound <- msg:
		case <-c.quit:
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.WithError(err).Warn("write failed")
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Warn("ping failed")
				_ = c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
