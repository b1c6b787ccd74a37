package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/hub"
	"github.com/Abhijitam01/drawr/internal/middleware"
)

// Identifier resolves the display name shown to collaborators.
// *service.AuthService implements it.
type Identifier interface {
	Identify(ctx context.Context, userID uint) string
}

// WebSocketHandler upgrades authenticated requests and hands the connection
// to the hub. Rooms are joined afterwards with join_room frames.
type WebSocketHandler struct {
	upgrader   websocket.Upgrader
	hub        *hub.Hub
	identifier Identifier
}

// NewWebSocketHandler accepts any origin when allowedOrigin is empty or "*".
func NewWebSocketHandler(h *hub.Hub, identifier Identifier, allowedOrigin string) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if identifier == nil {
		panic("Identifier cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
		},
	}
	return &WebSocketHandler{upgrader: upgrader, hub: h, identifier: identifier}
}

// HandleConnection must run behind middleware.Auth, so a bad token is
// answered with 401 before any upgrade.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		logrus.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	name := h.identifier.Identify(c.Request.Context(), userID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, userID, name)
	h.hub.Register(client)
	client.Run()
	logCtx.WithField("name", name).Info("WS Handler: Client connected")
}
