// Package websocket upgrades HTTP requests into room-subscribed
// websocket sessions.
package websocket

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/hub"
	"github.com/costantinodig/youdj-vote/internal/middleware"
	"github.com/costantinodig/youdj-vote/internal/service"
)

// WebSocketHandler validates the room and hands the connection to the hub.
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	roomService *service.RoomService
}

func NewWebSocketHandler(h *hub.Hub, roomService *service.RoomService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if roomService == nil {
		panic("RoomService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict to the configured CORS origin once the
			// deployment domains are settled.
			return true
		},
	}

	return &WebSocketHandler{upgrader: upgrader, hub: h, roomService: roomService}
}

// HandleConnection serves GET /ws/rooms/:code. The room must exist
// before the upgrade; joining is otherwise open to any guest.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	code := service.NormalizeCode(c.Param("code"))
	logCtx := logrus.WithField("room_code", code)

	if _, err := h.roomService.FindRoom(c.Request.Context(), code); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate room"})
		}
		return
	}

	// Session id from the uid cookie; a bare websocket client without
	// one still gets a usable identity.
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logCtx = logCtx.WithField("session_id", sessionID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("Failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, code, sessionID)
	registerMsg := hub.HubMessage{Type: "register", Client: client}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}

	client.Run()
	logCtx.Info("Client subscribed to room updates")
}
