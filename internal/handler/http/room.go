package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/service"
)

// RoomHandler serves room creation and the health probe.
type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type CreateRoomRequest struct {
	Name  string `json:"name"`
	DJPin string `json:"djPin"`
}

type CreateRoomResponse struct {
	Code string `json:"code"`
}

// CreateRoom handles POST /api/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "name and djPin are required")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), req.Name, req.DJPin)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithField("room_code", room.Code).Info("Room created via API")
	SuccessResponse(c, http.StatusOK, CreateRoomResponse{Code: room.Code})
}

// Health handles GET /api/health.
func (h *RoomHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
