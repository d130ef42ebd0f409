package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/costantinodig/youdj-vote/internal/service"
)

// PlaybackHandler serves the "now playing" endpoints.
type PlaybackHandler struct {
	playbackService *service.PlaybackService
}

func NewPlaybackHandler(playbackService *service.PlaybackService) *PlaybackHandler {
	return &PlaybackHandler{playbackService: playbackService}
}

type SetPlayingRequest struct {
	// A missing or null songId clears playback.
	SongID *uint  `json:"songId"`
	DJPin  string `json:"djPin"`
}

// SetPlaying handles POST /api/rooms/:code/play. DJ only.
func (h *PlaybackHandler) SetPlaying(c *gin.Context) {
	var req SetPlayingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.playbackService.SetPlaying(c.Request.Context(), c.Param("code"), req.SongID, req.DJPin)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"ok": true})
}

// GetState handles GET /api/rooms/:code/state. An empty object means
// nothing is playing.
func (h *PlaybackHandler) GetState(c *gin.Context) {
	state, err := h.playbackService.GetState(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if state == nil {
		SuccessResponse(c, http.StatusOK, gin.H{})
		return
	}
	SuccessResponse(c, http.StatusOK, state)
}
