package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/service"
)

// PlaylistHandler serves the mini-playlist endpoints.
type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

type SetMiniPlaylistRequest struct {
	SongIDs []uint `json:"songIds"`
	DJPin   string `json:"djPin"`
}

// SetMiniPlaylist handles POST /api/rooms/:code/mini. DJ only; the
// whole list is replaced as one unit.
func (h *PlaylistHandler) SetMiniPlaylist(c *gin.Context) {
	var req SetMiniPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SongIDs == nil {
		ErrorResponse(c, http.StatusBadRequest, "songIds must be an array")
		return
	}

	err := h.playlistService.SetMiniPlaylist(c.Request.Context(), c.Param("code"), req.SongIDs, req.DJPin)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"ok": true})
}

// GetMiniPlaylist handles GET /api/rooms/:code/mini.
func (h *PlaylistHandler) GetMiniPlaylist(c *gin.Context) {
	entries, err := h.playlistService.GetMiniPlaylist(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.SongWithVotes{}
	}
	SuccessResponse(c, http.StatusOK, entries)
}
