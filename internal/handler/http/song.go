package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/costantinodig/youdj-vote/internal/domain"
	"github.com/costantinodig/youdj-vote/internal/service"
)

// SongHandler serves the song catalog endpoints.
type SongHandler struct {
	catalogService *service.CatalogService
}

func NewSongHandler(catalogService *service.CatalogService) *SongHandler {
	return &SongHandler{catalogService: catalogService}
}

type AddSongRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
	DJPin  string `json:"djPin"`
}

// AddSong handles POST /api/rooms/:code/songs. DJ only.
func (h *SongHandler) AddSong(c *gin.Context) {
	var req AddSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "title is required")
		return
	}

	song, err := h.catalogService.AddSong(c.Request.Context(), c.Param("code"),
		req.Title, req.Artist, req.URL, req.DJPin)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, song)
}

// ListSongs handles GET /api/rooms/:code/songs.
func (h *SongHandler) ListSongs(c *gin.Context) {
	songs, err := h.catalogService.ListSongs(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if songs == nil {
		songs = []domain.SongWithVotes{} // never marshal null
	}
	SuccessResponse(c, http.StatusOK, songs)
}
