package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/middleware"
	"github.com/costantinodig/youdj-vote/internal/service"
)

// VoteHandler serves the guest voting endpoint.
type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

type CastVoteRequest struct {
	SongID uint `json:"songId"`
}

// CastVote handles POST /api/rooms/:code/vote. The voter identity is
// the session cookie, never client-supplied JSON.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SongID == 0 {
		ErrorResponse(c, http.StatusBadRequest, "songId is required")
		return
	}

	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		logrus.Warn("CastVote: no session id on request, session middleware missing?")
		ErrorResponse(c, http.StatusBadRequest, "missing session")
		return
	}

	if err := h.voteService.CastVote(c.Request.Context(), c.Param("code"), req.SongID, sessionID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"ok": true})
}
