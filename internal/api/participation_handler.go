package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/models"
)

// ParticipationHandler handles the /user-challenges endpoints.
type ParticipationHandler struct {
	participationService core.ParticipationService
	logger               *zap.Logger
}

// NewParticipationHandler creates a new ParticipationHandler.
func NewParticipationHandler(ps core.ParticipationService, logger *zap.Logger) *ParticipationHandler {
	return &ParticipationHandler{participationService: ps, logger: logger}
}

// JoinChallenge handles POST /user-challenges/join
func (h *ParticipationHandler) JoinChallenge(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.JoinChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.participationService.Join(c.Request.Context(), caller, req.ChallengeID)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Challenge joined", ID: p.ID, Data: p})
}

// UpdateProgress handles PATCH /user-challenges/update/:id
func (h *ParticipationHandler) UpdateProgress(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.participationService.UpdateProgress(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListMine handles GET /user-challenges
func (h *ParticipationHandler) ListMine(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	entries, err := h.participationService.ListForUser(c.Request.Context(), caller.Email)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
