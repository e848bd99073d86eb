package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/models"
)

// ChallengeHandler handles API endpoints related to challenges.
type ChallengeHandler struct {
	challengeService core.ChallengeService
	logger           *zap.Logger
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(cs core.ChallengeService, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs, logger: logger}
}

// ListChallenges handles GET /challenges
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	challenges, err := h.challengeService.List(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// GetChallenge handles GET /challenges/:id
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	challenge, err := h.challengeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// CreateChallenge handles POST /challenges
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	challenge, err := h.challengeService.Create(c.Request.Context(), caller, req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Challenge created", ID: challenge.ID, Data: challenge})
}

// UpdateChallenge handles PATCH /challenges/:id
func (h *ChallengeHandler) UpdateChallenge(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	challenge, err := h.challengeService.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// DeleteChallenge handles DELETE /challenges/:id
func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	if err := h.challengeService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Challenge deleted"})
}

// JoinChallenge handles PATCH /challenges/join/:id
func (h *ChallengeHandler) JoinChallenge(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	challenge, err := h.challengeService.Join(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, JoinChallengeResponse{Message: "Joined challenge", Challenge: challenge})
}

// FeaturedChallenges handles GET /challenges/featured
func (h *ChallengeHandler) FeaturedChallenges(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	challenges, err := h.challengeService.Featured(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// ActiveChallenges handles GET /challenges/active
func (h *ChallengeHandler) ActiveChallenges(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	challenges, err := h.challengeService.Active(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// FilterChallenges handles GET /challenges/filter
func (h *ChallengeHandler) FilterChallenges(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	minParticipants, ok := queryInt(c, "minParticipants", false)
	if !ok {
		return
	}
	maxParticipants, ok := queryInt(c, "maxParticipants", false)
	if !ok {
		return
	}

	filter := core.ChallengeFilter{
		StartDate:       c.Query("startDate"),
		EndDate:         c.Query("endDate"),
		MinParticipants: minParticipants,
		MaxParticipants: maxParticipants,
		Limit:           limit,
	}
	if categories := c.Query("categories"); categories != "" {
		filter.Categories = strings.Split(categories, ",")
	}

	challenges, err := h.challengeService.Filter(c.Request.Context(), filter)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}
