package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/models"
)

// UserHandler handles user-profile related API endpoints.
type UserHandler struct {
	userService          core.UserService
	participationService core.ParticipationService
	dashboardService     core.DashboardService
	logger               *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, ps core.ParticipationService, ds core.DashboardService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, participationService: ps, dashboardService: ds, logger: logger}
}

// SyncUser handles POST /users/sync. It is called by the client after every
// sign-in so the backend profile mirrors the identity provider.
func (h *UserHandler) SyncUser(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	user, created, err := h.userService.Sync(c.Request.Context(), caller, req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	c.JSON(statusCode, SyncUserResponse{Message: "User synced", User: user})
}

// GetProfile handles GET /users/profile/:email
func (h *UserHandler) GetProfile(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), caller, c.Param("email"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /users/profile/:email
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), caller, c.Param("email"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserChallenges handles GET /users/user-challenges/:uid
func (h *UserHandler) GetUserChallenges(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	uid := c.Param("uid")
	if err := h.userService.Authorize(c.Request.Context(), caller, uid); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	entries, err := h.participationService.ListForUser(c.Request.Context(), uid)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetUserDashboard handles GET /users/dashboard/:uid
func (h *UserHandler) GetUserDashboard(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	uid := c.Param("uid")
	if err := h.userService.Authorize(c.Request.Context(), caller, uid); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	dash, err := h.dashboardService.Dashboard(c.Request.Context(), uid)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
