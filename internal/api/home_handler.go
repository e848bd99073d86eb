package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/core"
)

// HomeHandler serves the aggregated views.
type HomeHandler struct {
	dashboardService core.DashboardService
	logger           *zap.Logger
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(ds core.DashboardService, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{dashboardService: ds, logger: logger}
}

// Stats handles GET /stats
func (h *HomeHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.ImpactStats(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Dashboard handles GET /dashboard
func (h *HomeHandler) Dashboard(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	dash, err := h.dashboardService.Dashboard(c.Request.Context(), caller.Email)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
