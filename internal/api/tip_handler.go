package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/models"
)

// TipHandler handles API endpoints related to tips.
type TipHandler struct {
	tipService core.TipService
	logger     *zap.Logger
}

// NewTipHandler creates a new TipHandler.
func NewTipHandler(ts core.TipService, logger *zap.Logger) *TipHandler {
	return &TipHandler{tipService: ts, logger: logger}
}

// ListTips handles GET /tips
func (h *TipHandler) ListTips(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	tips, err := h.tipService.List(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tips)
}

// RecentTips handles GET /tips/recent
func (h *TipHandler) RecentTips(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	tips, err := h.tipService.Recent(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tips)
}

// GetTip handles GET /tips/:id
func (h *TipHandler) GetTip(c *gin.Context) {
	tip, err := h.tipService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tip)
}

// CreateTip handles POST /tips
func (h *TipHandler) CreateTip(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.CreateTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tip, err := h.tipService.Create(c.Request.Context(), caller, req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tip)
}

// UpdateTip handles PATCH /tips/:id
func (h *TipHandler) UpdateTip(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.UpdateTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tip, err := h.tipService.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tip)
}

// DeleteTip handles DELETE /tips/:id
func (h *TipHandler) DeleteTip(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	if err := h.tipService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Tip deleted"})
}

// LikeTip handles PATCH /tips/like/:id
func (h *TipHandler) LikeTip(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	tip, err := h.tipService.Like(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tip)
}
