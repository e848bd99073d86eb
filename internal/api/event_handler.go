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

// EventHandler handles API endpoints related to events.
type EventHandler struct {
	eventService core.EventService
	logger       *zap.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(es core.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{eventService: es, logger: logger}
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	events, err := h.eventService.List(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// UpcomingEvents handles GET /events/upcoming
func (h *EventHandler) UpcomingEvents(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	events, err := h.eventService.Upcoming(c.Request.Context(), limit)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), caller, req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Event created", ID: event.ID, Data: event})
}

// PatchEvent handles PATCH /events/:id. A body with editable fields updates
// the event; an empty body, or one with only the legacy userEmail, is an RSVP.
func (h *EventHandler) PatchEvent(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	// Older clients RSVP with PATCH /events/:id and either no body or
	// {"userEmail": ...}. An empty body surfaces as io.EOF from the JSON
	// decoder, which is not a malformed request here.
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	// The split is decided on editable fields alone. userEmail is never
	// trusted: the RSVP is always recorded for the token's email.
	if req.IsEmpty() {
		h.rsvp(c, caller, c.Param("id"))
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// RSVPEvent handles PATCH /events/rsvp/:id
func (h *EventHandler) RSVPEvent(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	h.rsvp(c, caller, c.Param("id"))
}

// RegisterForEvent handles POST /events/register
func (h *EventHandler) RegisterForEvent(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req models.RegisterEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.rsvp(c, caller, req.EventID)
}

func (h *EventHandler) rsvp(c *gin.Context, caller core.Identity, id string) {
	event, err := h.eventService.RSVP(c.Request.Context(), caller, id)
	if err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		mapErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Event deleted"})
}
