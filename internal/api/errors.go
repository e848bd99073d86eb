package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/middleware"
)

// mapErrorToStatus writes the reply for a service error. Internal failures
// are logged and answered with a generic message.
func mapErrorToStatus(c *gin.Context, logger *zap.Logger, err error) {
	var statusCode int
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		statusCode = http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthenticated):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		statusCode = http.StatusConflict
	default:
		// Anything outside the taxonomy is a store or provider failure. The
		// cause can carry backend details, so it only goes to the log and to
		// c.Errors for RequestLogger; the client gets a fixed message.
		logger.Error("Internal Server Error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(statusCode, ErrorResponse{Message: err.Error()})
}

// badRequest replies 400 for a request that failed binding.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
}

// callerIdentity reads the identity stored by the auth middleware. It writes
// a 401 and reports false when the token carried no email.
func callerIdentity(c *gin.Context) (core.Identity, bool) {
	id := core.Identity{
		UID:         c.GetString(middleware.ContextUserID),
		Email:       c.GetString(middleware.ContextUserEmail),
		DisplayName: c.GetString(middleware.ContextUserDisplayName),
		PhotoURL:    c.GetString(middleware.ContextUserPhotoURL),
	}
	if id.Email == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authenticated identity has no email"})
		return id, false
	}
	return id, true
}

// queryInt parses an optional non-negative integer query parameter. When
// positive is set, zero is rejected too.
func queryInt(c *gin.Context, name string, positive bool) (*int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || (positive && n == 0) {
		kind := "non-negative"
		if positive {
			kind = "positive"
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid query parameter", Details: name + " must be a " + kind + " integer"})
		return nil, false
	}
	return &n, true
}

// queryLimit returns the limit query parameter, or 0 when absent.
func queryLimit(c *gin.Context) (int, bool) {
	n, ok := queryInt(c, "limit", true)
	if !ok || n == nil {
		return 0, ok
	}
	return *n, true
}
