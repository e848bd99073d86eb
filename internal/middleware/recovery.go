package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic in any handler into a logged 500 with the
// standard error body.
//
// The log entry carries the matched route and, when the auth middleware ran
// before the panic, the caller's email, so a crash can be tied to a user and
// an endpoint without replaying the request. The panic value is also recorded
// on the gin context, which makes RequestLogger report it in gin_errors on the
// same request line.
//
// http.ErrAbortHandler is re-raised: net/http uses it to abort a response on
// purpose and already handles it quietly.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			fields := []zap.Field{
				zap.Any("error", rec),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("route", c.FullPath()),
				zap.String("stacktrace", string(debug.Stack())),
			}
			if email := c.GetString(ContextUserEmail); email != "" {
				fields = append(fields, zap.String("user", email))
			}
			logger.Error("Panic recovered", fields...)
			_ = c.Error(fmt.Errorf("panic: %v", rec))

			// The handler may have written headers before it panicked.
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
			}
			c.Abort()
		}()
		c.Next()
	}
}
