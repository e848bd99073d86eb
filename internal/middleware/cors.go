package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/config"
)

// CORSMiddleware allows the origins listed in CLIENT_URL. With an empty list
// no CORS headers are emitted, so browsers block cross-origin calls.
func CORSMiddleware(appConfig *config.Config, logger *zap.Logger) gin.HandlerFunc {
	origins := appConfig.AllowedOrigins()
	if len(origins) == 0 {
		logger.Warn("CLIENT_URL is empty; cross-origin requests will be rejected by browsers")
		return func(c *gin.Context) { c.Next() }
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
