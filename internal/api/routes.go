package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/middleware"
)

// Services bundles the services the routes are served by.
type Services struct {
	Challenges     core.ChallengeService
	Tips           core.TipService
	Events         core.EventService
	Users          core.UserService
	Participations core.ParticipationService
	Dashboard      core.DashboardService
}

// SetupRoutes registers every endpoint on router. Global middleware (logging,
// recovery, CORS) is expected to be installed by the caller.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, authMW *middleware.AuthMiddleware, svc Services) {
	requireAuth := authMW.VerifyToken()

	challengeHandler := NewChallengeHandler(svc.Challenges, logger)
	tipHandler := NewTipHandler(svc.Tips, logger)
	eventHandler := NewEventHandler(svc.Events, logger)
	userHandler := NewUserHandler(svc.Users, svc.Participations, svc.Dashboard, logger)
	participationHandler := NewParticipationHandler(svc.Participations, logger)
	homeHandler := NewHomeHandler(svc.Dashboard, logger)

	challenges := router.Group("/challenges")
	{
		challenges.GET("", challengeHandler.ListChallenges)
		challenges.GET("/featured", challengeHandler.FeaturedChallenges)
		challenges.GET("/active", challengeHandler.ActiveChallenges)
		challenges.GET("/filter", challengeHandler.FilterChallenges)
		challenges.GET("/:id", challengeHandler.GetChallenge)
		challenges.POST("", requireAuth, challengeHandler.CreateChallenge)
		challenges.PATCH("/join/:id", requireAuth, challengeHandler.JoinChallenge)
		challenges.PATCH("/:id", requireAuth, challengeHandler.UpdateChallenge)
		challenges.DELETE("/:id", requireAuth, challengeHandler.DeleteChallenge)
	}

	tips := router.Group("/tips")
	{
		tips.GET("", tipHandler.ListTips)
		tips.GET("/recent", tipHandler.RecentTips)
		tips.GET("/:id", tipHandler.GetTip)
		tips.POST("", requireAuth, tipHandler.CreateTip)
		tips.PATCH("/like/:id", requireAuth, tipHandler.LikeTip)
		tips.PATCH("/:id", requireAuth, tipHandler.UpdateTip)
		tips.DELETE("/:id", requireAuth, tipHandler.DeleteTip)
	}

	events := router.Group("/events")
	{
		events.GET("", eventHandler.ListEvents)
		events.GET("/upcoming", eventHandler.UpcomingEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.POST("", requireAuth, eventHandler.CreateEvent)
		events.POST("/register", requireAuth, eventHandler.RegisterForEvent)
		events.PATCH("/rsvp/:id", requireAuth, eventHandler.RSVPEvent)
		events.PATCH("/:id", requireAuth, eventHandler.PatchEvent)
		events.DELETE("/:id", requireAuth, eventHandler.DeleteEvent)
	}

	users := router.Group("/users", requireAuth)
	{
		users.POST("/sync", userHandler.SyncUser)
		users.GET("/profile/:email", userHandler.GetProfile)
		users.PATCH("/profile/:email", userHandler.UpdateProfile)
		users.GET("/user-challenges/:uid", userHandler.GetUserChallenges)
		users.GET("/dashboard/:uid", userHandler.GetUserDashboard)
	}

	userChallenges := router.Group("/user-challenges", requireAuth)
	{
		userChallenges.GET("", participationHandler.ListMine)
		userChallenges.POST("/join", participationHandler.JoinChallenge)
		userChallenges.PATCH("/update/:id", participationHandler.UpdateProgress)
	}

	router.GET("/stats", homeHandler.Stats)
	router.GET("/dashboard", requireAuth, homeHandler.Dashboard)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "UP", Message: "EcoTrack backend is healthy."})
	})

	logger.Info("API routes configured")
}
