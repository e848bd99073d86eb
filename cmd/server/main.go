package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecotrack-backend-go/internal/activity"
	"ecotrack-backend-go/internal/api"
	"ecotrack-backend-go/internal/config"
	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/logging"
	"ecotrack-backend-go/internal/middleware"
)

func main() {
	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := logging.New(appConfig.GinMode, appConfig.LogLevel)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Connect to Firestore and Firebase Auth ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()

	accessor := db.NewFirestoreAccessor(appConfig, zapLogger)
	firestoreClient, err := accessor.Connect(initCtx)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Firestore", zap.Error(err))
	}
	firebaseAuthClient, err := db.NewAuthClient(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Auth", zap.Error(err))
	}
	zapLogger.Info("Firestore and Firebase Auth clients initialized successfully.")

	// --- 4. Activity feed ---
	publisher, err := newPublisher(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize activity publisher", zap.Error(err))
	}

	// --- 5. Initialize Repositories and Services ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	challengeRepo := db.NewFirestoreChallengeRepository(firestoreClient)
	tipRepo := db.NewFirestoreTipRepository(firestoreClient)
	eventRepo := db.NewFirestoreEventRepository(firestoreClient)
	participationRepo := db.NewFirestoreParticipationRepository(firestoreClient)

	services := api.Services{
		Challenges:     core.NewChallengeService(challengeRepo, userRepo, publisher),
		Tips:           core.NewTipService(tipRepo, userRepo, publisher),
		Events:         core.NewEventService(eventRepo, userRepo, publisher, core.EventOptions{DeleteRequiresOwner: appConfig.EventDeleteRequiresOwner}),
		Users:          core.NewUserService(userRepo),
		Participations: core.NewParticipationService(participationRepo, challengeRepo, publisher),
		Dashboard:      core.NewDashboardService(participationRepo, challengeRepo, tipRepo, eventRepo),
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 6. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig, zapLogger))

	api.SetupRoutes(router, zapLogger, middleware.NewAuthMiddleware(firebaseAuthClient, zapLogger), services)

	// --- 7. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 8. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		zapLogger.Warn("Failed to close activity publisher", zap.Error(err))
	}
	if err := accessor.Close(); err != nil {
		zapLogger.Warn("Failed to close Firestore client", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

// newPublisher returns a Pub/Sub backed publisher when ACTIVITY_TOPIC is set.
func newPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (activity.Publisher, error) {
	if cfg.ActivityTopic == "" {
		logger.Info("ACTIVITY_TOPIC not set; activity events are discarded.")
		return activity.Nop{}, nil
	}
	opts, err := db.ClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := pubsub.NewClient(ctx, cfg.FirebaseProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub.NewClient: %w", err)
	}
	logger.Info("Publishing activity events", zap.String("topic", cfg.ActivityTopic))
	return activity.NewPubSubPublisher(client, cfg.ActivityTopic, logger), nil
}
