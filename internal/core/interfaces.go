package core

import (
	"context"

	"ecotrack-backend-go/internal/models"
)

// ChallengeService defines challenge operations.
type ChallengeService interface {
	List(ctx context.Context, limit int) ([]*models.Challenge, error)
	Get(ctx context.Context, id string) (*models.Challenge, error)
	Create(ctx context.Context, caller Identity, req models.CreateChallengeRequest) (*models.Challenge, error)
	Update(ctx context.Context, caller Identity, id string, req models.UpdateChallengeRequest) (*models.Challenge, error)
	Delete(ctx context.Context, caller Identity, id string) error
	Join(ctx context.Context, caller Identity, id string) (*models.Challenge, error)
	Featured(ctx context.Context, limit int) ([]*models.Challenge, error)
	Active(ctx context.Context, limit int) ([]*models.Challenge, error)
	Filter(ctx context.Context, f ChallengeFilter) ([]*models.Challenge, error)
}

// TipService defines tip operations.
type TipService interface {
	List(ctx context.Context, limit int) ([]*models.Tip, error)
	Get(ctx context.Context, id string) (*models.Tip, error)
	Create(ctx context.Context, caller Identity, req models.CreateTipRequest) (*models.Tip, error)
	Update(ctx context.Context, caller Identity, id string, req models.UpdateTipRequest) (*models.Tip, error)
	Delete(ctx context.Context, caller Identity, id string) error
	Like(ctx context.Context, caller Identity, id string) (*models.Tip, error)
	Recent(ctx context.Context, limit int) ([]*models.Tip, error)
}

// EventService defines event operations.
type EventService interface {
	List(ctx context.Context, limit int) ([]*models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, caller Identity, req models.CreateEventRequest) (*models.Event, error)
	Update(ctx context.Context, caller Identity, id string, req models.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, caller Identity, id string) error
	RSVP(ctx context.Context, caller Identity, id string) (*models.Event, error)
	Upcoming(ctx context.Context, limit int) ([]*models.Event, error)
}

// UserService defines user profile operations.
type UserService interface {
	// Sync upserts the caller's user document. The boolean reports creation.
	Sync(ctx context.Context, caller Identity, req models.SyncUserRequest) (*models.User, bool, error)
	GetProfile(ctx context.Context, caller Identity, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, caller Identity, email string, req models.UpdateProfileRequest) (*models.User, error)
	// Authorize allows caller to act on email's data when it is their own or they are an admin.
	Authorize(ctx context.Context, caller Identity, email string) error
	// SetRole and MigrateRoles back the admin CLI.
	SetRole(ctx context.Context, email, role string) (*models.User, error)
	MigrateRoles(ctx context.Context) (migrated, total int, err error)
	List(ctx context.Context) ([]*models.User, error)
}

// ParticipationService defines user-challenge operations.
type ParticipationService interface {
	Join(ctx context.Context, caller Identity, challengeID string) (*models.Participation, error)
	UpdateProgress(ctx context.Context, caller Identity, id string, req models.UpdateProgressRequest) (*models.Participation, error)
	ListForUser(ctx context.Context, userID string) ([]models.EnrichedParticipation, error)
}

// DashboardService aggregates per-user and fleet-wide views.
type DashboardService interface {
	Dashboard(ctx context.Context, userID string) (*models.Dashboard, error)
	ImpactStats(ctx context.Context) (*models.ImpactStats, error)
}
