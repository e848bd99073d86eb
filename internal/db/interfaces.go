package db

import (
	"context"
	"time"

	"ecotrack-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Upsert creates the user with role "user" or refreshes its profile fields.
	// The boolean reports whether the document was created.
	Upsert(ctx context.Context, profile models.SyncProfile, now time.Time) (*models.User, bool, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}

// ChallengeRepository defines the interface for challenge storage operations.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id string) (*models.Challenge, error)
	// GetByIDs returns the challenges that exist among ids; missing ones are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Challenge, error)
	List(ctx context.Context, q models.ChallengeQuery) ([]*models.Challenge, error)
	Update(ctx context.Context, challenge *models.Challenge) error
	Delete(ctx context.Context, id string) error
	// AddParticipant set-adds email to participants and returns the stored challenge.
	AddParticipant(ctx context.Context, id, email string, now time.Time) (*models.Challenge, error)
}

// TipRepository defines the interface for tip storage operations.
type TipRepository interface {
	Create(ctx context.Context, tip *models.Tip) error
	GetByID(ctx context.Context, id string) (*models.Tip, error)
	List(ctx context.Context, q models.TipQuery) ([]*models.Tip, error)
	Update(ctx context.Context, tip *models.Tip) error
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, id, email string, now time.Time) (*models.Tip, error)
}

// EventRepository defines the interface for event storage operations.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, q models.EventQuery) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	// AddAttendee set-adds email to attendees, failing with ErrCapacityReached
	// when a new attendee would exceed maxParticipants.
	AddAttendee(ctx context.Context, id, email string, now time.Time) (*models.Event, error)
}

// ParticipationRepository defines the interface for userChallenges storage operations.
type ParticipationRepository interface {
	// CreateAndJoin stores p and set-adds p.UserID to the challenge's
	// participants in one transaction. It fails with ErrNotFound when the
	// challenge does not exist and with ErrAlreadyExists when p.ID is taken;
	// in both cases nothing is written.
	CreateAndJoin(ctx context.Context, p *models.Participation) error
	GetByID(ctx context.Context, id string) (*models.Participation, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Participation, error)
	Update(ctx context.Context, p *models.Participation) error
}
