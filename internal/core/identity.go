package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecotrack-backend-go/internal/db"
)

// Identity is the verified caller attached by the auth middleware.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

func (id Identity) check() error {
	if id.Email == "" {
		return ErrMissingEmail
	}
	return nil
}

// participationNamespace scopes the name-based participation IDs.
var participationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ecotrack:userChallenges"))

// ParticipationID derives the document ID of the (user, challenge) pair.
func ParticipationID(userID, challengeID string) string {
	return uuid.NewSHA1(participationNamespace, []byte(userID+"\x00"+challengeID)).String()
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be an RFC 3339 timestamp or YYYY-MM-DD date", ErrInvalidArgument, field)
}

// notFound maps db.ErrNotFound onto the service-level sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, db.ErrNotFound) {
		return sentinel
	}
	return err
}

// ownership resolves whether a caller may modify a resource owned by someone else.
type ownership struct {
	users db.UserRepository
}

// authorize allows the owner, or any caller whose user document has role admin.
func (o ownership) authorize(ctx context.Context, caller Identity, owner string) error {
	if caller.Email == owner {
		return nil
	}
	admin, err := o.isAdmin(ctx, caller.Email)
	if err != nil {
		return err
	}
	if !admin {
		return ErrNotOwner
	}
	return nil
}

func (o ownership) isAdmin(ctx context.Context, email string) (bool, error) {
	u, err := o.users.GetByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load caller role: %w", err)
	}
	return u.IsAdmin(), nil
}

func now() time.Time { return time.Now().UTC() }
