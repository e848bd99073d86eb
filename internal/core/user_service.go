package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	owners   ownership
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo, owners: ownership{users: userRepo}}
}

// Sync upserts the caller's profile. The email is always the token's; the
// body only supplies profile fields, falling back to the token's claims.
func (s *userService) Sync(ctx context.Context, caller Identity, req models.SyncUserRequest) (*models.User, bool, error) {
	if err := caller.check(); err != nil {
		return nil, false, err
	}
	profile := models.SyncProfile{
		Email:            caller.Email,
		DisplayName:      firstNonEmpty(req.DisplayName, req.Name, caller.DisplayName),
		PhotoURL:         firstNonEmpty(req.PhotoURL, caller.PhotoURL),
		IdentityProvider: req.Provider,
	}
	user, created, err := s.userRepo.Upsert(ctx, profile, now())
	if err != nil {
		return nil, false, fmt.Errorf("failed to sync user '%s': %w", caller.Email, err)
	}
	return user, created, nil
}

func (s *userService) GetProfile(ctx context.Context, caller Identity, email string) (*models.User, error) {
	if err := s.Authorize(ctx, caller, email); err != nil {
		return nil, err
	}
	return s.get(ctx, email)
}

// UpdateProfile lets users edit their own profile. Admins may edit any profile
// and are the only ones allowed to change a role.
func (s *userService) UpdateProfile(ctx context.Context, caller Identity, email string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	admin, err := s.owners.isAdmin(ctx, caller.Email)
	if err != nil {
		return nil, err
	}
	if caller.Email != email && !admin {
		return nil, ErrNotOwner
	}
	if req.Role != nil && !admin {
		return nil, ErrRoleChangeForbidden
	}

	user, err := s.get(ctx, email)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Role != nil {
		if err := validateRole(*req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}
	user.UpdatedAt = now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) Authorize(ctx context.Context, caller Identity, email string) error {
	if err := caller.check(); err != nil {
		return err
	}
	return s.owners.authorize(ctx, caller, email)
}

func (s *userService) SetRole(ctx context.Context, email, role string) (*models.User, error) {
	if err := validateRole(role); err != nil {
		return nil, err
	}
	user, err := s.get(ctx, email)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// MigrateRoles gives the default role to every user document without one.
func (s *userService) MigrateRoles(ctx context.Context) (int, int, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	migrated := 0
	for _, u := range users {
		if u.Role != "" {
			continue
		}
		u.Role = models.RoleUser
		u.UpdatedAt = now()
		if err := s.userRepo.Update(ctx, u); err != nil {
			return migrated, len(users), fmt.Errorf("failed to migrate '%s': %w", u.Email, err)
		}
		migrated++
	}
	return migrated, len(users), nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) get(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user '%s': %w", email, err)
	}
	return user, nil
}

func validateRole(role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return ErrInvalidRole
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
