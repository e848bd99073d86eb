package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecotrack-backend-go/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements the UserRepository interface using Firestore.
// The email is the document ID.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

// GetByEmail retrieves a user document by email.
func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for GetByEmail operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user '%s' not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", email, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for '%s': %w", email, err)
	}
	user.Email = docSnap.Ref.ID
	return &user, nil
}

// Upsert creates the user with the default role or refreshes the profile
// fields of an existing one. The role is never touched for existing users.
func (r *firestoreUserRepository) Upsert(ctx context.Context, profile models.SyncProfile, now time.Time) (*models.User, bool, error) {
	if profile.Email == "" {
		return nil, false, errors.New("email cannot be empty for Upsert operation")
	}
	ref := r.client.Collection(usersCollection).Doc(profile.Email)

	var (
		user    models.User
		created bool
	)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			user = models.User{
				Email:            profile.Email,
				DisplayName:      profile.DisplayName,
				PhotoURL:         profile.PhotoURL,
				IdentityProvider: profile.IdentityProvider,
				Role:             models.RoleUser,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			created = true
			return tx.Create(ref, &user)
		}
		if err != nil {
			return err
		}
		if err := snap.DataTo(&user); err != nil {
			return err
		}
		user.Email = profile.Email
		user.DisplayName = profile.DisplayName
		user.PhotoURL = profile.PhotoURL
		user.IdentityProvider = profile.IdentityProvider
		user.UpdatedAt = now
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "displayName", Value: user.DisplayName},
			{Path: "photoUrl", Value: user.PhotoURL},
			{Path: "identityProvider", Value: user.IdentityProvider},
			{Path: "role", Value: user.Role},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user '%s': %w", profile.Email, err)
	}
	return &user, created, nil
}

// Update writes the mutable profile fields and the role.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return errors.New("email cannot be empty for Update operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.Email).Update(ctx, []firestore.Update{
		{Path: "displayName", Value: user.DisplayName},
		{Path: "photoUrl", Value: user.PhotoURL},
		{Path: "role", Value: user.Role},
		{Path: "updatedAt", Value: user.UpdatedAt},
	})
	if err != nil {
		return wrap(err, "failed to update user '%s'", user.Email)
	}
	return nil
}

// List returns every user document ordered by email.
func (r *firestoreUserRepository) List(ctx context.Context) ([]*models.User, error) {
	iter := r.client.Collection(usersCollection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	users, err := decodeAll(iter, func(u *models.User, id string) { u.Email = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
