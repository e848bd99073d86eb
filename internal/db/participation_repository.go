package db

import (
	"context"
	"fmt"
	"slices"

	"cloud.google.com/go/firestore"

	"ecotrack-backend-go/internal/models"
)

const userChallengesCollection = "userChallenges"

type firestoreParticipationRepository struct {
	client *firestore.Client
}

// NewFirestoreParticipationRepository creates a ParticipationRepository backed by Firestore.
func NewFirestoreParticipationRepository(client *firestore.Client) ParticipationRepository {
	return &firestoreParticipationRepository{client: client}
}

func (r *firestoreParticipationRepository) col() *firestore.CollectionRef {
	return r.client.Collection(userChallengesCollection)
}

// CreateAndJoin writes the participation record and the challenge membership
// together. The challenge is read inside the transaction so a challenge deleted
// mid-join aborts the whole write instead of leaving an orphan record behind.
//
// Uniqueness of the (user, challenge) pair relies on tx.Create failing for an
// existing document ID, which holds when p.ID is derived from the pair. The
// membership update uses ArrayUnion so it stays a set-add even if the user
// was already listed through PATCH /challenges/join/:id.
func (r *firestoreParticipationRepository) CreateAndJoin(ctx context.Context, p *models.Participation) error {
	if p.ID == "" {
		return fmt.Errorf("participation ID cannot be empty for CreateAndJoin operation")
	}
	challengeRef := r.client.Collection(challengesCollection).Doc(p.ChallengeID)
	participationRef := r.col().Doc(p.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must happen before the first write in a Firestore transaction.
		if _, err := tx.Get(challengeRef); err != nil {
			return err
		}
		if err := tx.Create(participationRef, p); err != nil {
			return err
		}
		return tx.Update(challengeRef, []firestore.Update{
			{Path: "participants", Value: firestore.ArrayUnion(p.UserID)},
			{Path: "updatedAt", Value: p.JoinDate},
		})
	})
	if err != nil {
		return wrap(err, "failed to join challenge '%s' as '%s'", p.ChallengeID, p.UserID)
	}
	return nil
}

func (r *firestoreParticipationRepository) GetByID(ctx context.Context, id string) (*models.Participation, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, wrap(err, "failed to get participation '%s'", id)
	}
	var p models.Participation
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode participation '%s': %w", id, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

func (r *firestoreParticipationRepository) ListByUser(ctx context.Context, userID string) ([]*models.Participation, error) {
	iter := r.col().Where("userId", "==", userID).Documents(ctx)
	out, err := decodeAll(iter, func(p *models.Participation, id string) { p.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list participations for '%s': %w", userID, err)
	}
	SortParticipations(out)
	return out, nil
}

func (r *firestoreParticipationRepository) Update(ctx context.Context, p *models.Participation) error {
	_, err := r.col().Doc(p.ID).Update(ctx, []firestore.Update{
		{Path: "status", Value: p.Status},
		{Path: "progress", Value: p.Progress},
		{Path: "updatedAt", Value: p.UpdatedAt},
	})
	if err != nil {
		return wrap(err, "failed to update participation '%s'", p.ID)
	}
	return nil
}

// SortParticipations orders participations by join date, newest first.
func SortParticipations(ps []*models.Participation) {
	slices.SortStableFunc(ps, func(a, b *models.Participation) int {
		return b.JoinDate.Compare(a.JoinDate)
	})
}
