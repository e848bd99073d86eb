package db

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"

	"ecotrack-backend-go/internal/models"
)

const challengesCollection = "challenges"

// firestore "in" filters accept at most this many values.
const maxInValues = 30

type firestoreChallengeRepository struct {
	client *firestore.Client
}

// NewFirestoreChallengeRepository creates a ChallengeRepository backed by Firestore.
func NewFirestoreChallengeRepository(client *firestore.Client) ChallengeRepository {
	return &firestoreChallengeRepository{client: client}
}

func (r *firestoreChallengeRepository) col() *firestore.CollectionRef {
	return r.client.Collection(challengesCollection)
}

func (r *firestoreChallengeRepository) Create(ctx context.Context, c *models.Challenge) error {
	if c.ID == "" {
		return fmt.Errorf("challenge ID cannot be empty for Create operation")
	}
	if c.Participants == nil {
		c.Participants = []string{}
	}
	if _, err := r.col().Doc(c.ID).Create(ctx, c); err != nil {
		return wrap(err, "failed to create challenge '%s'", c.ID)
	}
	c.Normalize()
	return nil
}

func (r *firestoreChallengeRepository) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, wrap(err, "failed to get challenge '%s'", id)
	}
	return decodeChallenge(snap)
}

func (r *firestoreChallengeRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Challenge, error) {
	if len(ids) == 0 {
		return []*models.Challenge{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.col().Doc(id))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}

	// GetAll returns a snapshot for every ref, including missing documents.
	// A challenge can be deleted while participation records still point at
	// it; those are skipped here and the callers drop the orphaned records.
	out := make([]*models.Challenge, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		c, err := decodeChallenge(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// List pushes the equality and range constraints Firestore can serve without
// composite indexes, then applies the full query in memory.
func (r *firestoreChallengeRepository) List(ctx context.Context, q models.ChallengeQuery) ([]*models.Challenge, error) {
	query := r.col().Query
	switch {
	case q.FeaturedOnly:
		query = query.Where("featured", "==", true)
	case len(q.Categories) > 0 && len(q.Categories) <= maxInValues:
		query = query.Where("category", "in", q.Categories)
	case q.StartFrom != nil || q.StartTo != nil:
		if q.StartFrom != nil {
			query = query.Where("startDate", ">=", *q.StartFrom)
		}
		if q.StartTo != nil {
			query = query.Where("startDate", "<=", *q.StartTo)
		}
	}

	all, err := decodeAll(query.Documents(ctx), func(c *models.Challenge, id string) { c.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	out := make([]*models.Challenge, 0, len(all))
	for _, c := range all {
		c.Normalize()
		if q.Matches(c) {
			out = append(out, c)
		}
	}
	SortChallenges(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Update writes the editable fields. Membership is owned by AddParticipant.
func (r *firestoreChallengeRepository) Update(ctx context.Context, c *models.Challenge) error {
	_, err := r.col().Doc(c.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: c.Title},
		{Path: "category", Value: c.Category},
		{Path: "description", Value: c.Description},
		{Path: "durationDays", Value: c.DurationDays},
		{Path: "target", Value: c.Target},
		{Path: "impactMetric", Value: c.ImpactMetric},
		{Path: "startDate", Value: c.StartDate},
		{Path: "endDate", Value: c.EndDate},
		{Path: "imageUrl", Value: c.ImageURL},
		{Path: "featured", Value: c.Featured},
		{Path: "updatedAt", Value: c.UpdatedAt},
	})
	if err != nil {
		return wrap(err, "failed to update challenge '%s'", c.ID)
	}
	return nil
}

func (r *firestoreChallengeRepository) Delete(ctx context.Context, id string) error {
	// Exists precondition turns a missing document into NotFound.
	if _, err := r.col().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return wrap(err, "failed to delete challenge '%s'", id)
	}
	return nil
}

func (r *firestoreChallengeRepository) AddParticipant(ctx context.Context, id, email string, now time.Time) (*models.Challenge, error) {
	ref := r.col().Doc(id)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "participants", Value: firestore.ArrayUnion(email)},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return nil, wrap(err, "failed to add participant to challenge '%s'", id)
	}
	return r.GetByID(ctx, id)
}

func decodeChallenge(snap *firestore.DocumentSnapshot) (*models.Challenge, error) {
	var c models.Challenge
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode challenge '%s': %w", snap.Ref.ID, err)
	}
	c.ID = snap.Ref.ID
	c.Normalize()
	return &c, nil
}

// SortChallenges orders challenges newest first.
func SortChallenges(cs []*models.Challenge) {
	slices.SortStableFunc(cs, func(a, b *models.Challenge) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
