package db

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"

	"ecotrack-backend-go/internal/models"
)

const tipsCollection = "tips"

type firestoreTipRepository struct {
	client *firestore.Client
}

// NewFirestoreTipRepository creates a TipRepository backed by Firestore.
func NewFirestoreTipRepository(client *firestore.Client) TipRepository {
	return &firestoreTipRepository{client: client}
}

func (r *firestoreTipRepository) col() *firestore.CollectionRef {
	return r.client.Collection(tipsCollection)
}

func (r *firestoreTipRepository) Create(ctx context.Context, t *models.Tip) error {
	if t.ID == "" {
		return fmt.Errorf("tip ID cannot be empty for Create operation")
	}
	if t.Likes == nil {
		t.Likes = []string{}
	}
	if _, err := r.col().Doc(t.ID).Create(ctx, t); err != nil {
		return wrap(err, "failed to create tip '%s'", t.ID)
	}
	t.Normalize()
	return nil
}

func (r *firestoreTipRepository) GetByID(ctx context.Context, id string) (*models.Tip, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, wrap(err, "failed to get tip '%s'", id)
	}
	var t models.Tip
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to decode tip '%s': %w", id, err)
	}
	t.ID = snap.Ref.ID
	t.Normalize()
	return &t, nil
}

func (r *firestoreTipRepository) List(ctx context.Context, q models.TipQuery) ([]*models.Tip, error) {
	query := r.col().Query
	if q.LikedBy != "" {
		query = query.Where("likes", "array-contains", q.LikedBy)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}
	}

	tips, err := decodeAll(query.Documents(ctx), func(t *models.Tip, id string) { t.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list tips: %w", err)
	}
	for _, t := range tips {
		t.Normalize()
	}
	SortTips(tips)
	if q.Limit > 0 && len(tips) > q.Limit {
		tips = tips[:q.Limit]
	}
	return tips, nil
}

func (r *firestoreTipRepository) Update(ctx context.Context, t *models.Tip) error {
	_, err := r.col().Doc(t.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: t.Title},
		{Path: "content", Value: t.Content},
		{Path: "category", Value: t.Category},
		{Path: "authorName", Value: t.AuthorName},
		{Path: "updatedAt", Value: t.UpdatedAt},
	})
	if err != nil {
		return wrap(err, "failed to update tip '%s'", t.ID)
	}
	return nil
}

func (r *firestoreTipRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return wrap(err, "failed to delete tip '%s'", id)
	}
	return nil
}

func (r *firestoreTipRepository) AddLike(ctx context.Context, id, email string, now time.Time) (*models.Tip, error) {
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "likes", Value: firestore.ArrayUnion(email)},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return nil, wrap(err, "failed to like tip '%s'", id)
	}
	return r.GetByID(ctx, id)
}

// SortTips orders tips newest first.
func SortTips(tips []*models.Tip) {
	slices.SortStableFunc(tips, func(a, b *models.Tip) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
