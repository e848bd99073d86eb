package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ecotrack-backend-go/internal/activity"
	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/models"
)

// DefaultRecentTipsLimit is the size of GET /tips/recent.
const DefaultRecentTipsLimit = 5

type tipService struct {
	tipRepo   db.TipRepository
	owners    ownership
	publisher activity.Publisher
}

// NewTipService creates a new TipService instance.
func NewTipService(tr db.TipRepository, ur db.UserRepository, pub activity.Publisher) TipService {
	return &tipService{tipRepo: tr, owners: ownership{users: ur}, publisher: pub}
}

func (s *tipService) List(ctx context.Context, limit int) ([]*models.Tip, error) {
	return s.tipRepo.List(ctx, models.TipQuery{Limit: limit})
}

func (s *tipService) Recent(ctx context.Context, limit int) ([]*models.Tip, error) {
	if limit <= 0 {
		limit = DefaultRecentTipsLimit
	}
	return s.tipRepo.List(ctx, models.TipQuery{Limit: limit})
}

func (s *tipService) Get(ctx context.Context, id string) (*models.Tip, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	t, err := s.tipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTipNotFound)
	}
	return t, nil
}

// Create stores a tip authored by the caller. The author name falls back to
// the caller's display name.
func (s *tipService) Create(ctx context.Context, caller Identity, req models.CreateTipRequest) (*models.Tip, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	authorName := strings.TrimSpace(req.AuthorName)
	if authorName == "" {
		authorName = caller.DisplayName
	}
	ts := now()
	t := &models.Tip{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Category:   req.Category,
		Author:     caller.Email,
		AuthorName: authorName,
		Likes:      []string{},
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	if err := s.tipRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tip: %w", err)
	}
	return t, nil
}

func (s *tipService) Update(ctx context.Context, caller Identity, id string, req models.UpdateTipRequest) (*models.Tip, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.owners.authorize(ctx, caller, t.Author); err != nil {
		return nil, err
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		t.Content = *req.Content
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.AuthorName != nil {
		t.AuthorName = *req.AuthorName
	}
	if t.Title == "" || t.Content == "" {
		return nil, fmt.Errorf("%w: title and content cannot be empty", ErrInvalidArgument)
	}
	t.UpdatedAt = now()
	if err := s.tipRepo.Update(ctx, t); err != nil {
		return nil, notFound(err, ErrTipNotFound)
	}
	return t, nil
}

func (s *tipService) Delete(ctx context.Context, caller Identity, id string) error {
	if err := caller.check(); err != nil {
		return err
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.owners.authorize(ctx, caller, t.Author); err != nil {
		return err
	}
	if err := s.tipRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrTipNotFound)
	}
	return nil
}

// Like set-adds the caller to the tip's likes. Liking twice is a no-op.
func (s *tipService) Like(ctx context.Context, caller Identity, id string) (*models.Tip, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	t, err := s.tipRepo.AddLike(ctx, id, caller.Email, now())
	if err != nil {
		return nil, notFound(err, ErrTipNotFound)
	}
	s.publisher.Publish(ctx, activity.Event{Type: activity.TipLiked, Actor: caller.Email, ResourceID: id, At: now()})
	return t, nil
}
