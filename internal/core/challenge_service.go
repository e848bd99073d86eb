package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecotrack-backend-go/internal/activity"
	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/models"
)

// Default result sizes for the home page listings.
const (
	DefaultFeaturedLimit = 3
	DefaultActiveLimit   = 6
)

// ChallengeFilter carries the raw query of GET /challenges/filter.
type ChallengeFilter struct {
	Categories      []string
	StartDate       string
	EndDate         string
	MinParticipants *int
	MaxParticipants *int
	Limit           int
}

type challengeService struct {
	challengeRepo db.ChallengeRepository
	owners        ownership
	publisher     activity.Publisher
}

// NewChallengeService creates a new ChallengeService instance.
func NewChallengeService(cr db.ChallengeRepository, ur db.UserRepository, pub activity.Publisher) ChallengeService {
	return &challengeService{
		challengeRepo: cr,
		owners:        ownership{users: ur},
		publisher:     pub,
	}
}

func (s *challengeService) List(ctx context.Context, limit int) ([]*models.Challenge, error) {
	return s.challengeRepo.List(ctx, models.ChallengeQuery{Limit: limit})
}

func (s *challengeService) Get(ctx context.Context, id string) (*models.Challenge, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	c, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrChallengeNotFound)
	}
	return c, nil
}

// Create stores a new challenge owned by the caller.
//
// The owner is always the token's email. The request carries no createdBy,
// and one sent by an older client is dropped during binding.
func (s *challengeService) Create(ctx context.Context, caller Identity, req models.CreateChallengeRequest) (*models.Challenge, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	ts := now()
	c := &models.Challenge{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		Category:     strings.TrimSpace(req.Category),
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Target:       req.Target,
		ImpactMetric: req.ImpactMetric,
		Participants: []string{},
		StartDate:    start,
		EndDate:      end,
		ImageURL:     req.ImageURL,
		CreatedBy:    caller.Email,
		Featured:     req.Featured,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := s.challengeRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	s.publish(ctx, activity.ChallengeCreated, caller, c.ID)
	return c, nil
}

func (s *challengeService) Update(ctx context.Context, caller Identity, id string, req models.UpdateChallengeRequest) (*models.Challenge, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.owners.authorize(ctx, caller, c.CreatedBy); err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		c.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.DurationDays != nil {
		c.DurationDays = *req.DurationDays
	}
	if req.Target != nil {
		c.Target = *req.Target
	}
	if req.ImpactMetric != nil {
		c.ImpactMetric = *req.ImpactMetric
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.Featured != nil {
		c.Featured = *req.Featured
	}
	if req.StartDate != nil {
		if c.StartDate, err = parseDate("startDate", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if c.EndDate, err = parseDate("endDate", *req.EndDate); err != nil {
			return nil, err
		}
	}
	if c.EndDate.Before(c.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if c.Title == "" || c.Category == "" {
		return nil, fmt.Errorf("%w: title and category cannot be empty", ErrInvalidArgument)
	}
	c.UpdatedAt = now()

	if err := s.challengeRepo.Update(ctx, c); err != nil {
		return nil, notFound(err, ErrChallengeNotFound)
	}
	return c, nil
}

func (s *challengeService) Delete(ctx context.Context, caller Identity, id string) error {
	if err := caller.check(); err != nil {
		return err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.owners.authorize(ctx, caller, c.CreatedBy); err != nil {
		return err
	}
	if err := s.challengeRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrChallengeNotFound)
	}
	return nil
}

// Join set-adds the caller to the challenge's participants. Joining twice is a no-op.
//
// This is the lightweight join behind PATCH /challenges/join/:id. It only
// touches the membership list and creates no userChallenges record; progress
// tracking goes through participationService.Join, which writes both.
func (s *challengeService) Join(ctx context.Context, caller Identity, id string) (*models.Challenge, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	c, err := s.challengeRepo.AddParticipant(ctx, id, caller.Email, now())
	if err != nil {
		return nil, notFound(err, ErrChallengeNotFound)
	}
	s.publish(ctx, activity.ChallengeJoined, caller, id)
	return c, nil
}

func (s *challengeService) Featured(ctx context.Context, limit int) ([]*models.Challenge, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return s.challengeRepo.List(ctx, models.ChallengeQuery{FeaturedOnly: true, Limit: limit})
}

func (s *challengeService) Active(ctx context.Context, limit int) ([]*models.Challenge, error) {
	if limit <= 0 {
		limit = DefaultActiveLimit
	}
	at := now()
	return s.challengeRepo.List(ctx, models.ChallengeQuery{ActiveAt: &at, Limit: limit})
}

// Filter applies inclusive bounds. Date bounds apply to the challenge start date;
// a plain end date covers that whole day.
func (s *challengeService) Filter(ctx context.Context, f ChallengeFilter) ([]*models.Challenge, error) {
	q := models.ChallengeQuery{Limit: f.Limit}
	for _, c := range f.Categories {
		if c = strings.TrimSpace(c); c != "" {
			q.Categories = append(q.Categories, c)
		}
	}
	if f.StartDate != "" {
		from, err := parseDate("startDate", f.StartDate)
		if err != nil {
			return nil, err
		}
		q.StartFrom = &from
	}
	if f.EndDate != "" {
		to, err := parseDate("endDate", f.EndDate)
		if err != nil {
			return nil, err
		}
		if _, dateOnly := time.Parse(time.DateOnly, strings.TrimSpace(f.EndDate)); dateOnly == nil {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		q.StartTo = &to
	}
	if q.StartFrom != nil && q.StartTo != nil && q.StartTo.Before(*q.StartFrom) {
		return nil, ErrInvalidDateRange
	}
	for _, bound := range []*int{f.MinParticipants, f.MaxParticipants} {
		if bound != nil && *bound < 0 {
			return nil, fmt.Errorf("%w: participant bounds must be non-negative", ErrInvalidArgument)
		}
	}
	q.MinParticipants = f.MinParticipants
	q.MaxParticipants = f.MaxParticipants
	return s.challengeRepo.List(ctx, q)
}

func (s *challengeService) publish(ctx context.Context, kind string, caller Identity, id string) {
	s.publisher.Publish(ctx, activity.Event{Type: kind, Actor: caller.Email, ResourceID: id, At: now()})
}

