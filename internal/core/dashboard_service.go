package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/models"
)

type dashboardService struct {
	participationRepo db.ParticipationRepository
	challengeRepo     db.ChallengeRepository
	tipRepo           db.TipRepository
	eventRepo         db.EventRepository
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(pr db.ParticipationRepository, cr db.ChallengeRepository, tr db.TipRepository, er db.EventRepository) DashboardService {
	return &dashboardService{participationRepo: pr, challengeRepo: cr, tipRepo: tr, eventRepo: er}
}

// Dashboard loads the user's challenges, liked tips and attended events
// concurrently. Any branch failing fails the whole view.
func (s *dashboardService) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	if userID == "" {
		return nil, ErrMissingEmail
	}
	dash := &models.Dashboard{
		Challenges: []models.EnrichedParticipation{},
		Tips:       []*models.Tip{},
		Events:     []*models.Event{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		challenges, err := enrichParticipations(gctx, s.participationRepo, s.challengeRepo, userID)
		if err != nil {
			return err
		}
		dash.Challenges = challenges
		return nil
	})
	g.Go(func() error {
		tips, err := s.tipRepo.List(gctx, models.TipQuery{LikedBy: userID})
		if err != nil {
			return fmt.Errorf("failed to list liked tips: %w", err)
		}
		dash.Tips = tips
		return nil
	})
	g.Go(func() error {
		events, err := s.eventRepo.List(gctx, models.EventQuery{Attendee: userID})
		if err != nil {
			return fmt.Errorf("failed to list attended events: %w", err)
		}
		dash.Events = events
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dash, nil
}

// ImpactStats aggregates impact across all challenges.
func (s *dashboardService) ImpactStats(ctx context.Context) (*models.ImpactStats, error) {
	challenges, err := s.challengeRepo.List(ctx, models.ChallengeQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return computeImpact(challenges), nil
}
