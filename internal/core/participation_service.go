package core

import (
	"context"
	"errors"
	"fmt"

	"ecotrack-backend-go/internal/activity"
	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/models"
)

type participationService struct {
	participationRepo db.ParticipationRepository
	challengeRepo     db.ChallengeRepository
	publisher         activity.Publisher
}

// NewParticipationService creates a new ParticipationService instance.
func NewParticipationService(pr db.ParticipationRepository, cr db.ChallengeRepository, pub activity.Publisher) ParticipationService {
	return &participationService{participationRepo: pr, challengeRepo: cr, publisher: pub}
}

// Join records the caller's participation and adds them to the challenge's
// participants in a single store transaction, so a failure leaves neither
// write behind and a retry starts clean.
//
// The record ID is derived from the (user, challenge) pair. Two concurrent
// joins by the same user therefore race on one document ID and the loser gets
// ErrAlreadyJoined instead of creating a second record.
func (s *participationService) Join(ctx context.Context, caller Identity, challengeID string) (*models.Participation, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	if err := validateID(challengeID); err != nil {
		return nil, err
	}

	ts := now()
	p := &models.Participation{
		ID:          ParticipationID(caller.Email, challengeID),
		UserID:      caller.Email,
		ChallengeID: challengeID,
		Status:      models.StatusNotStarted,
		Progress:    0,
		JoinDate:    ts,
		UpdatedAt:   ts,
	}
	if err := s.participationRepo.CreateAndJoin(ctx, p); err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyExists):
			return nil, ErrAlreadyJoined
		case errors.Is(err, db.ErrNotFound):
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to join challenge '%s': %w", challengeID, err)
	}
	s.publisher.Publish(ctx, activity.Event{Type: activity.ChallengeJoined, Actor: caller.Email, ResourceID: challengeID, At: ts})
	return p, nil
}

func (s *participationService) UpdateProgress(ctx context.Context, caller Identity, id string, req models.UpdateProgressRequest) (*models.Participation, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	if req.Status != nil && !models.ValidParticipationStatus(*req.Status) {
		return nil, ErrInvalidStatus
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return nil, ErrInvalidProgress
	}

	p, err := s.participationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrParticipationNotFound)
	}
	if p.UserID != caller.Email {
		return nil, ErrNotParticipant
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Progress != nil {
		p.Progress = *req.Progress
	}
	p.UpdatedAt = now()
	if err := s.participationRepo.Update(ctx, p); err != nil {
		return nil, notFound(err, ErrParticipationNotFound)
	}
	return p, nil
}

// ListForUser returns the user's participations joined with their challenges,
// newest join first. Records whose challenge is gone are dropped.
func (s *participationService) ListForUser(ctx context.Context, userID string) ([]models.EnrichedParticipation, error) {
	return enrichParticipations(ctx, s.participationRepo, s.challengeRepo, userID)
}

func enrichParticipations(ctx context.Context, pr db.ParticipationRepository, cr db.ChallengeRepository, userID string) ([]models.EnrichedParticipation, error) {
	ps, err := pr.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ChallengeID)
	}
	challenges, err := cr.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenges: %w", err)
	}
	byID := make(map[string]*models.Challenge, len(challenges))
	for _, c := range challenges {
		byID[c.ID] = c
	}

	// Challenge deletion does not cascade to userChallenges, so a record may
	// reference a challenge that is gone. Such records are left out of the
	// view rather than failing it.
	out := make([]models.EnrichedParticipation, 0, len(ps))
	for _, p := range ps {
		c, ok := byID[p.ChallengeID]
		if !ok {
			continue
		}
		out = append(out, models.EnrichedParticipation{
			UserChallengeID: p.ID,
			Status:          p.Status,
			Progress:        p.Progress,
			JoinDate:        p.JoinDate,
			UpdatedAt:       p.UpdatedAt,
			Challenge:       c,
		})
	}
	return out, nil
}
