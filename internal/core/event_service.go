package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ecotrack-backend-go/internal/activity"
	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/models"
)

// DefaultUpcomingEventsLimit is the size of GET /events/upcoming.
const DefaultUpcomingEventsLimit = 4

// EventOptions tunes EventService policy.
type EventOptions struct {
	// DeleteRequiresOwner restricts deletion to the creator or an admin.
	DeleteRequiresOwner bool
}

type eventService struct {
	eventRepo db.EventRepository
	owners    ownership
	publisher activity.Publisher
	opts      EventOptions
}

// NewEventService creates a new EventService instance.
func NewEventService(er db.EventRepository, ur db.UserRepository, pub activity.Publisher, opts EventOptions) EventService {
	return &eventService{eventRepo: er, owners: ownership{users: ur}, publisher: pub, opts: opts}
}

func (s *eventService) List(ctx context.Context, limit int) ([]*models.Event, error) {
	return s.eventRepo.List(ctx, models.EventQuery{Limit: limit})
}

func (s *eventService) Upcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = DefaultUpcomingEventsLimit
	}
	from := now()
	return s.eventRepo.List(ctx, models.EventQuery{From: &from, Limit: limit})
}

func (s *eventService) Get(ctx context.Context, id string) (*models.Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	return e, nil
}

func (s *eventService) Create(ctx context.Context, caller Identity, req models.CreateEventRequest) (*models.Event, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if req.MaxParticipants < 0 {
		return nil, fmt.Errorf("%w: maxParticipants must be non-negative", ErrInvalidArgument)
	}
	ts := now()
	e := &models.Event{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Date:            date,
		Location:        req.Location,
		Organizer:       req.Organizer,
		MaxParticipants: req.MaxParticipants,
		Attendees:       []string{},
		CreatedBy:       caller.Email,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

func (s *eventService) Update(ctx context.Context, caller Identity, id string, req models.UpdateEventRequest) (*models.Event, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.owners.authorize(ctx, caller, e.CreatedBy); err != nil {
		return nil, err
	}
	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Organizer != nil {
		e.Organizer = *req.Organizer
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 0 {
			return nil, fmt.Errorf("%w: maxParticipants must be non-negative", ErrInvalidArgument)
		}
		e.MaxParticipants = *req.MaxParticipants
	}
	if req.Date != nil {
		if e.Date, err = parseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if e.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidArgument)
	}
	e.UpdatedAt = now()
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, notFound(err, ErrEventNotFound)
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, caller Identity, id string) error {
	if err := caller.check(); err != nil {
		return err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.opts.DeleteRequiresOwner {
		if err := s.owners.authorize(ctx, caller, e.CreatedBy); err != nil {
			return err
		}
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrEventNotFound)
	}
	return nil
}

// RSVP set-adds the caller to the attendees. A repeat RSVP is a no-op even
// when the event is full.
func (s *eventService) RSVP(ctx context.Context, caller Identity, id string) (*models.Event, error) {
	if err := caller.check(); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	e, err := s.eventRepo.AddAttendee(ctx, id, caller.Email, now())
	if err != nil {
		if errors.Is(err, db.ErrCapacityReached) {
			return nil, ErrEventFull
		}
		return nil, notFound(err, ErrEventNotFound)
	}
	s.publisher.Publish(ctx, activity.Event{Type: activity.EventRSVP, Actor: caller.Email, ResourceID: id, At: now()})
	return e, nil
}
