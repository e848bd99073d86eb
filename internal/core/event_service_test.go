package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecotrack-backend-go/internal/models"
)

func newEventService(opts EventOptions) (EventService, *recordingPublisher) {
	store := newStore()
	pub := &recordingPublisher{}
	return NewEventService(store.Events(), store.Users(), pub, opts), pub
}

func TestEventRSVPRespectsCapacity(t *testing.T) {
	svc, pub := newEventService(EventOptions{DeleteRequiresOwner: true})
	ctx := context.Background()

	e, err := svc.Create(ctx, owner, models.CreateEventRequest{Title: "River cleanup", Date: "2030-05-01T10:00:00Z", MaxParticipants: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.CreatedBy != owner.Email {
		t.Fatalf("expected createdBy %q, got %q", owner.Email, e.CreatedBy)
	}

	got, err := svc.RSVP(ctx, stranger, e.ID)
	if err != nil {
		t.Fatalf("RSVP: %v", err)
	}
	if got.CurrentParticipants != 1 {
		t.Fatalf("expected 1 attendee, got %d", got.CurrentParticipants)
	}
	if _, err := svc.RSVP(ctx, stranger, e.ID); err != nil {
		t.Fatalf("repeat RSVP must be a no-op, got %v", err)
	}
	if _, err := svc.RSVP(ctx, admin, e.ID); !errors.Is(err, ErrEventFull) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrEventFull, got %v", err)
	}
	if n := len(pub.types()); n != 2 {
		t.Fatalf("expected 2 rsvp activities, got %d", n)
	}
}

func TestEventDeleteOwnershipIsConfigurable(t *testing.T) {
	ctx := context.Background()

	strict, _ := newEventService(EventOptions{DeleteRequiresOwner: true})
	e, err := strict.Create(ctx, owner, models.CreateEventRequest{Title: "Swap meet", Date: "2030-01-01"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := strict.Delete(ctx, stranger, e.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := strict.Delete(ctx, admin, e.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}

	open, _ := newEventService(EventOptions{DeleteRequiresOwner: false})
	e, err = open.Create(ctx, owner, models.CreateEventRequest{Title: "Swap meet", Date: "2030-01-01"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := open.Delete(ctx, stranger, e.ID); err != nil {
		t.Fatalf("expected any caller to delete, got %v", err)
	}
}

func TestEventUpdateOwnership(t *testing.T) {
	svc, _ := newEventService(EventOptions{DeleteRequiresOwner: true})
	ctx := context.Background()
	e, err := svc.Create(ctx, owner, models.CreateEventRequest{Title: "Tree planting", Date: "2030-04-22"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Update(ctx, stranger, e.ID, models.UpdateEventRequest{Location: ptr("Park")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, err := svc.Update(ctx, owner, e.ID, models.UpdateEventRequest{Location: ptr("Park"), MaxParticipants: ptr(30)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Location != "Park" || got.MaxParticipants != 30 {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestEventUpcoming(t *testing.T) {
	svc, _ := newEventService(EventOptions{})
	ctx := context.Background()
	base := time.Now().UTC()
	for _, offset := range []time.Duration{-48 * time.Hour, 72 * time.Hour, 24 * time.Hour, 96 * time.Hour, 120 * time.Hour, 144 * time.Hour} {
		if _, err := svc.Create(ctx, owner, models.CreateEventRequest{Title: "e", Date: base.Add(offset).Format(time.RFC3339)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	events, err := svc.Upcoming(ctx, 0)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(events) != DefaultUpcomingEventsLimit {
		t.Fatalf("expected %d events, got %d", DefaultUpcomingEventsLimit, len(events))
	}
	for i, e := range events {
		if e.Date.Before(base) {
			t.Fatalf("past event returned: %s", e.Date)
		}
		if i > 0 && e.Date.Before(events[i-1].Date) {
			t.Fatal("events must be soonest first")
		}
	}
}
