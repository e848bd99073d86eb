package db

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"

	"ecotrack-backend-go/internal/models"
)

const eventsCollection = "events"

type firestoreEventRepository struct {
	client *firestore.Client
}

// NewFirestoreEventRepository creates an EventRepository backed by Firestore.
func NewFirestoreEventRepository(client *firestore.Client) EventRepository {
	return &firestoreEventRepository{client: client}
}

func (r *firestoreEventRepository) col() *firestore.CollectionRef {
	return r.client.Collection(eventsCollection)
}

func (r *firestoreEventRepository) Create(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		return fmt.Errorf("event ID cannot be empty for Create operation")
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if _, err := r.col().Doc(e.ID).Create(ctx, e); err != nil {
		return wrap(err, "failed to create event '%s'", e.ID)
	}
	e.Normalize()
	return nil
}

func (r *firestoreEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, wrap(err, "failed to get event '%s'", id)
	}
	return decodeEvent(snap)
}

func (r *firestoreEventRepository) List(ctx context.Context, q models.EventQuery) ([]*models.Event, error) {
	query := r.col().Query
	if q.Attendee != "" {
		query = query.Where("attendees", "array-contains", q.Attendee)
	} else {
		if q.From != nil {
			query = query.Where("date", ">=", *q.From)
		}
		query = query.OrderBy("date", firestore.Asc)
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}
	}

	all, err := decodeAll(query.Documents(ctx), func(e *models.Event, id string) { e.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	events := make([]*models.Event, 0, len(all))
	for _, e := range all {
		e.Normalize()
		if q.From != nil && e.Date.Before(*q.From) {
			continue
		}
		events = append(events, e)
	}
	SortEvents(events)
	if q.Limit > 0 && len(events) > q.Limit {
		events = events[:q.Limit]
	}
	return events, nil
}

func (r *firestoreEventRepository) Update(ctx context.Context, e *models.Event) error {
	_, err := r.col().Doc(e.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: e.Title},
		{Path: "description", Value: e.Description},
		{Path: "date", Value: e.Date},
		{Path: "location", Value: e.Location},
		{Path: "organizer", Value: e.Organizer},
		{Path: "maxParticipants", Value: e.MaxParticipants},
		{Path: "updatedAt", Value: e.UpdatedAt},
	})
	if err != nil {
		return wrap(err, "failed to update event '%s'", e.ID)
	}
	return nil
}

func (r *firestoreEventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return wrap(err, "failed to delete event '%s'", id)
	}
	return nil
}

// AddAttendee reads the event and adds the attendee in one transaction so
// that concurrent RSVPs cannot overshoot maxParticipants.
func (r *firestoreEventRepository) AddAttendee(ctx context.Context, id, email string, now time.Time) (*models.Event, error) {
	ref := r.col().Doc(id)
	var result *models.Event
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		e, err := decodeEvent(snap)
		if err != nil {
			return err
		}
		if e.HasAttendee(email) {
			result = e
			return nil
		}
		if e.IsFull() {
			return ErrCapacityReached
		}
		e.Attendees = append(e.Attendees, email)
		e.UpdatedAt = now
		e.Normalize()
		result = e
		return tx.Update(ref, []firestore.Update{
			{Path: "attendees", Value: firestore.ArrayUnion(email)},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		if errors.Is(err, ErrCapacityReached) {
			return nil, fmt.Errorf("event '%s': %w", id, err)
		}
		return nil, wrap(err, "failed to add attendee to event '%s'", id)
	}
	return result, nil
}

func decodeEvent(snap *firestore.DocumentSnapshot) (*models.Event, error) {
	var e models.Event
	if err := snap.DataTo(&e); err != nil {
		return nil, fmt.Errorf("failed to decode event '%s': %w", snap.Ref.ID, err)
	}
	e.ID = snap.Ref.ID
	e.Normalize()
	return &e, nil
}

// SortEvents orders events soonest first.
func SortEvents(events []*models.Event) {
	slices.SortStableFunc(events, func(a, b *models.Event) int {
		return a.Date.Compare(b.Date)
	})
}
