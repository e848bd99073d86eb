package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecotrack-backend-go/internal/activity"
	"ecotrack-backend-go/internal/db/dbtest"
	"ecotrack-backend-go/internal/models"
)

var (
	owner    = Identity{UID: "u-owner", Email: "owner@example.com", DisplayName: "Owner"}
	stranger = Identity{UID: "u-stranger", Email: "stranger@example.com"}
	admin    = Identity{UID: "u-admin", Email: "admin@example.com"}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []activity.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e activity.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newStore() *dbtest.Store {
	s := dbtest.NewStore()
	s.PutUser(models.User{Email: owner.Email, Role: models.RoleUser})
	s.PutUser(models.User{Email: stranger.Email, Role: models.RoleUser})
	s.PutUser(models.User{Email: admin.Email, Role: models.RoleAdmin})
	return s
}

func seedChallenge(s *dbtest.Store, mutate func(*models.Challenge)) models.Challenge {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := models.Challenge{
		ID:        uuid.NewString(),
		Title:     "Bike to work",
		Category:  "transport",
		StartDate: ts,
		EndDate:   ts.AddDate(0, 1, 0),
		CreatedBy: owner.Email,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if mutate != nil {
		mutate(&c)
	}
	s.PutChallenge(c)
	return c
}

func ptr[T any](v T) *T { return &v }
