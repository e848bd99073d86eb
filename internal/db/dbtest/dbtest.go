// Package dbtest provides in-memory implementations of the db repositories
// for service and handler tests.
package dbtest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"ecotrack-backend-go/internal/db"
	"ecotrack-backend-go/internal/models"
)

// Store holds every collection behind one lock.
type Store struct {
	mu             sync.Mutex
	users          map[string]models.User
	challenges     map[string]models.Challenge
	tips           map[string]models.Tip
	events         map[string]models.Event
	participations map[string]models.Participation

	// Err, when set, is returned by every repository call.
	Err error
	// ChallengeWriteErr, when set, fails every write that touches the
	// challenges collection. Reads keep working.
	ChallengeWriteErr error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:          map[string]models.User{},
		challenges:     map[string]models.Challenge{},
		tips:           map[string]models.Tip{},
		events:         map[string]models.Event{},
		participations: map[string]models.Participation{},
	}
}

// Users returns a UserRepository over s.
func (s *Store) Users() db.UserRepository { return userRepo{s} }

// Challenges returns a ChallengeRepository over s.
func (s *Store) Challenges() db.ChallengeRepository { return challengeRepo{s} }

// Tips returns a TipRepository over s.
func (s *Store) Tips() db.TipRepository { return tipRepo{s} }

// Events returns an EventRepository over s.
func (s *Store) Events() db.EventRepository { return eventRepo{s} }

// Participations returns a ParticipationRepository over s.
func (s *Store) Participations() db.ParticipationRepository { return participationRepo{s} }

// PutUser stores u as is.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Email] = u
}

// PutChallenge stores c as is.
func (s *Store) PutChallenge(c models.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Participants = slices.Clone(c.Participants)
	s.challenges[c.ID] = c
}

// PutTip stores t as is.
func (s *Store) PutTip(t models.Tip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Likes = slices.Clone(t.Likes)
	s.tips[t.ID] = t
}

// PutEvent stores e as is.
func (s *Store) PutEvent(e models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Attendees = slices.Clone(e.Attendees)
	s.events[e.ID] = e
}

// PutParticipation stores p as is.
func (s *Store) PutParticipation(p models.Participation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participations[p.ID] = p
}

// ParticipationCount returns the number of stored participations.
func (s *Store) ParticipationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participations)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s '%s': %w", kind, id, db.ErrNotFound)
}

type userRepo struct{ s *Store }

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.users[email]
	if !ok {
		return nil, notFound("user", email)
	}
	return &u, nil
}

func (r userRepo) Upsert(_ context.Context, p models.SyncProfile, now time.Time) (*models.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, false, r.s.Err
	}
	u, exists := r.s.users[p.Email]
	if !exists {
		u = models.User{Email: p.Email, Role: models.RoleUser, CreatedAt: now}
	}
	u.DisplayName = p.DisplayName
	u.PhotoURL = p.PhotoURL
	u.IdentityProvider = p.IdentityProvider
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	r.s.users[p.Email] = u
	return &u, !exists, nil
}

func (r userRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.users[u.Email]
	if !ok {
		return notFound("user", u.Email)
	}
	cur.DisplayName = u.DisplayName
	cur.PhotoURL = u.PhotoURL
	cur.Role = u.Role
	cur.UpdatedAt = u.UpdatedAt
	r.s.users[u.Email] = cur
	return nil
}

func (r userRepo) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []*models.User{}
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type challengeRepo struct{ s *Store }

func (r challengeRepo) Create(_ context.Context, c *models.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.s.ChallengeWriteErr != nil {
		return r.s.ChallengeWriteErr
	}
	if _, ok := r.s.challenges[c.ID]; ok {
		return fmt.Errorf("challenge '%s': %w", c.ID, db.ErrAlreadyExists)
	}
	c.Normalize()
	stored := *c
	stored.Participants = slices.Clone(c.Participants)
	r.s.challenges[c.ID] = stored
	return nil
}

func (r challengeRepo) get(id string) (*models.Challenge, error) {
	c, ok := r.s.challenges[id]
	if !ok {
		return nil, notFound("challenge", id)
	}
	c.Participants = slices.Clone(c.Participants)
	c.Normalize()
	return &c, nil
}

func (r challengeRepo) GetByID(_ context.Context, id string) (*models.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.get(id)
}

func (r challengeRepo) GetByIDs(_ context.Context, ids []string) ([]*models.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []*models.Challenge{}
	for _, id := range ids {
		if c, err := r.get(id); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r challengeRepo) List(_ context.Context, q models.ChallengeQuery) ([]*models.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []*models.Challenge{}
	for id := range r.s.challenges {
		c, _ := r.get(id)
		if q.Matches(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	db.SortChallenges(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r challengeRepo) Update(_ context.Context, c *models.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.s.ChallengeWriteErr != nil {
		return r.s.ChallengeWriteErr
	}
	cur, ok := r.s.challenges[c.ID]
	if !ok {
		return notFound("challenge", c.ID)
	}
	participants := cur.Participants
	cur = *c
	cur.Participants = participants
	r.s.challenges[c.ID] = cur
	return nil
}

func (r challengeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.s.ChallengeWriteErr != nil {
		return r.s.ChallengeWriteErr
	}
	if _, ok := r.s.challenges[id]; !ok {
		return notFound("challenge", id)
	}
	delete(r.s.challenges, id)
	return nil
}

func (r challengeRepo) AddParticipant(_ context.Context, id, email string, now time.Time) (*models.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if r.s.ChallengeWriteErr != nil {
		return nil, r.s.ChallengeWriteErr
	}
	cur, ok := r.s.challenges[id]
	if !ok {
		return nil, notFound("challenge", id)
	}
	if !slices.Contains(cur.Participants, email) {
		cur.Participants = append(slices.Clone(cur.Participants), email)
	}
	cur.UpdatedAt = now
	r.s.challenges[id] = cur
	return r.get(id)
}

type tipRepo struct{ s *Store }

func (r tipRepo) Create(_ context.Context, t *models.Tip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	t.Normalize()
	stored := *t
	stored.Likes = slices.Clone(t.Likes)
	r.s.tips[t.ID] = stored
	return nil
}

func (r tipRepo) get(id string) (*models.Tip, error) {
	t, ok := r.s.tips[id]
	if !ok {
		return nil, notFound("tip", id)
	}
	t.Likes = slices.Clone(t.Likes)
	t.Normalize()
	return &t, nil
}

func (r tipRepo) GetByID(_ context.Context, id string) (*models.Tip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.get(id)
}

func (r tipRepo) List(_ context.Context, q models.TipQuery) ([]*models.Tip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []*models.Tip{}
	for id := range r.s.tips {
		t, _ := r.get(id)
		if q.LikedBy != "" && !t.LikedBy(q.LikedBy) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	db.SortTips(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r tipRepo) Update(_ context.Context, t *models.Tip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.tips[t.ID]
	if !ok {
		return notFound("tip", t.ID)
	}
	likes := cur.Likes
	cur = *t
	cur.Likes = likes
	r.s.tips[t.ID] = cur
	return nil
}

func (r tipRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.tips[id]; !ok {
		return notFound("tip", id)
	}
	delete(r.s.tips, id)
	return nil
}

func (r tipRepo) AddLike(_ context.Context, id, email string, now time.Time) (*models.Tip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	cur, ok := r.s.tips[id]
	if !ok {
		return nil, notFound("tip", id)
	}
	if !slices.Contains(cur.Likes, email) {
		cur.Likes = append(slices.Clone(cur.Likes), email)
	}
	cur.UpdatedAt = now
	r.s.tips[id] = cur
	return r.get(id)
}

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	e.Normalize()
	stored := *e
	stored.Attendees = slices.Clone(e.Attendees)
	r.s.events[e.ID] = stored
	return nil
}

func (r eventRepo) get(id string) (*models.Event, error) {
	e, ok := r.s.events[id]
	if !ok {
		return nil, notFound("event", id)
	}
	e.Attendees = slices.Clone(e.Attendees)
	e.Normalize()
	return &e, nil
}

func (r eventRepo) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.get(id)
}

func (r eventRepo) List(_ context.Context, q models.EventQuery) ([]*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []*models.Event{}
	for id := range r.s.events {
		e, _ := r.get(id)
		if q.Attendee != "" && !e.HasAttendee(q.Attendee) {
			continue
		}
		if q.From != nil && e.Date.Before(*q.From) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	db.SortEvents(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r eventRepo) Update(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.events[e.ID]
	if !ok {
		return notFound("event", e.ID)
	}
	attendees := cur.Attendees
	cur = *e
	cur.Attendees = attendees
	r.s.events[e.ID] = cur
	return nil
}

func (r eventRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.events[id]; !ok {
		return notFound("event", id)
	}
	delete(r.s.events, id)
	return nil
}

func (r eventRepo) AddAttendee(_ context.Context, id, email string, now time.Time) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	cur, ok := r.s.events[id]
	if !ok {
		return nil, notFound("event", id)
	}
	if slices.Contains(cur.Attendees, email) {
		return r.get(id)
	}
	if cur.IsFull() {
		return nil, fmt.Errorf("event '%s': %w", id, db.ErrCapacityReached)
	}
	cur.Attendees = append(slices.Clone(cur.Attendees), email)
	cur.UpdatedAt = now
	r.s.events[id] = cur
	return r.get(id)
}

type participationRepo struct{ s *Store }

// CreateAndJoin applies both writes under the store lock, or neither.
func (r participationRepo) CreateAndJoin(_ context.Context, p *models.Participation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	c, ok := r.s.challenges[p.ChallengeID]
	if !ok {
		return notFound("challenge", p.ChallengeID)
	}
	if _, ok := r.s.participations[p.ID]; ok {
		return fmt.Errorf("participation '%s': %w", p.ID, db.ErrAlreadyExists)
	}
	if r.s.ChallengeWriteErr != nil {
		return r.s.ChallengeWriteErr
	}
	if !slices.Contains(c.Participants, p.UserID) {
		c.Participants = append(slices.Clone(c.Participants), p.UserID)
	}
	c.UpdatedAt = p.JoinDate
	r.s.challenges[p.ChallengeID] = c
	r.s.participations[p.ID] = *p
	return nil
}

func (r participationRepo) GetByID(_ context.Context, id string) (*models.Participation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.participations[id]
	if !ok {
		return nil, notFound("participation", id)
	}
	return &p, nil
}

func (r participationRepo) ListByUser(_ context.Context, userID string) ([]*models.Participation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []*models.Participation{}
	for _, p := range r.s.participations {
		p := p
		if p.UserID == userID {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	db.SortParticipations(out)
	return out, nil
}

func (r participationRepo) Update(_ context.Context, p *models.Participation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.participations[p.ID]
	if !ok {
		return notFound("participation", p.ID)
	}
	cur.Status = p.Status
	cur.Progress = p.Progress
	cur.UpdatedAt = p.UpdatedAt
	r.s.participations[p.ID] = cur
	return nil
}
