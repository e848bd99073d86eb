package models

import (
	"slices"
	"time"
)

// Challenge is a community sustainability challenge.
type Challenge struct {
	ID               string    `json:"id" firestore:"-"`
	Title            string    `json:"title" firestore:"title"`
	Category         string    `json:"category" firestore:"category"`
	Description      string    `json:"description,omitempty" firestore:"description,omitempty"`
	DurationDays     int       `json:"durationDays,omitempty" firestore:"durationDays,omitempty"`
	Target           string    `json:"target,omitempty" firestore:"target,omitempty"`
	ImpactMetric     string    `json:"impactMetric,omitempty" firestore:"impactMetric,omitempty"`
	Participants     []string  `json:"participants" firestore:"participants"`
	ParticipantCount int       `json:"participantCount" firestore:"-"` // derived from Participants
	StartDate        time.Time `json:"startDate" firestore:"startDate"`
	EndDate          time.Time `json:"endDate" firestore:"endDate"`
	ImageURL         string    `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	CreatedBy        string    `json:"createdBy" firestore:"createdBy"`
	Featured         bool      `json:"featured" firestore:"featured"`
	CreatedAt        time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Normalize fills the derived fields after a read.
func (c *Challenge) Normalize() {
	if c.Participants == nil {
		c.Participants = []string{}
	}
	c.ParticipantCount = len(c.Participants)
}

// HasParticipant reports whether email has joined the challenge.
func (c *Challenge) HasParticipant(email string) bool {
	return slices.Contains(c.Participants, email)
}

// ChallengeQuery selects challenges. Zero values mean "no constraint".
type ChallengeQuery struct {
	Categories      []string
	StartFrom       *time.Time // inclusive lower bound on StartDate
	StartTo         *time.Time // inclusive upper bound on StartDate
	ActiveAt        *time.Time // StartDate <= ActiveAt <= EndDate
	MinParticipants *int
	MaxParticipants *int
	FeaturedOnly    bool
	Limit           int
}

// Matches applies every constraint of q to c.
func (q ChallengeQuery) Matches(c *Challenge) bool {
	if len(q.Categories) > 0 && !slices.Contains(q.Categories, c.Category) {
		return false
	}
	if q.StartFrom != nil && c.StartDate.Before(*q.StartFrom) {
		return false
	}
	if q.StartTo != nil && c.StartDate.After(*q.StartTo) {
		return false
	}
	if q.ActiveAt != nil && (c.StartDate.After(*q.ActiveAt) || c.EndDate.Before(*q.ActiveAt)) {
		return false
	}
	count := len(c.Participants)
	if q.MinParticipants != nil && count < *q.MinParticipants {
		return false
	}
	if q.MaxParticipants != nil && count > *q.MaxParticipants {
		return false
	}
	if q.FeaturedOnly && !c.Featured {
		return false
	}
	return true
}
