package models

import (
	"slices"
	"time"
)

// Event is a community event users can RSVP to.
type Event struct {
	ID                  string    `json:"id" firestore:"-"`
	Title               string    `json:"title" firestore:"title"`
	Description         string    `json:"description,omitempty" firestore:"description,omitempty"`
	Date                time.Time `json:"date" firestore:"date"`
	Location            string    `json:"location,omitempty" firestore:"location,omitempty"`
	Organizer           string    `json:"organizer,omitempty" firestore:"organizer,omitempty"`
	MaxParticipants     int       `json:"maxParticipants" firestore:"maxParticipants"` // 0 means unlimited
	Attendees           []string  `json:"attendees" firestore:"attendees"`
	CurrentParticipants int       `json:"currentParticipants" firestore:"-"`
	CreatedBy           string    `json:"createdBy" firestore:"createdBy"`
	CreatedAt           time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Normalize fills the derived fields after a read.
func (e *Event) Normalize() {
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	e.CurrentParticipants = len(e.Attendees)
}

// HasAttendee reports whether email has RSVPed.
func (e *Event) HasAttendee(email string) bool {
	return slices.Contains(e.Attendees, email)
}

// IsFull reports whether a new attendee would exceed MaxParticipants.
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && len(e.Attendees) >= e.MaxParticipants
}

// EventQuery selects events. Results are ordered by Date, soonest first.
type EventQuery struct {
	Attendee string
	From     *time.Time // inclusive lower bound on Date
	Limit    int
}
