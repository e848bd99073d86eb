package models

// CreateChallengeRequest represents the request body for creating a challenge.
// Dates accept RFC 3339 timestamps or plain YYYY-MM-DD dates. There is
// deliberately no createdBy field: the owner comes from the verified token.
type CreateChallengeRequest struct {
	Title        string `json:"title" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description,omitempty"`
	DurationDays int    `json:"durationDays,omitempty" binding:"min=0"`
	Target       string `json:"target,omitempty"`
	ImpactMetric string `json:"impactMetric,omitempty"`
	StartDate    string `json:"startDate" binding:"required"`
	EndDate      string `json:"endDate" binding:"required"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Featured     bool   `json:"featured,omitempty"`
}

// UpdateChallengeRequest represents a partial challenge update.
// Pointers distinguish "not provided" from zero values.
type UpdateChallengeRequest struct {
	Title        *string `json:"title,omitempty"`
	Category     *string `json:"category,omitempty"`
	Description  *string `json:"description,omitempty"`
	DurationDays *int    `json:"durationDays,omitempty" binding:"omitempty,min=0"`
	Target       *string `json:"target,omitempty"`
	ImpactMetric *string `json:"impactMetric,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Featured     *bool   `json:"featured,omitempty"`
}

// CreateTipRequest represents the request body for creating a tip.
type CreateTipRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Category   string `json:"category,omitempty"`
	AuthorName string `json:"authorName,omitempty"`
}

// UpdateTipRequest represents a partial tip update.
type UpdateTipRequest struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	Category   *string `json:"category,omitempty"`
	AuthorName *string `json:"authorName,omitempty"`
}

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description,omitempty"`
	Date            string `json:"date" binding:"required"`
	Location        string `json:"location,omitempty"`
	Organizer       string `json:"organizer,omitempty"`
	MaxParticipants int    `json:"maxParticipants,omitempty" binding:"min=0"`
}

// UpdateEventRequest represents a partial event update. UserEmail is the
// legacy RSVP body field; it is accepted and ignored.
type UpdateEventRequest struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Date            *string `json:"date,omitempty"`
	Location        *string `json:"location,omitempty"`
	Organizer       *string `json:"organizer,omitempty"`
	MaxParticipants *int    `json:"maxParticipants,omitempty" binding:"omitempty,min=0"`
	UserEmail       string  `json:"userEmail,omitempty"`
}

// IsEmpty reports whether the request carries no editable field.
func (r UpdateEventRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Date == nil &&
		r.Location == nil && r.Organizer == nil && r.MaxParticipants == nil
}

// RegisterEventRequest is the body of POST /events/register.
type RegisterEventRequest struct {
	EventID string `json:"eventId" binding:"required"`
}

// SyncUserRequest is the body of POST /users/sync. The email always comes from the token.
type SyncUserRequest struct {
	DisplayName string `json:"displayName,omitempty"`
	Name        string `json:"name,omitempty"` // legacy alias of displayName
	PhotoURL    string `json:"photoUrl,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
	Role        *string `json:"role,omitempty"`
}

// JoinChallengeRequest is the body of POST /user-challenges/join.
type JoinChallengeRequest struct {
	ChallengeID string `json:"challengeId" binding:"required"`
}

// UpdateProgressRequest is the body of PATCH /user-challenges/update/:id.
type UpdateProgressRequest struct {
	Status   *string `json:"status,omitempty"`
	Progress *int    `json:"progress,omitempty"`
}
