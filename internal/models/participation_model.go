package models

import "time"

// Participation statuses.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// ValidParticipationStatus reports whether s is one of the known statuses.
func ValidParticipationStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Participation links one user to one challenge. Stored in the userChallenges collection.
type Participation struct {
	ID          string    `json:"id" firestore:"-"`
	UserID      string    `json:"userId" firestore:"userId"` // user email
	ChallengeID string    `json:"challengeId" firestore:"challengeId"`
	Status      string    `json:"status" firestore:"status"`
	Progress    int       `json:"progress" firestore:"progress"`
	JoinDate    time.Time `json:"joinDate" firestore:"joinDate"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}
