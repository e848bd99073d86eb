package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user in the system. The email is the Firestore document ID.
type User struct {
	Email            string    `json:"email" firestore:"email"`
	DisplayName      string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL         string    `json:"photoUrl,omitempty" firestore:"photoUrl,omitempty"`
	IdentityProvider string    `json:"identityProvider,omitempty" firestore:"identityProvider,omitempty"`
	Role             string    `json:"role" firestore:"role"`
	CreatedAt        time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// SyncProfile carries the identity-provider fields written on every sign-in sync.
type SyncProfile struct {
	Email            string
	DisplayName      string
	PhotoURL         string
	IdentityProvider string
}
