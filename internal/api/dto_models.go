package api

import "ecotrack-backend-go/internal/models"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string `json:"message"`
}

// CreatedResponse acknowledges a create and echoes the stored document.
type CreatedResponse struct {
	Message string      `json:"message"`
	ID      string      `json:"id"`
	Data    interface{} `json:"data,omitempty"`
}

// JoinChallengeResponse is returned by PATCH /challenges/join/:id.
type JoinChallengeResponse struct {
	Message   string            `json:"message"`
	Challenge *models.Challenge `json:"challenge"`
}

// SyncUserResponse is returned by POST /users/sync.
type SyncUserResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
