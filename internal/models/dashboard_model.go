package models

import "time"

// EnrichedParticipation is a participation joined with its challenge.
type EnrichedParticipation struct {
	UserChallengeID string     `json:"userChallengeId"`
	Status          string     `json:"status"`
	Progress        int        `json:"progress"`
	JoinDate        time.Time  `json:"joinDate"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Challenge       *Challenge `json:"challenge"`
}

// Dashboard is the per-user view returned by GET /dashboard.
type Dashboard struct {
	Challenges []EnrichedParticipation `json:"challenges"`
	Tips       []*Tip                  `json:"tips"`
	Events     []*Event                `json:"events"`
}

// ImpactStats are the fleet-wide impact totals returned by GET /stats.
type ImpactStats struct {
	CO2Saved       int64 `json:"co2Saved"`
	PlasticReduced int64 `json:"plasticReduced"`
	EnergySaved    int64 `json:"energySaved"`
}
