package types

import (
	"time"

	"github.com/google/uuid"
)

// EngagementStatus is the fixed set of states a (user, job) relation can be in.
type EngagementStatus string

// Valid engagement statuses. At most one active record exists per (user, job)
// pair; writes use upsert semantics.
const (
	StatusSaved     EngagementStatus = "saved"
	StatusApplied   EngagementStatus = "applied"
	StatusCompleted EngagementStatus = "completed"
	StatusCancelled EngagementStatus = "cancelled"
	StatusRejected  EngagementStatus = "rejected"
	StatusDismissed EngagementStatus = "dismissed"
)

// ValidStatus reports whether s is one of the known engagement statuses.
func ValidStatus(s EngagementStatus) bool {
	switch s {
	case StatusSaved, StatusApplied, StatusCompleted, StatusCancelled, StatusRejected, StatusDismissed:
		return true
	}
	return false
}

// Engagement records a user's relation to a job listing.
type Engagement struct {
	EngagementID int64            `json:"engagement_id,omitempty"`
	UserID       uuid.UUID        `json:"user_id"`
	JobID        int64            `json:"job_id"`
	Status       EngagementStatus `json:"status"`
	Rating       *int             `json:"rating,omitempty"`
	ReviewText   string           `json:"review_text,omitempty"`
	CreatedAt    time.Time        `json:"created_at,omitempty"`
}

// HistorySets are the disjoint accepted/rejected views derived from a user's
// engagement records. They are recomputed per request, never cached.
type HistorySets struct {
	Accepted map[int64]bool
	Rejected map[int64]bool
}

// BuildHistorySets partitions engagement history into the id sets the scorer
// consumes. Saved, applied and completed jobs count as accepted; only
// rejected jobs count as rejected. Other statuses carry no bias.
func BuildHistorySets(history []Engagement) HistorySets {
	sets := HistorySets{
		Accepted: make(map[int64]bool),
		Rejected: make(map[int64]bool),
	}
	for _, e := range history {
		switch e.Status {
		case StatusSaved, StatusApplied, StatusCompleted:
			sets.Accepted[e.JobID] = true
		case StatusRejected:
			sets.Rejected[e.JobID] = true
		}
	}
	return sets
}
