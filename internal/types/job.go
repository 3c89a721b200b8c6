package types

// JobListing represents a gig posting as stored in the jobs table.
type JobListing struct {
	JobID               int64    `json:"job_id"`
	Title               string   `json:"title"`
	Description         string   `json:"description,omitempty"`
	Place               string   `json:"place"`
	Address             string   `json:"address,omitempty"`
	Client              string   `json:"client,omitempty"`
	HourlyWage          int      `json:"hourly_wage"`
	Latitude            *float64 `json:"job_latitude,omitempty"`
	Longitude           *float64 `json:"job_longitude,omitempty"`
	WorkDays            string   `json:"work_days,omitempty"` // 7 chars, '0'/'1', Monday first
	StartTime           string   `json:"start_time,omitempty"`
	EndTime             string   `json:"end_time,omitempty"`
	Participants        *int     `json:"participants,omitempty"`
	CurrentParticipants int      `json:"current_participants,omitempty"`
}

// RetrievedCandidate is a job identity paired with the similarity score the
// vector retrieval returned for it. Transient, request-scoped.
type RetrievedCandidate struct {
	JobID      int64   `json:"job_id"`
	Similarity float64 `json:"similarity"`
}

// ScoredCandidate is a JobListing enriched with the per-signal fields the
// ranking pipeline computes. Transient, request-scoped; never persisted.
type ScoredCandidate struct {
	JobListing

	DistanceKm    *float64 `json:"distance_km"`
	TravelMinutes *int     `json:"travel_min"`
	TimeFit       float64  `json:"time_fit"`
	MatchScore    float64  `json:"match_score"`
	Reason        string   `json:"reason,omitempty"`
}
