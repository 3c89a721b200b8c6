package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RecommendRequest represents the request body for POST /recommend.
type RecommendRequest struct {
	UserID           uuid.UUID `json:"user_id" validate:"required"`
	Query            string    `json:"query" validate:"required,min=1"`
	TopK             int       `json:"top_k,omitempty" validate:"omitempty,min=1,max=50"`
	ExcludeIDs       []int64   `json:"exclude_ids,omitempty"`
	CurrentLatitude  *float64  `json:"current_latitude,omitempty"`
	CurrentLongitude *float64  `json:"current_longitude,omitempty"`
}

// EngagementRequest represents the request body for POST /engagements.
type EngagementRequest struct {
	UserID uuid.UUID        `json:"user_id" validate:"required"`
	JobID  int64            `json:"job_id" validate:"required"`
	Status EngagementStatus `json:"status" validate:"required"`
}

// ApplyRequest represents the request body for POST /jobs/{id}/apply.
type ApplyRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// ProfileUpdate represents a partial update to a user profile. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Nickname             *string            `json:"nickname,omitempty" validate:"omitempty,max=50"`
	HomeAddress          *string            `json:"home_address,omitempty" validate:"omitempty,max=120"`
	HomeLatitude         *float64           `json:"home_latitude,omitempty"`
	HomeLongitude        *float64           `json:"home_longitude,omitempty"`
	PreferredJobs        []string           `json:"preferred_jobs,omitempty"`
	Interests            []string           `json:"interests,omitempty"`
	Availability         WeeklyAvailability `json:"availability_json,omitempty"`
	WorkHistory          *string            `json:"work_history,omitempty"`
	AbilityPhysical      *int               `json:"ability_physical,omitempty" validate:"omitempty,min=1,max=3"`
	PreferredEnvironment *string            `json:"preferred_environment,omitempty" validate:"omitempty,oneof=indoor outdoor any"`
	MaxTravelMinutes     *int               `json:"max_travel_time_min,omitempty" validate:"omitempty,gt=0"`
}

// Validate validates the RecommendRequest using the validator.
func (r *RecommendRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the EngagementRequest. The status enum is checked
// explicitly since it is a domain constant set, not a tag rule.
func (r *EngagementRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !ValidStatus(r.Status) {
		return &InvalidStatusError{Status: string(r.Status)}
	}
	return nil
}

// Validate validates the ApplyRequest using the validator.
func (r *ApplyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ProfileUpdate using the validator.
func (p *ProfileUpdate) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// InvalidStatusError indicates an engagement status outside the fixed enum.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return "invalid engagement status: " + e.Status
}
