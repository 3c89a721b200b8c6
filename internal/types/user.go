// Package types provides type definitions for structured data used throughout the gig-recommender system.
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeRange is a half-open [Start, End) time-of-day interval in "HH:MM" form.
type TimeRange struct {
	Start string
	End   string
}

// MarshalJSON stores a TimeRange as the two-element ["start","end"] array
// used by the availability_json column.
func (t TimeRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{t.Start, t.End})
}

// UnmarshalJSON accepts both the stored ["start","end"] array form and an
// object form with "start"/"end" keys.
func (t *TimeRange) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err == nil {
		t.Start, t.End = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("time range must be a [start, end] pair or {start, end} object: %w", err)
	}
	t.Start, t.End = obj.Start, obj.End
	return nil
}

// WeeklyAvailability maps a weekday name ("Mon".."Sun") to the time ranges
// the user declared themselves available on that day.
type WeeklyAvailability map[string][]TimeRange

// UserContext holds everything the ranking pipeline needs to know about a user.
// It is assembled per request and never mutated by the pipeline.
type UserContext struct {
	ID                   uuid.UUID          `json:"id"`
	Nickname             string             `json:"nickname,omitempty"`
	HomeLatitude         *float64           `json:"home_latitude,omitempty"`
	HomeLongitude        *float64           `json:"home_longitude,omitempty"`
	CurrentLatitude      *float64           `json:"current_latitude,omitempty"`
	CurrentLongitude     *float64           `json:"current_longitude,omitempty"`
	Availability         WeeklyAvailability `json:"availability,omitempty"`
	PreferredJobs        []string           `json:"preferred_jobs,omitempty"`
	Interests            []string           `json:"interests,omitempty"`
	AbilityPhysical      int                `json:"ability_physical,omitempty"`
	PreferredEnvironment string             `json:"preferred_environment,omitempty"`
	MaxTravelMinutes     int                `json:"max_travel_time_min,omitempty"`
	WorkHistory          string             `json:"work_history,omitempty"`
	DateOfBirth          *time.Time         `json:"date_of_birth,omitempty"`
}

// BaseLocation returns the coordinates ranking should measure distance from:
// the current-location override when present, otherwise the home location.
// ok is false when neither is set.
func (u *UserContext) BaseLocation() (lat, lon float64, ok bool) {
	if u.CurrentLatitude != nil && u.CurrentLongitude != nil {
		return *u.CurrentLatitude, *u.CurrentLongitude, true
	}
	if u.HomeLatitude != nil && u.HomeLongitude != nil {
		return *u.HomeLatitude, *u.HomeLongitude, true
	}
	return 0, 0, false
}
