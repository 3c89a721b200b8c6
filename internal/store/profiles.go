package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/minsu/gig-recommender/internal/types"
)

// GetProfile retrieves a user profile by ID. Returns ErrProfileNotFound when
// no row exists; recommendation requests treat that as fatal.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserContext, error) {
	var u types.UserContext
	var nickname, workHistory, preferredEnv *string
	var abilityPhysical, maxTravel *int
	var availabilityJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, nickname, home_latitude, home_longitude, availability_json,
		        preferred_jobs, interests, ability_physical, preferred_environment,
		        max_travel_time_min, work_history, date_of_birth
		 FROM profiles WHERE id = $1`,
		userID,
	).Scan(&u.ID, &nickname, &u.HomeLatitude, &u.HomeLongitude, &availabilityJSON,
		&u.PreferredJobs, &u.Interests, &abilityPhysical, &preferredEnv,
		&maxTravel, &workHistory, &u.DateOfBirth)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if nickname != nil {
		u.Nickname = *nickname
	}
	if workHistory != nil {
		u.WorkHistory = *workHistory
	}
	if preferredEnv != nil {
		u.PreferredEnvironment = *preferredEnv
	}
	if abilityPhysical != nil {
		u.AbilityPhysical = *abilityPhysical
	}
	if maxTravel != nil {
		u.MaxTravelMinutes = *maxTravel
	}
	if len(availabilityJSON) > 0 {
		if err := json.Unmarshal(availabilityJSON, &u.Availability); err != nil {
			return nil, fmt.Errorf("failed to parse availability for user %s: %w", userID, err)
		}
	}

	return &u, nil
}

// UpdateProfile applies a partial update; nil fields are left untouched.
func (s *Store) UpdateProfile(ctx context.Context, userID uuid.UUID, update *types.ProfileUpdate) error {
	sets := []string{}
	args := []any{}
	argNum := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if update.Nickname != nil {
		add("nickname", *update.Nickname)
	}
	if update.HomeAddress != nil {
		add("home_address", *update.HomeAddress)
	}
	if update.HomeLatitude != nil {
		add("home_latitude", *update.HomeLatitude)
	}
	if update.HomeLongitude != nil {
		add("home_longitude", *update.HomeLongitude)
	}
	if update.PreferredJobs != nil {
		add("preferred_jobs", update.PreferredJobs)
	}
	if update.Interests != nil {
		add("interests", update.Interests)
	}
	if update.Availability != nil {
		availJSON, err := json.Marshal(update.Availability)
		if err != nil {
			return fmt.Errorf("failed to marshal availability: %w", err)
		}
		add("availability_json", availJSON)
	}
	if update.WorkHistory != nil {
		add("work_history", *update.WorkHistory)
	}
	if update.AbilityPhysical != nil {
		add("ability_physical", *update.AbilityPhysical)
	}
	if update.PreferredEnvironment != nil {
		add("preferred_environment", *update.PreferredEnvironment)
	}
	if update.MaxTravelMinutes != nil {
		add("max_travel_time_min", *update.MaxTravelMinutes)
	}

	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE profiles SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(", updated_at = NOW() WHERE id = $%d", argNum)
	args = append(args, userID)

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	return nil
}
