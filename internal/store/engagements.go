package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/minsu/gig-recommender/internal/types"
)

// UpsertEngagement records or overwrites the single engagement a user holds
// for a job. The (user_id, job_id) pair is unique; a later status replaces
// the earlier one.
func (s *Store) UpsertEngagement(ctx context.Context, userID uuid.UUID, jobID int64, status types.EngagementStatus) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO engagements (user_id, job_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, job_id) DO UPDATE SET status = $3, created_at = NOW()`,
		userID, jobID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert engagement: %w", err)
	}
	return nil
}

// History retrieves all engagement records for a user, newest first.
func (s *Store) History(ctx context.Context, userID uuid.UUID) ([]types.Engagement, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT engagement_id, user_id, job_id, status, rating, review_text, created_at
		 FROM engagements WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	defer rows.Close()

	var history []types.Engagement
	for rows.Next() {
		var e types.Engagement
		var reviewText *string
		if err := rows.Scan(&e.EngagementID, &e.UserID, &e.JobID, &e.Status,
			&e.Rating, &reviewText, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		if reviewText != nil {
			e.ReviewText = *reviewText
		}
		history = append(history, e)
	}
	return history, nil
}
