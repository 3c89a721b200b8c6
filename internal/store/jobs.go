package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/minsu/gig-recommender/internal/types"
)

const jobColumns = `job_id, title, description, place, address, client,
	        hourly_wage, job_latitude, job_longitude, work_days,
	        start_time, end_time, participants, current_participants`

// FetchByIDs retrieves full job listings for the given ids. Missing ids are
// silently absent from the result; order is not guaranteed.
func (s *Store) FetchByIDs(ctx context.Context, ids []int64) ([]types.JobListing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobListing
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// GetJob retrieves a single job listing by id.
func (s *Store) GetJob(ctx context.Context, jobID int64) (*types.JobListing, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`,
		jobID,
	)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job %d: %w", jobID, ErrJobNotFound)
		}
		return nil, err
	}
	return &j, nil
}

// Apply records an application for a job inside a transaction. The job row
// is locked while capacity is checked so concurrent applications cannot
// overfill it. A job with NULL participants has no cap.
func (s *Store) Apply(ctx context.Context, userID uuid.UUID, jobID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var participants *int
	var current int
	err = tx.QueryRow(ctx,
		`SELECT participants, current_participants FROM jobs WHERE job_id = $1 FOR UPDATE`,
		jobID,
	).Scan(&participants, &current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("job %d: %w", jobID, ErrJobNotFound)
		}
		return fmt.Errorf("failed to check job capacity: %w", err)
	}

	if participants != nil && current >= *participants {
		return fmt.Errorf("job %d: %w", jobID, ErrCapacityFull)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO engagements (user_id, job_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, job_id) DO UPDATE SET status = $3, created_at = NOW()`,
		userID, jobID, types.StatusApplied,
	)
	if err != nil {
		return fmt.Errorf("failed to record application: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE jobs SET current_participants = current_participants + 1 WHERE job_id = $1`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment participants: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit application: %w", err)
	}
	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (types.JobListing, error) {
	var j types.JobListing
	var description, address, client, workDays, startTime, endTime *string

	err := row.Scan(&j.JobID, &j.Title, &description, &j.Place, &address, &client,
		&j.HourlyWage, &j.Latitude, &j.Longitude, &workDays,
		&startTime, &endTime, &j.Participants, &j.CurrentParticipants)
	if err != nil {
		if err == pgx.ErrNoRows {
			return j, err
		}
		return j, fmt.Errorf("failed to scan job: %w", err)
	}

	if description != nil {
		j.Description = *description
	}
	if address != nil {
		j.Address = *address
	}
	if client != nil {
		j.Client = *client
	}
	if workDays != nil {
		j.WorkDays = *workDays
	}
	if startTime != nil {
		j.StartTime = *startTime
	}
	if endTime != nil {
		j.EndTime = *endTime
	}
	return j, nil
}
