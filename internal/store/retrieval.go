package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/minsu/gig-recommender/internal/types"
)

// Defaults for vector retrieval, matching the match_jobs database function.
const (
	DefaultMatchThreshold = 0.3
	DefaultMatchLimit     = 150
)

// MatchJobs runs cosine-similarity retrieval over the job embedding index.
// It returns candidate ids with their similarity, best first.
func (s *Store) MatchJobs(ctx context.Context, embedding []float32, threshold float64, limit int) ([]types.RetrievedCandidate, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT job_id, similarity FROM match_jobs($1::vector, $2, $3)`,
		vectorLiteral(embedding), threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to match jobs: %w", err)
	}
	defer rows.Close()

	var candidates []types.RetrievedCandidate
	for rows.Next() {
		var c types.RetrievedCandidate
		if err := rows.Scan(&c.JobID, &c.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// vectorLiteral renders an embedding in pgvector's '[x,y,...]' input form.
func vectorLiteral(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
