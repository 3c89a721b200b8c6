package ranking

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/minsu/gig-recommender/internal/types"
)

// DefaultChunkSize bounds how many candidates a single external scoring
// call may carry.
const DefaultChunkSize = 30

// ExternalScorer scores a bounded batch of candidates against the user and
// query, returning a jobID -> score map. Implementations call out over the
// network and may fail per batch.
type ExternalScorer interface {
	ScoreBatch(ctx context.Context, user *types.UserContext, query string, batch []types.JobListing) (map[int64]float64, error)
}

// ChunkedScoringCoordinator partitions large candidate sets into fixed-size
// batches, invokes the external scorer once per batch, and merges the
// partial results. A failing batch is skipped, never retried and never
// escalated: its candidates simply stay absent from the merged map.
type ChunkedScoringCoordinator struct {
	Scorer    ExternalScorer
	ChunkSize int
	// Parallelism caps how many batch calls run at once. Values below 2
	// keep the original sequential behavior.
	Parallelism int
}

// ScoreAll scores every candidate in bounded batches and returns the merged
// score map together with the number of candidates actually scored.
func (c *ChunkedScoringCoordinator) ScoreAll(ctx context.Context, user *types.UserContext, query string, candidates []types.JobListing) (map[int64]float64, int) {
	chunkSize := c.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	batches := chunk(candidates, chunkSize)
	merged := make(map[int64]float64, len(candidates))

	if c.Parallelism > 1 && len(batches) > 1 {
		c.scoreConcurrent(ctx, user, query, batches, merged)
	} else {
		c.scoreSequential(ctx, user, query, batches, merged)
	}

	return merged, len(merged)
}

func (c *ChunkedScoringCoordinator) scoreSequential(ctx context.Context, user *types.UserContext, query string, batches [][]types.JobListing, merged map[int64]float64) {
	for i, batch := range batches {
		scores, err := c.Scorer.ScoreBatch(ctx, user, query, batch)
		if err != nil {
			log.Printf("scoring batch %d/%d failed, skipping %d candidates: %v", i+1, len(batches), len(batch), err)
			continue
		}
		mergeScores(merged, scores, batch)
	}
}

// scoreConcurrent fans batch calls out in parallel. Batches are disjoint by
// construction, so the merge stays a pure union; a failed batch never
// aborts the others.
func (c *ChunkedScoringCoordinator) scoreConcurrent(ctx context.Context, user *types.UserContext, query string, batches [][]types.JobListing, merged map[int64]float64) {
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Parallelism)

	for i, batch := range batches {
		g.Go(func() error {
			scores, err := c.Scorer.ScoreBatch(ctx, user, query, batch)
			if err != nil {
				log.Printf("scoring batch %d/%d failed, skipping %d candidates: %v", i+1, len(batches), len(batch), err)
				return nil
			}
			mu.Lock()
			mergeScores(merged, scores, batch)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-batch
}

// mergeScores unions one batch's scores into the merged map, keeping only
// entries for candidates that were actually in the batch.
func mergeScores(merged, scores map[int64]float64, batch []types.JobListing) {
	for _, job := range batch {
		if score, ok := scores[job.JobID]; ok {
			merged[job.JobID] = score
		}
	}
}

// chunk splits candidates into slices of at most size elements.
func chunk(candidates []types.JobListing, size int) [][]types.JobListing {
	var batches [][]types.JobListing
	for start := 0; start < len(candidates); start += size {
		end := start + size
		if end > len(candidates) {
			end = len(candidates)
		}
		batches = append(batches, candidates[start:end])
	}
	return batches
}
