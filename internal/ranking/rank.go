// Package ranking implements the candidate reranking and scoring pipeline:
// hard filtering, per-signal scoring, composite or delegated match scores,
// and ranked top-K selection.
package ranking

import (
	"context"
	"sort"

	"github.com/minsu/gig-recommender/internal/types"
	"github.com/minsu/gig-recommender/internal/wage"
)

// ScoringMode selects how the match score is produced.
type ScoringMode string

const (
	// ModeDeterministic uses the local weighted sum of signals.
	ModeDeterministic ScoringMode = "deterministic"
	// ModeDelegated obtains scores from the external scorer in chunks.
	ModeDelegated ScoringMode = "delegated"
)

// QualityThreshold is the minimum match score a candidate must exceed when
// threshold filtering is enabled.
const QualityThreshold = 0.2

// Options configure a single ranking request.
type Options struct {
	ScoringMode           ScoringMode
	ChunkSize             int
	ChunkParallelism      int
	Weights               Weights
	ApplyQualityThreshold bool
	TopK                  int
}

// Pipeline orchestrates a ranking request. It holds only injected
// collaborators and no per-request state, so a single instance serves
// concurrent requests.
type Pipeline struct {
	scorer ExternalScorer
}

// NewPipeline builds a pipeline. scorer may be nil when only the
// deterministic mode is used.
func NewPipeline(scorer ExternalScorer) *Pipeline {
	return &Pipeline{scorer: scorer}
}

// Rank filters, scores, sorts and truncates the candidate set. An empty
// result at any stage is a normal outcome, returned as an empty slice.
func (p *Pipeline) Rank(ctx context.Context, user *types.UserContext, query string,
	candidates []Candidate, history []types.Engagement, excludeIDs []int64, opts Options) ([]types.ScoredCandidate, error) {

	candidates = excludeByID(candidates, excludeIDs)
	candidates = ApplyHardFilters(query, candidates)
	if len(candidates) == 0 {
		return []types.ScoredCandidate{}, nil
	}

	historySets := types.BuildHistorySets(history)

	allListings := make([]types.JobListing, len(candidates))
	for i, c := range candidates {
		allListings[i] = c.JobListing
	}
	cohorts := wage.CohortByPlace(allListings)

	// Delegated scores are fetched up front in bounded batches; candidates
	// whose batch failed fall back to 0.0.
	var delegated map[int64]float64
	if opts.ScoringMode == ModeDelegated {
		coordinator := &ChunkedScoringCoordinator{
			Scorer:      p.scorer,
			ChunkSize:   opts.ChunkSize,
			Parallelism: opts.ChunkParallelism,
		}
		delegated, _ = coordinator.ScoreAll(ctx, user, query, allListings)
	}

	scored := make([]types.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		sig := computeSignals(c, user, historySets, cohorts, allListings)

		matchScore := 0.0
		if opts.ScoringMode == ModeDelegated {
			matchScore = delegated[c.JobID]
		} else {
			matchScore = compositeScore(c, sig, opts.Weights)
		}

		scored = append(scored, types.ScoredCandidate{
			JobListing:    c.JobListing,
			DistanceKm:    sig.distanceKm,
			TravelMinutes: sig.travelMinutes,
			TimeFit:       sig.timeFit,
			MatchScore:    matchScore,
		})
	}

	// Stable sort keeps retrieval order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if opts.ApplyQualityThreshold {
		kept := scored[:0]
		for _, s := range scored {
			if s.MatchScore > QualityThreshold {
				kept = append(kept, s)
			}
		}
		scored = kept
	}

	if opts.TopK > 0 && len(scored) > opts.TopK {
		scored = scored[:opts.TopK]
	}
	return scored, nil
}

// excludeByID removes candidates whose id appears in the exclusion list.
func excludeByID(candidates []Candidate, excludeIDs []int64) []Candidate {
	if len(excludeIDs) == 0 {
		return candidates
	}
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !excluded[c.JobID] {
			kept = append(kept, c)
		}
	}
	return kept
}
