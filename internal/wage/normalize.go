// Package wage provides percentile-based normalization of a candidate's
// wage against a comparison cohort.
package wage

import (
	"math"
	"sort"

	"github.com/minsu/gig-recommender/internal/types"
)

// minCohortSize is the smallest place cohort worth comparing against; below
// it the full candidate set is used instead.
const minCohortSize = 4

// neutralScore is returned when the cohort's wage spread is degenerate.
const neutralScore = 0.5

// Percentile computes the p-th percentile of sorted values using linear
// interpolation between closest ranks. Values must already be sorted
// ascending. An empty slice yields 0.
func Percentile(sortedVals []float64, p float64) float64 {
	if len(sortedVals) == 0 {
		return 0
	}
	k := float64(len(sortedVals)-1) * (p / 100.0)
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return sortedVals[int(k)]
	}
	return sortedVals[int(f)]*(c-k) + sortedVals[int(c)]*(k-f)
}

// Normalize scores a wage against the interquartile range of its comparison
// cohort, clamped to [0,1] and rounded to 2 decimals. The cohort is the
// candidates sharing the job's place label; when it has fewer than
// minCohortSize members the full candidate set is used. A zero or inverted
// spread returns the neutral 0.5.
func Normalize(placeCohort, allCandidates []types.JobListing, hourlyWage int) float64 {
	source := placeCohort
	if len(source) < minCohortSize {
		source = allCandidates
	}

	wages := make([]float64, 0, len(source))
	for _, job := range source {
		wages = append(wages, float64(job.HourlyWage))
	}
	if len(wages) == 0 {
		return neutralScore
	}
	sort.Float64s(wages)

	p25 := Percentile(wages, 25)
	p75 := Percentile(wages, 75)
	if p75 <= p25 {
		return neutralScore
	}

	norm := (float64(hourlyWage) - p25) / (p75 - p25)
	norm = math.Round(norm*100) / 100
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

// CohortByPlace groups the candidate set by place label so each candidate's
// cohort is built once per request.
func CohortByPlace(candidates []types.JobListing) map[string][]types.JobListing {
	cohorts := make(map[string][]types.JobListing)
	for _, job := range candidates {
		cohorts[job.Place] = append(cohorts[job.Place], job)
	}
	return cohorts
}
