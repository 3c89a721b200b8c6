package ranking

import (
	"math"

	"github.com/minsu/gig-recommender/internal/geo"
	"github.com/minsu/gig-recommender/internal/schedule"
	"github.com/minsu/gig-recommender/internal/types"
	"github.com/minsu/gig-recommender/internal/wage"
)

// maxUsefulDistanceKm is where the distance signal bottoms out.
const maxUsefulDistanceKm = 20.0

// Candidate is a job listing joined with its retrieval similarity.
type Candidate struct {
	types.JobListing
	Similarity float64
}

// JoinRetrieved pairs fetched listings with the similarity scores retrieval
// returned. Listings without a retrieval entry get similarity 0.
func JoinRetrieved(listings []types.JobListing, retrieved []types.RetrievedCandidate) []Candidate {
	similarity := make(map[int64]float64, len(retrieved))
	for _, r := range retrieved {
		similarity[r.JobID] = r.Similarity
	}

	candidates := make([]Candidate, 0, len(listings))
	for _, listing := range listings {
		candidates = append(candidates, Candidate{
			JobListing: listing,
			Similarity: similarity[listing.JobID],
		})
	}
	return candidates
}

// Weights control the deterministic composite score. The four normalized
// signal weights should sum to 1; History is additive on top of that budget
// and is not renormalized.
type Weights struct {
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`
	TimeFit    float64 `json:"time_fit"`
	Wage       float64 `json:"wage"`
	History    float64 `json:"history"`
}

// DefaultWeights returns the weighting this service ships with.
func DefaultWeights() Weights {
	return Weights{
		Similarity: 0.5,
		Distance:   0.2,
		TimeFit:    0.2,
		Wage:       0.1,
		History:    0.1,
	}
}

// signals are the per-candidate values every scoring strategy populates,
// whether or not it uses them for the match score.
type signals struct {
	distanceKm    *float64
	travelMinutes *int
	timeFit       float64
	wageNorm      float64
	historyBias   float64
}

// computeSignals derives the independent per-candidate scoring signals.
// cohorts must be the CohortByPlace grouping of the full candidate set.
func computeSignals(c Candidate, user *types.UserContext, history types.HistorySets,
	cohorts map[string][]types.JobListing, allListings []types.JobListing) signals {

	var sig signals

	if baseLat, baseLon, ok := user.BaseLocation(); ok && c.Latitude != nil && c.Longitude != nil {
		d := geo.DistanceKm(baseLat, baseLon, *c.Latitude, *c.Longitude)
		d = math.Round(d*100) / 100
		sig.distanceKm = &d
		sig.travelMinutes = geo.TravelMinutes(&d)
	}

	sig.timeFit = schedule.ComputeOverlap(user.Availability, c.WorkDays, c.StartTime, c.EndTime).TimeFit
	sig.wageNorm = wage.Normalize(cohorts[c.Place], allListings, c.HourlyWage)

	switch {
	case history.Accepted[c.JobID]:
		sig.historyBias = 1.0
	case history.Rejected[c.JobID]:
		sig.historyBias = -1.0
	}

	return sig
}

// distanceScore maps a known distance onto [0,1], linearly decaying to zero
// at maxUsefulDistanceKm. Unknown distance scores zero.
func distanceScore(distanceKm *float64) float64 {
	if distanceKm == nil || *distanceKm > maxUsefulDistanceKm {
		return 0
	}
	return 1 - *distanceKm/maxUsefulDistanceKm
}

// compositeScore is the deterministic strategy: a weighted sum of the
// normalized signals plus the additive history bias, rounded to 4 decimals.
func compositeScore(c Candidate, sig signals, w Weights) float64 {
	score := c.Similarity*w.Similarity +
		distanceScore(sig.distanceKm)*w.Distance +
		sig.timeFit*w.TimeFit +
		sig.wageNorm*w.Wage +
		sig.historyBias*w.History
	return math.Round(score*10000) / 10000
}
