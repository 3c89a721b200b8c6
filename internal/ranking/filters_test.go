package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minsu/gig-recommender/internal/types"
)

func candidate(id int64, workDays, title, description string) Candidate {
	return Candidate{
		JobListing: types.JobListing{
			JobID:       id,
			Title:       title,
			Description: description,
			WorkDays:    workDays,
		},
	}
}

func TestApplyHardFilters_WeekdayQueryDropsWeekendJobs(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "1111100", "cafe helper", ""),
		candidate(2, "0000011", "market stall", ""),
		candidate(3, "1111111", "cleaner", ""),
	}

	survivors := ApplyHardFilters("looking for weekday work", candidates)

	ids := survivorIDs(survivors)
	assert.Equal(t, []int64{1}, ids)
}

func TestApplyHardFilters_WeekendMentionDisablesWeekdayRule(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "0000011", "market stall", ""),
	}
	survivors := ApplyHardFilters("weekday or weekend, either works", candidates)
	assert.Len(t, survivors, 1)
}

func TestApplyHardFilters_MissingWorkDaysNotDropped(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "", "cafe helper", ""),
		candidate(2, "bad", "cleaner", ""),
	}
	survivors := ApplyHardFilters("weekday only please", candidates)
	assert.Len(t, survivors, 2)
}

func TestApplyHardFilters_IndoorQueryDropsOutdoorJobs(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "1111100", "library assistant", "quiet indoor shelving work"),
		candidate(2, "1111100", "Outdoor gardening", ""),
		candidate(3, "1111100", "flyer handout", "outside the station"),
	}

	survivors := ApplyHardFilters("something indoor please", candidates)
	assert.Equal(t, []int64{1}, survivorIDs(survivors))
}

func TestApplyHardFilters_OutdoorMentionDisablesIndoorRule(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "1111100", "Outdoor gardening", ""),
	}
	survivors := ApplyHardFilters("indoor or outdoor is fine", candidates)
	assert.Len(t, survivors, 1)
}

func TestApplyHardFilters_NoTriggerKeepsAll(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "0000011", "market stall", ""),
		candidate(2, "1111100", "Outdoor gardening", ""),
	}
	survivors := ApplyHardFilters("anything near me", candidates)
	assert.Len(t, survivors, 2)
}

func TestApplyHardFilters_RulesCombine(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "1111100", "library assistant", ""),
		candidate(2, "0000011", "library assistant", ""),
		candidate(3, "1111100", "outdoor patrol", ""),
	}
	survivors := ApplyHardFilters("indoor weekday work", candidates)
	assert.Equal(t, []int64{1}, survivorIDs(survivors))
}

func survivorIDs(survivors []Candidate) []int64 {
	ids := make([]int64, 0, len(survivors))
	for _, s := range survivors {
		ids = append(ids, s.JobID)
	}
	return ids
}
