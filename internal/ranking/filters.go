package ranking

import (
	"strings"

	"github.com/minsu/gig-recommender/internal/schedule"
)

// HardFilterRule is a keyword-triggered exclusion rule applied to the
// candidate set before scoring. Rules are independent; a candidate must
// survive every triggered rule. A candidate with missing or malformed
// fields never matches an exclusion.
type HardFilterRule struct {
	Name string
	// Triggered reports whether the query activates this rule.
	Triggered func(query string) bool
	// Excludes reports whether an activated rule drops this candidate.
	Excludes func(c Candidate) bool
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// HardFilterRules returns the ordered rule list. Kept as an explicit slice
// so rules can be tested independently and extended without touching the
// scorer.
func HardFilterRules() []HardFilterRule {
	return []HardFilterRule{
		{
			Name: "weekday-only",
			Triggered: func(query string) bool {
				return containsAny(query, "weekday", "평일") &&
					!containsAny(query, "weekend", "주말")
			},
			Excludes: func(c Candidate) bool {
				days := schedule.ParseWorkDays(c.WorkDays)
				for _, day := range days {
					if day == "Sat" || day == "Sun" {
						return true
					}
				}
				return false
			},
		},
		{
			Name: "indoor-only",
			Triggered: func(query string) bool {
				return containsAny(query, "indoor", "실내") &&
					!containsAny(query, "outdoor", "야외", "실외")
			},
			Excludes: func(c Candidate) bool {
				text := strings.ToLower(c.Title + " " + c.Description)
				return containsAny(text, "outdoor", "outside", "야외", "실외")
			},
		},
	}
}

// ApplyHardFilters drops candidates matching any rule the query triggers.
// This is a deliberately coarse pre-filter, not a scoring signal.
func ApplyHardFilters(query string, candidates []Candidate) []Candidate {
	query = strings.ToLower(query)

	var active []HardFilterRule
	for _, rule := range HardFilterRules() {
		if rule.Triggered(query) {
			active = append(active, rule)
		}
	}
	if len(active) == 0 {
		return candidates
	}

	survivors := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		excluded := false
		for _, rule := range active {
			if rule.Excludes(c) {
				excluded = true
				break
			}
		}
		if !excluded {
			survivors = append(survivors, c)
		}
	}
	return survivors
}
