package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/minsu/gig-recommender/internal/llm"
	"github.com/minsu/gig-recommender/internal/prompts"
	"github.com/minsu/gig-recommender/internal/schemas"
	"github.com/minsu/gig-recommender/internal/types"
)

// GeminiScorer implements ExternalScorer on top of the LLM client. One
// ScoreBatch call covers one bounded candidate batch.
type GeminiScorer struct {
	Client llm.Client
}

// scoreBatchResponse is the expected JSON payload from the model.
type scoreBatchResponse struct {
	Scores map[string]float64 `json:"scores"`
}

// ScoreBatch asks the model to score every candidate in the batch against
// the user's request. Malformed or unparseable responses fail the whole
// batch; the coordinator decides what to do with that.
func (s *GeminiScorer) ScoreBatch(ctx context.Context, user *types.UserContext, query string, batch []types.JobListing) (map[int64]float64, error) {
	if len(batch) == 0 {
		return map[int64]float64{}, nil
	}

	prompt := buildScoreBatchPrompt(user, query, batch)

	jsonResp, err := s.Client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	// The schema is the single gate on shape: digit-string keys, scores
	// already constrained to [0,1].
	if err := schemas.ValidateScoreBatch(jsonResp); err != nil {
		return nil, fmt.Errorf("scorer response rejected: %w", err)
	}

	var response scoreBatchResponse
	if err := json.Unmarshal([]byte(jsonResp), &response); err != nil {
		return nil, fmt.Errorf("failed to parse scorer response: %w (content: %s)", err, jsonResp)
	}

	scores := make(map[int64]float64, len(response.Scores))
	for key, score := range response.Scores {
		jobID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			// Digit keys can still overflow int64.
			return nil, fmt.Errorf("scorer returned unusable job id %q: %w", key, err)
		}
		scores[jobID] = score
	}
	return scores, nil
}

// buildScoreBatchPrompt renders the scoring prompt from the user's public
// profile fields and the batch's listings. Embedding vectors are never
// included.
func buildScoreBatchPrompt(user *types.UserContext, query string, batch []types.JobListing) string {
	var profile strings.Builder
	if len(user.PreferredJobs) > 0 {
		fmt.Fprintf(&profile, "- Preferred jobs: %s\n", strings.Join(user.PreferredJobs, ", "))
	}
	if len(user.Interests) > 0 {
		fmt.Fprintf(&profile, "- Interests: %s\n", strings.Join(user.Interests, ", "))
	}
	if user.PreferredEnvironment != "" {
		fmt.Fprintf(&profile, "- Preferred environment: %s\n", user.PreferredEnvironment)
	}
	if user.WorkHistory != "" {
		fmt.Fprintf(&profile, "- Work history: %s\n", user.WorkHistory)
	}
	if user.MaxTravelMinutes > 0 {
		fmt.Fprintf(&profile, "- Max travel time: %d min\n", user.MaxTravelMinutes)
	}
	if profile.Len() == 0 {
		profile.WriteString("- No profile details on record\n")
	}

	var candidates strings.Builder
	for _, job := range batch {
		fmt.Fprintf(&candidates, "- id=%d title=%q place=%q wage=%d workDays=%s hours=%s-%s desc=%q\n",
			job.JobID, job.Title, job.Place, job.HourlyWage,
			job.WorkDays, job.StartTime, job.EndTime, truncate(job.Description, 160))
	}

	template := prompts.MustGet("recommend.json", "score-batch")
	return prompts.Format(template, map[string]string{
		"Query":       query,
		"UserProfile": profile.String(),
		"Candidates":  candidates.String(),
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
