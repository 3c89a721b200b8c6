// Package reason generates user-facing Korean explanations for ranked jobs:
// a one-sentence reason per job and a short conversational answer that ties
// the top recommendations back to the user's query.
package reason

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/minsu/gig-recommender/internal/llm"
	"github.com/minsu/gig-recommender/internal/prompts"
	"github.com/minsu/gig-recommender/internal/types"
)

const promptFile = "recommend.json"

// Generator produces recommendation explanations through an LLM client.
type Generator struct {
	Client llm.Client
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{Client: client}
}

// JobReason explains in one sentence why a job suits the user's query.
// A generation failure degrades to a fixed fallback sentence; it never
// fails the request.
func (g *Generator) JobReason(ctx context.Context, query string, job *types.ScoredCandidate) string {
	template, err := prompts.Get(promptFile, "job-reason")
	if err != nil {
		log.Printf("reason: prompt load failed: %v", err)
		return fallbackReason(job)
	}

	prompt := prompts.Format(template, map[string]string{
		"Query":       query,
		"Title":       job.Title,
		"Description": job.Description,
		"Place":       job.Place,
		"HourlyWage":  strconv.Itoa(job.HourlyWage),
		"DistanceKm":  formatDistance(job.DistanceKm),
	})

	text, err := g.Client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("reason: generation failed for job %d: %v", job.JobID, err)
		return fallbackReason(job)
	}
	return strings.TrimSpace(text)
}

// AnnotateReasons fills the Reason field of every candidate in place.
func (g *Generator) AnnotateReasons(ctx context.Context, query string, jobs []types.ScoredCandidate) {
	for i := range jobs {
		jobs[i].Reason = g.JobReason(ctx, query, &jobs[i])
	}
}

// FinalAnswer composes the conversational recommendation message covering
// the top-ranked jobs.
func (g *Generator) FinalAnswer(ctx context.Context, query string, jobs []types.ScoredCandidate) (string, error) {
	template, err := prompts.Get(promptFile, "final-answer")
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		lines = append(lines, fmt.Sprintf("- 제목: %s\n- 내용: %s", job.Title, job.Description))
	}

	prompt := prompts.Format(template, map[string]string{
		"Context": strings.Join(lines, "\n\n"),
		"Query":   query,
	})

	text, err := g.Client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func fallbackReason(job *types.ScoredCandidate) string {
	return fmt.Sprintf("'%s'은(는) 사용자님의 요청과 관련성이 높아 추천합니다.", job.Title)
}

func formatDistance(km *float64) string {
	if km == nil {
		return "-"
	}
	return strconv.FormatFloat(*km, 'f', 2, 64)
}
