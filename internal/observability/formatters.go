// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/minsu/gig-recommender/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = truncateLine(line, boxWidth-7) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a human-readable summary of the user context the
// pipeline ranked against.
func (p *Printer) PrintProfile(user *types.UserContext) {
	if user == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:     %s\n", user.ID))
	if user.Nickname != "" {
		sb.WriteString(fmt.Sprintf("Nickname: %s\n", user.Nickname))
	}
	if lat, lon, ok := user.BaseLocation(); ok {
		sb.WriteString(fmt.Sprintf("Location: %.4f, %.4f\n", lat, lon))
	} else {
		sb.WriteString("Location: not set\n")
	}

	if len(user.PreferredJobs) > 0 {
		jobs := strings.Join(user.PreferredJobs, ", ")
		sb.WriteString(fmt.Sprintf("Prefers:  %s\n", jobs))
	}

	if len(user.Availability) > 0 {
		sb.WriteString("\nAvailability:\n")
		shown := 0
		for day, slots := range user.Availability {
			if shown >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more days\n", len(user.Availability)-shown))
				break
			}
			parts := make([]string, len(slots))
			for i, s := range slots {
				parts[i] = s.Start + "-" + s.End
			}
			sb.WriteString(fmt.Sprintf("  %s: %s\n", day, strings.Join(parts, ", ")))
			shown++
		}
	}

	p.printBox("USER CONTEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedJobs outputs the top ranked jobs with their score breakdown.
func (p *Printer) PrintRankedJobs(query string, jobs []types.ScoredCandidate) {
	if len(jobs) == 0 {
		p.printBox("RANKED JOBS", fmt.Sprintf("No jobs matched %q", query))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query: %q\n", query))
	sb.WriteString(fmt.Sprintf("Total ranked: %d\n\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("#%d  [%d] %s\n", i+1, job.JobID, job.Title))
		sb.WriteString(fmt.Sprintf("    Score: %.4f", job.MatchScore))
		if job.DistanceKm != nil {
			sb.WriteString(fmt.Sprintf("  Dist: %.2fkm", *job.DistanceKm))
		}
		if job.TravelMinutes != nil {
			sb.WriteString(fmt.Sprintf(" (~%dmin)", *job.TravelMinutes))
		}
		sb.WriteString(fmt.Sprintf("  TimeFit: %.2f\n", job.TimeFit))
		sb.WriteString(fmt.Sprintf("    Wage: %d원/h  Place: %s\n", job.HourlyWage, job.Place))
		if job.Reason != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", truncateLine(job.Reason, 50)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-maxItemsToShow))
	}

	p.printBox("RANKED JOBS", sb.String())
}

// PrintAnswer outputs the final conversational answer.
func (p *Printer) PrintAnswer(answer string) {
	if answer == "" {
		return
	}
	p.printBox("ANSWER", answer)
}

// truncateLine cuts a line to at most n runes without splitting multibyte
// characters.
func truncateLine(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
