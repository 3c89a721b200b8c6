// Package schedule computes weekly availability overlap between a user's
// declared schedule and a job's work days and shift hours.
package schedule

import (
	"math"
	"strconv"
	"strings"

	"github.com/minsu/gig-recommender/internal/types"
)

// Weekdays is the canonical Monday-first day order. Work-day masks and
// availability maps are both keyed against it.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const minutesPerDay = 24 * 60

// OverlapMetrics holds the schedule-compatibility ratios for one job, each
// clamped to [0,1] and rounded to 2 decimals. TimeFit is the single score
// consumed downstream.
type OverlapMetrics struct {
	JobNorm          float64 `json:"job_norm"`
	IntersectionNorm float64 `json:"intersection_norm"`
	UserFitRatio     float64 `json:"user_fit_ratio"`
	TimeFit          float64 `json:"time_fit"`
}

// ParseTimeToMinutes converts an "HH:MM" or "HH:MM:SS" string to minutes
// since midnight. Malformed input yields 0 rather than an error: a bad
// schedule means no overlap, not a failed candidate.
func ParseTimeToMinutes(s string) int {
	if s == "" || !strings.Contains(s, ":") {
		return 0
	}
	parts := strings.Split(s, ":")
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return h*60 + m
}

// ParseWorkDays expands a 7-character binary mask into the list of active
// weekday names. A mask of the wrong length or with non-binary characters
// yields nil.
func ParseWorkDays(mask string) []string {
	mask = strings.TrimSpace(mask)
	if len(mask) != len(Weekdays) {
		return nil
	}
	var days []string
	for i, ch := range mask {
		switch ch {
		case '1':
			days = append(days, Weekdays[i])
		case '0':
		default:
			return nil
		}
	}
	return days
}

// intervalOverlapMinutes returns the length of the intersection of two
// half-open minute intervals.
func intervalOverlapMinutes(aStart, aEnd, bStart, bEnd int) int {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// slotMinutes sums the declared minutes in a day's availability slots,
// ignoring empty or inverted slots.
func slotMinutes(slots []types.TimeRange) int {
	total := 0
	for _, slot := range slots {
		s := ParseTimeToMinutes(slot.Start)
		e := ParseTimeToMinutes(slot.End)
		if e > s {
			total += e - s
		}
	}
	return total
}

// ComputeOverlap computes the schedule-compatibility metrics between a
// user's weekly availability and a job's work-day mask and shift times.
// An end time at or before the start time means the shift crosses midnight;
// the portion past midnight is matched against the next weekday's
// availability, wrapping Sunday to Monday.
func ComputeOverlap(availability types.WeeklyAvailability, workDays, startTime, endTime string) OverlapMetrics {
	if availability == nil {
		availability = types.WeeklyAvailability{}
	}

	candidateDays := ParseWorkDays(workDays)
	if len(candidateDays) == 0 {
		return OverlapMetrics{}
	}

	shiftStart := ParseTimeToMinutes(startTime)
	shiftEnd := ParseTimeToMinutes(endTime)
	overnight := false
	if shiftEnd <= shiftStart {
		shiftEnd += minutesPerDay
		overnight = true
	}
	shiftDuration := shiftEnd - shiftStart

	userTotalMinutes := 0
	userMinutesByDay := make(map[string]int, len(Weekdays))
	for _, day := range Weekdays {
		mins := slotMinutes(availability[day])
		userMinutesByDay[day] = mins
		userTotalMinutes += mins
	}

	dayIndex := make(map[string]int, len(Weekdays))
	for i, day := range Weekdays {
		dayIndex[day] = i
	}

	overlapWithDay := func(day string) int {
		overlap := 0
		// Same-day segment, cut off at midnight.
		segEnd := shiftEnd
		if segEnd > minutesPerDay {
			segEnd = minutesPerDay
		}
		if segEnd > shiftStart {
			for _, slot := range availability[day] {
				s := ParseTimeToMinutes(slot.Start)
				e := ParseTimeToMinutes(slot.End)
				if e > s {
					overlap += intervalOverlapMinutes(shiftStart, segEnd, s, e)
				}
			}
		}
		// Post-midnight segment against the following day.
		if overnight && shiftEnd > minutesPerDay {
			nextDay := Weekdays[(dayIndex[day]+1)%len(Weekdays)]
			tailEnd := shiftEnd - minutesPerDay
			for _, slot := range availability[nextDay] {
				s := ParseTimeToMinutes(slot.Start)
				e := ParseTimeToMinutes(slot.End)
				if e > s {
					overlap += intervalOverlapMinutes(0, tailEnd, s, e)
				}
			}
		}
		return overlap
	}

	overlapMinutes := 0
	intersectionDays := 0
	for _, day := range candidateDays {
		dayOverlap := overlapWithDay(day)
		if dayOverlap > shiftDuration {
			dayOverlap = shiftDuration
		}
		overlapMinutes += dayOverlap

		nextDay := Weekdays[(dayIndex[day]+1)%len(Weekdays)]
		if userMinutesByDay[day] > 0 || (overnight && userMinutesByDay[nextDay] > 0) {
			intersectionDays++
		}
	}

	jobTotalMinutes := shiftDuration * len(candidateDays)
	jobNorm := 0.0
	if jobTotalMinutes > 0 {
		jobNorm = float64(overlapMinutes) / float64(jobTotalMinutes)
	}

	intersectionDenom := shiftDuration * max(intersectionDays, 1)
	intersectionNorm := 0.0
	if intersectionDenom > 0 {
		intersectionNorm = float64(overlapMinutes) / float64(intersectionDenom)
	}

	userFitRatio := 0.0
	if userTotalMinutes > 0 {
		userFitRatio = float64(overlapMinutes) / float64(userTotalMinutes)
	}

	const eps = 1e-6
	timeFit := math.Cbrt((jobNorm+eps)*(intersectionNorm+eps)*(userFitRatio+eps)) - eps

	return OverlapMetrics{
		JobNorm:          round2(clamp01(jobNorm)),
		IntersectionNorm: round2(clamp01(intersectionNorm)),
		UserFitRatio:     round2(clamp01(userFitRatio)),
		TimeFit:          round2(clamp01(timeFit)),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
