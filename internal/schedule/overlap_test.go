package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minsu/gig-recommender/internal/types"
)

func weekdayAvailability(days []string, start, end string) types.WeeklyAvailability {
	avail := types.WeeklyAvailability{}
	for _, day := range days {
		avail[day] = []types.TimeRange{{Start: start, End: end}}
	}
	return avail
}

func TestParseWorkDays(t *testing.T) {
	tests := []struct {
		name string
		mask string
		want []string
	}{
		{"weekdays", "1111100", []string{"Mon", "Tue", "Wed", "Thu", "Fri"}},
		{"weekend", "0000011", []string{"Sat", "Sun"}},
		{"none", "0000000", nil},
		{"too short", "11111", nil},
		{"too long", "11111000", nil},
		{"non binary", "11111x0", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWorkDays(tt.mask))
		})
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	assert.Equal(t, 540, ParseTimeToMinutes("09:00"))
	assert.Equal(t, 810, ParseTimeToMinutes("13:30"))
	assert.Equal(t, 540, ParseTimeToMinutes("09:00:00"))
	assert.Equal(t, 0, ParseTimeToMinutes(""))
	assert.Equal(t, 0, ParseTimeToMinutes("nine"))
}

func TestComputeOverlap_FullContainment(t *testing.T) {
	avail := weekdayAvailability([]string{"Mon", "Tue", "Wed", "Thu", "Fri"}, "08:00", "14:00")
	m := ComputeOverlap(avail, "1111100", "09:00", "13:00")

	assert.Equal(t, 1.0, m.JobNorm)
	assert.Equal(t, 1.0, m.IntersectionNorm)
	// 1200 overlap minutes / 1800 declared minutes
	assert.Equal(t, 0.67, m.UserFitRatio)
	assert.Greater(t, m.TimeFit, 0.8)
	assert.LessOrEqual(t, m.TimeFit, 1.0)
}

func TestComputeOverlap_InvalidMaskYieldsZero(t *testing.T) {
	avail := weekdayAvailability([]string{"Mon"}, "08:00", "14:00")
	for _, mask := range []string{"", "111", "abcdefg", "0000000"} {
		m := ComputeOverlap(avail, mask, "09:00", "13:00")
		assert.Equal(t, OverlapMetrics{}, m, "mask %q", mask)
	}
}

func TestComputeOverlap_NoAvailability(t *testing.T) {
	m := ComputeOverlap(nil, "1111100", "09:00", "13:00")
	assert.Equal(t, 0.0, m.TimeFit)
	assert.Equal(t, 0.0, m.UserFitRatio)
}

func TestComputeOverlap_PartialOverlap(t *testing.T) {
	// Shift 09:00-17:00, availability only 13:00-17:00 on the single work day.
	avail := weekdayAvailability([]string{"Wed"}, "13:00", "17:00")
	m := ComputeOverlap(avail, "0010000", "09:00", "17:00")

	assert.Equal(t, 0.5, m.JobNorm)
	assert.Equal(t, 0.5, m.IntersectionNorm)
	assert.Equal(t, 1.0, m.UserFitRatio)
	assert.Greater(t, m.TimeFit, 0.0)
	assert.Less(t, m.TimeFit, 1.0)
}

func TestComputeOverlap_OvernightShift(t *testing.T) {
	// Friday 22:00-02:00: the tail past midnight lands on Saturday.
	avail := types.WeeklyAvailability{
		"Fri": {{Start: "22:00", End: "24:00"}},
		"Sat": {{Start: "00:00", End: "02:00"}},
	}
	m := ComputeOverlap(avail, "0000100", "22:00", "02:00")

	assert.Equal(t, 1.0, m.JobNorm)
	assert.Equal(t, 1.0, m.IntersectionNorm)
	assert.Equal(t, 1.0, m.UserFitRatio)
}

func TestComputeOverlap_OvernightSundayWrapsToMonday(t *testing.T) {
	// Sunday 23:00-01:00 with availability only Monday morning.
	avail := types.WeeklyAvailability{
		"Mon": {{Start: "00:00", End: "01:00"}},
	}
	m := ComputeOverlap(avail, "0000001", "23:00", "01:00")

	// 60 of 120 shift minutes are covered, all via the wrapped tail.
	assert.Equal(t, 0.5, m.JobNorm)
	assert.Equal(t, 0.5, m.IntersectionNorm)
	assert.Equal(t, 1.0, m.UserFitRatio)
	assert.Greater(t, m.TimeFit, 0.0)
}

func TestComputeOverlap_OverlapCappedAtShiftDuration(t *testing.T) {
	// Two availability slots both covering the shift must not double-count
	// past the shift's own duration.
	avail := types.WeeklyAvailability{
		"Mon": {
			{Start: "08:00", End: "14:00"},
			{Start: "09:00", End: "13:00"},
		},
	}
	m := ComputeOverlap(avail, "1000000", "09:00", "13:00")
	assert.Equal(t, 1.0, m.JobNorm)
}

func TestComputeOverlap_TimeFitAlwaysInRange(t *testing.T) {
	cases := []struct {
		avail      types.WeeklyAvailability
		mask       string
		start, end string
	}{
		{nil, "1111111", "00:00", "00:00"},
		{weekdayAvailability(Weekdays, "00:00", "24:00"), "1111111", "09:00", "18:00"},
		{weekdayAvailability([]string{"Sat"}, "10:00", "11:00"), "0000010", "10:30", "10:45"},
		{weekdayAvailability([]string{"Mon"}, "23:00", "24:00"), "1000000", "22:00", "06:00"},
	}
	for _, c := range cases {
		m := ComputeOverlap(c.avail, c.mask, c.start, c.end)
		assert.GreaterOrEqual(t, m.TimeFit, 0.0)
		assert.LessOrEqual(t, m.TimeFit, 1.0)
	}
}

func TestComputeOverlap_MalformedSlotsIgnored(t *testing.T) {
	avail := types.WeeklyAvailability{
		"Mon": {
			{Start: "14:00", End: "09:00"}, // inverted, ignored
			{Start: "09:00", End: "13:00"},
		},
	}
	m := ComputeOverlap(avail, "1000000", "09:00", "13:00")
	assert.Equal(t, 1.0, m.JobNorm)
	assert.Equal(t, 1.0, m.UserFitRatio)
}
