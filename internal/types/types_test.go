package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRange_UnmarshalArrayForm(t *testing.T) {
	var avail WeeklyAvailability
	raw := `{"Mon": [["09:00", "13:00"], ["15:00", "18:00"]], "Sat": []}`
	require.NoError(t, json.Unmarshal([]byte(raw), &avail))

	require.Len(t, avail["Mon"], 2)
	assert.Equal(t, TimeRange{Start: "09:00", End: "13:00"}, avail["Mon"][0])
	assert.Equal(t, TimeRange{Start: "15:00", End: "18:00"}, avail["Mon"][1])
	assert.Empty(t, avail["Sat"])
}

func TestTimeRange_UnmarshalObjectForm(t *testing.T) {
	var tr TimeRange
	require.NoError(t, json.Unmarshal([]byte(`{"start": "09:00", "end": "13:00"}`), &tr))
	assert.Equal(t, TimeRange{Start: "09:00", End: "13:00"}, tr)
}

func TestTimeRange_RoundTrip(t *testing.T) {
	orig := WeeklyAvailability{"Tue": {{Start: "10:00", End: "12:00"}}}
	data, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Tue": [["10:00", "12:00"]]}`, string(data))

	var back WeeklyAvailability
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, orig, back)
}

func TestBuildHistorySets(t *testing.T) {
	history := []Engagement{
		{JobID: 1, Status: StatusApplied},
		{JobID: 2, Status: StatusCompleted},
		{JobID: 3, Status: StatusSaved},
		{JobID: 4, Status: StatusRejected},
		{JobID: 5, Status: StatusDismissed},
		{JobID: 6, Status: StatusCancelled},
	}

	sets := BuildHistorySets(history)

	assert.True(t, sets.Accepted[1])
	assert.True(t, sets.Accepted[2])
	assert.True(t, sets.Accepted[3])
	assert.True(t, sets.Rejected[4])
	assert.False(t, sets.Accepted[5])
	assert.False(t, sets.Rejected[5])
	assert.False(t, sets.Accepted[6])
	assert.Len(t, sets.Accepted, 3)
	assert.Len(t, sets.Rejected, 1)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []EngagementStatus{StatusSaved, StatusApplied, StatusCompleted, StatusCancelled, StatusRejected, StatusDismissed} {
		assert.True(t, ValidStatus(s), string(s))
	}
	assert.False(t, ValidStatus("starred"))
	assert.False(t, ValidStatus(""))
}

func TestUserContext_BaseLocation(t *testing.T) {
	home, homeLon := 37.5, 127.0
	cur, curLon := 36.0, 128.0

	u := &UserContext{}
	_, _, ok := u.BaseLocation()
	assert.False(t, ok)

	u.HomeLatitude, u.HomeLongitude = &home, &homeLon
	lat, lon, ok := u.BaseLocation()
	require.True(t, ok)
	assert.Equal(t, home, lat)
	assert.Equal(t, homeLon, lon)

	u.CurrentLatitude, u.CurrentLongitude = &cur, &curLon
	lat, lon, ok = u.BaseLocation()
	require.True(t, ok)
	assert.Equal(t, cur, lat)
	assert.Equal(t, curLon, lon)
}

func TestRecommendRequest_Validate(t *testing.T) {
	req := &RecommendRequest{}
	assert.Error(t, req.Validate())

	req = &RecommendRequest{UserID: uuid.New(), Query: "quiet work"}
	assert.NoError(t, req.Validate())

	req.TopK = 100
	assert.Error(t, req.Validate())
}

func TestEngagementRequest_Validate(t *testing.T) {
	req := &EngagementRequest{UserID: uuid.New(), JobID: 3, Status: StatusSaved}
	assert.NoError(t, req.Validate())

	req.Status = "starred"
	err := req.Validate()
	require.Error(t, err)
	var invalid *InvalidStatusError
	assert.ErrorAs(t, err, &invalid)
}

func TestProfileUpdate_Validate(t *testing.T) {
	ability := 2
	env := "indoor"
	update := &ProfileUpdate{AbilityPhysical: &ability, PreferredEnvironment: &env}
	assert.NoError(t, update.Validate())

	bad := 7
	update.AbilityPhysical = &bad
	assert.Error(t, update.Validate())
}
