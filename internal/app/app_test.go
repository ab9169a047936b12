package app

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSummary_JSONShape(t *testing.T) {
	first := time.Date(2023, 12, 31, 15, 0, 0, 0, time.UTC)
	s := ProjectSummary{
		ProjectID:          "p1",
		ProjectName:        "Alpha",
		TotalHours:         7.5,
		WorkDays:           2,
		FirstWorkDate:      InstantPtr(&first),
		AverageHoursPerDay: 3.75,
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"projectId": "p1",
		"projectName": "Alpha",
		"totalHours": 7.5,
		"workDays": 2,
		"firstWorkDate": "2023-12-31T15:00:00.000Z",
		"lastWorkDate": null,
		"averageHoursPerDay": 3.75
	}`, string(data))
}

func TestAggregationResult_ZeroValueIsNotNull(t *testing.T) {
	data, err := json.Marshal(AggregationResult{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reportCount":0,"distinctProjectCount":0,"totalHours":0}`, string(data))
}

func TestInstant_RoundTrip(t *testing.T) {
	in := Instant(time.Date(2024, 1, 1, 14, 59, 59, 999_000_000, time.UTC))
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01T14:59:59.999Z"`, string(data))

	var out Instant
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.Time().Equal(out.Time()))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &out))
}

func TestServiceError_Unwraps(t *testing.T) {
	cause := errors.New("database is locked")
	var err error = &ServiceError{Op: "report-stats", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "report-stats")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "report-stats", svcErr.Op)
}

func TestAggregationQuery_NameFragments(t *testing.T) {
	q := AggregationQuery{UserNames: []string{"", "  ", "Tana"}}
	assert.Equal(t, []string{"Tana"}, q.NameFragments())
	assert.True(t, q.HasNameFilter())

	assert.False(t, AggregationQuery{UserNames: []string{" "}}.HasNameFilter())
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(10, 5, 100)
	assert.Equal(t, 20, info.Pages)
	assert.Equal(t, "[0,…,9,10,11,…,19]", info.Window.String())

	empty := NewPageInfo(0, 5, 0)
	assert.Zero(t, empty.Pages)
	assert.Empty(t, empty.Window)
}
