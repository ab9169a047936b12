package cli

import (
	"testing"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/calendar"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportListQuery(date string) app.ReportListQuery {
	return app.ReportListQuery{Date: date, PerPage: 10}
}

func TestParseEntry(t *testing.T) {
	e, err := parseEntry("Alpha/API = 2.5 : code review: part 1")
	require.NoError(t, err)
	assert.Equal(t, entrySpec{Mission: "Alpha/API", Hours: 2.5, Content: "code review: part 1"}, e)

	e, err = parseEntry("Docs=1")
	require.NoError(t, err)
	assert.Empty(t, e.Content)

	for _, bad := range []string{"", "Docs", "=3", "Docs=x"} {
		_, err := parseEntry(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateValue(t *testing.T) {
	var s string
	v := newDateValue(&s)
	require.NoError(t, v.Set("2024-06-03"))
	assert.Equal(t, "2024-06-03", v.String())
	assert.Equal(t, "date", v.Type())

	var dateErr *jst.InvalidDateError
	assert.ErrorAs(t, v.Set("06/03/2024"), &dateErr)
	assert.Equal(t, "2024-06-03", s, "rejected input leaves the value unchanged")
}

func TestResolveRef(t *testing.T) {
	users := []*domain.User{
		{ID: "a1b2c3", Name: "Alice"},
		{ID: "a1ffff", Name: "Alan"},
		{ID: "b00000", Name: "Bob"},
	}
	id := func(u *domain.User) string { return u.ID }
	name := func(u *domain.User) string { return u.Name }

	u, err := resolveRef("user", "bob", users, id, name)
	require.NoError(t, err)
	assert.Equal(t, "b00000", u.ID)

	u, err = resolveRef("user", "a1b", users, id, name)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = resolveRef("user", "a1", users, id, name)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveRef("user", "zed", users, id, name)
	assert.ErrorContains(t, err, "not found")

	_, err = resolveRef("user", " ", users, id, name)
	assert.ErrorContains(t, err, "required")
}

func TestResolveMission(t *testing.T) {
	refs := []missionRef{
		{Mission: &domain.Mission{ID: "m1", Name: "Docs"}, Project: "Alpha"},
		{Mission: &domain.Mission{ID: "m2", Name: "Docs"}, Project: "Beta"},
		{Mission: &domain.Mission{ID: "m3", Name: "API"}, Project: "Alpha"},
	}

	m, err := resolveMission(refs, "beta/docs")
	require.NoError(t, err)
	assert.Equal(t, "m2", m.ID)

	m, err = resolveMission(refs, "API")
	require.NoError(t, err)
	assert.Equal(t, "m3", m.ID)

	_, err = resolveMission(refs, "Docs")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveMission(refs, "Ops")
	assert.ErrorContains(t, err, "not found")
}

func TestWeekChoices(t *testing.T) {
	today := time.Date(2024, 2, 14, 12, 0, 0, 0, jst.Location)
	weeks, current := weekChoices(calendar.Months(today), today)

	require.Len(t, weeks, 8)
	assert.Equal(t, 8, weeks[0].Number, "most recent week first")
	assert.Equal(t, 1, weeks[len(weeks)-1].Number)
	assert.True(t, weeks[current].Contains(today))
	assert.Equal(t, 7, weeks[current].Number)
}
