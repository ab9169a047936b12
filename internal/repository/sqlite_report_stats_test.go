package repository

import (
	"context"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, from, to string) (time.Time, time.Time) {
	t.Helper()
	start, err := jst.Convert(from, jst.Start)
	require.NoError(t, err)
	end, err := jst.Convert(to, jst.End)
	require.NoError(t, err)
	return start, end
}

func TestReportStatsRepo_EmptyStoreYieldsZeros(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteReportStatsRepo(database)
	ctx := context.Background()

	n, err := repo.CountReports(ctx, ReportFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	p, err := repo.CountDistinctProjects(ctx, ReportFilter{})
	require.NoError(t, err)
	assert.Zero(t, p)

	h, err := repo.SumHours(ctx, ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, h)

	totals, err := repo.ProjectTotals(ctx, ReportFilter{}, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, totals)
	assert.Empty(t, totals)
}

func TestReportStatsRepo_AggregatesWithinRange(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteReportStatsRepo(database)
	ctx := context.Background()

	createReport(t, database, testutil.NewTestReport(w.alice.ID, "2024-01-01",
		testutil.WithEntry(w.missionA.ID, 3), testutil.WithEntry(w.missionB.ID, 2)))
	createReport(t, database, testutil.NewTestReport(w.alice.ID, "2024-01-02",
		testutil.WithEntry(w.missionA.ID, 4)))
	createReport(t, database, testutil.NewTestReport(w.bob.ID, "2024-01-02",
		testutil.WithEntry(w.missionA.ID, 1.5)))
	// Outside the range by one day.
	createReport(t, database, testutil.NewTestReport(w.bob.ID, "2024-01-03",
		testutil.WithEntry(w.missionB.ID, 8)))

	from, to := mustRange(t, "2024-01-01", "2024-01-02")
	f := ReportFilter{From: from, To: to}

	n, err := repo.CountReports(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	p, err := repo.CountDistinctProjects(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 2, p)

	h, err := repo.SumHours(ctx, f)
	require.NoError(t, err)
	assert.InDelta(t, 10.5, h, 1e-9)

	f.UserIDs = []string{w.bob.ID}
	h, err = repo.SumHours(ctx, f)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, h, 1e-9)

	f.UserIDs = []string{}
	n, err = repo.CountReports(ctx, f)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReportStatsRepo_RangeBoundariesAreLocalDays(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteReportStatsRepo(database)
	ctx := context.Background()

	createReport(t, database, testutil.NewTestReport(w.alice.ID, "2023-12-31", testutil.WithEntry(w.missionA.ID, 1)))
	createReport(t, database, testutil.NewTestReport(w.alice.ID, "2024-01-01", testutil.WithEntry(w.missionA.ID, 2)))

	from, to := mustRange(t, "2024-01-01", "2024-01-01")
	h, err := repo.SumHours(ctx, ReportFilter{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, 2.0, h)
}

func TestReportStatsRepo_ProjectTotals(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteReportStatsRepo(database)
	ctx := context.Background()

	createReport(t, database, testutil.NewTestReport(w.alice.ID, "2024-02-01",
		testutil.WithEntry(w.missionA.ID, 2), testutil.WithEntry(w.missionA.ID, 1)))
	createReport(t, database, testutil.NewTestReport(w.bob.ID, "2024-02-01",
		testutil.WithEntry(w.missionA.ID, 2)))
	createReport(t, database, testutil.NewTestReport(w.alice.ID, "2024-02-05",
		testutil.WithEntry(w.missionA.ID, 1), testutil.WithEntry(w.missionB.ID, 7)))

	totals, err := repo.ProjectTotals(ctx, ReportFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	b, a := totals[0], totals[1]
	assert.Equal(t, w.projB.ID, b.ProjectID)
	assert.Equal(t, "Beta", b.ProjectName)
	assert.Equal(t, 7.0, b.TotalHours)
	assert.Equal(t, 1, b.WorkDays)

	assert.Equal(t, w.projA.ID, a.ProjectID)
	assert.Equal(t, 6.0, a.TotalHours)
	assert.Equal(t, 2, a.WorkDays, "two reports on the same day count once")
	require.NotNil(t, a.FirstWorkDate)
	require.NotNil(t, a.LastWorkDate)
	assert.Equal(t, "2024-02-01", jst.DateOf(*a.FirstWorkDate))
	assert.Equal(t, "2024-02-05", jst.DateOf(*a.LastWorkDate))

	page, err := repo.ProjectTotals(ctx, ReportFilter{}, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, w.projA.ID, page[0].ProjectID)
}

func TestReportStatsRepo_ProjectTotals_TiesBrokenByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteReportStatsRepo(database)

	createReport(t, database, testutil.NewTestReport(w.alice.ID, "2024-02-01",
		testutil.WithEntry(w.missionA.ID, 4), testutil.WithEntry(w.missionB.ID, 4)))

	totals, err := repo.ProjectTotals(context.Background(), ReportFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Less(t, totals[0].ProjectID, totals[1].ProjectID)
}

// TestReportStatsRepo_MatchesInMemoryModel generates random reports and checks
// the SQL aggregates against a straightforward in-memory computation.
func TestReportStatsRepo_MatchesInMemoryModel(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteReportStatsRepo(database)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	users := []*domain.User{w.alice, w.bob}
	missions := []*domain.Mission{w.missionA, w.missionB}
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, jst.Location)

	type agg struct {
		hours float64
		days  map[string]bool
	}
	var reports []*domain.DailyReport
	for i := 0; i < 40; i++ {
		day := base.AddDate(0, 0, rng.Intn(30)).Format(jst.DateLayout)
		var opts []testutil.ReportOption
		for j := 0; j <= rng.Intn(3); j++ {
			opts = append(opts, testutil.WithEntry(missions[rng.Intn(2)].ID, float64(1+rng.Intn(16))/2))
		}
		r := testutil.NewTestReport(users[rng.Intn(2)].ID, day, opts...)
		createReport(t, database, r)
		reports = append(reports, r)
	}

	from, to := mustRange(t, "2024-04-08", "2024-04-21")
	f := ReportFilter{From: from, To: to, UserIDs: []string{w.alice.ID}}

	wantCount := 0
	wantHours := 0.0
	byProject := map[string]*agg{}
	for _, r := range reports {
		if r.ReportDate.Before(from) || r.ReportDate.After(to) || r.UserID != w.alice.ID {
			continue
		}
		wantCount++
		for _, e := range r.Entries {
			pid := w.projA.ID
			if e.MissionID == w.missionB.ID {
				pid = w.projB.ID
			}
			if byProject[pid] == nil {
				byProject[pid] = &agg{days: map[string]bool{}}
			}
			byProject[pid].hours += e.Hours
			byProject[pid].days[jst.DateOf(r.ReportDate)] = true
			wantHours += e.Hours
		}
	}

	n, err := repo.CountReports(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, wantCount, n)

	h, err := repo.SumHours(ctx, f)
	require.NoError(t, err)
	assert.InDelta(t, wantHours, h, 1e-9)

	p, err := repo.CountDistinctProjects(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, len(byProject), p)

	totals, err := repo.ProjectTotals(ctx, f, 0, 0)
	require.NoError(t, err)
	require.Len(t, totals, len(byProject))
	assert.True(t, sort.SliceIsSorted(totals, func(i, j int) bool {
		if totals[i].TotalHours != totals[j].TotalHours {
			return totals[i].TotalHours > totals[j].TotalHours
		}
		return totals[i].ProjectID < totals[j].ProjectID
	}))
	for _, got := range totals {
		want := byProject[got.ProjectID]
		require.NotNil(t, want)
		assert.InDelta(t, want.hours, got.TotalHours, 1e-9)
		assert.Equal(t, len(want.days), got.WorkDays)
		assert.Positive(t, got.WorkDays)
	}
}
