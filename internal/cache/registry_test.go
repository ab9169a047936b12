package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Count int     `json:"count"`
	Hours float64 `json:"hours"`
}

type recorder struct {
	mu            sync.Mutex
	lookups       map[string]int
	invalidations map[bool]int
}

func newRecorder() *recorder {
	return &recorder{lookups: map[string]int{}, invalidations: map[bool]int{}}
}

func (r *recorder) CacheLookup(tag, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[tag+"/"+result]++
}

func (r *recorder) CacheInvalidation(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidations[ok]++
}

// brokenPort fails every call.
type brokenPort struct{ err error }

func (p brokenPort) Get(context.Context, string) ([]byte, bool, error) { return nil, false, p.err }
func (p brokenPort) Set(context.Context, string, []byte, time.Duration, ...string) error {
	return p.err
}
func (p brokenPort) Invalidate(context.Context, ...string) error { return p.err }

func TestFetch_ReadThrough(t *testing.T) {
	rec := newRecorder()
	reg := NewRegistry(NewMemoryStore(), time.Minute, WithRecorder(rec))
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (stats, error) {
		calls++
		return stats{Count: 3, Hours: 7.5}, nil
	}
	key := Key(ReportStatsTag, map[string]string{"from": "2024-01-01"})

	first, err := Fetch(ctx, reg, key, []string{ReportStatsTag}, load)
	require.NoError(t, err)
	second, err := Fetch(ctx, reg, key, []string{ReportStatsTag}, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rec.lookups[ReportStatsTag+"/"+metrics.ResultMiss])
	assert.Equal(t, 1, rec.lookups[ReportStatsTag+"/"+metrics.ResultHit])
}

func TestFetch_LoaderErrorIsNotCached(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), time.Minute)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := Fetch(ctx, reg, "k", []string{ReportStatsTag}, func(context.Context) (stats, error) {
		return stats{}, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := Fetch(ctx, reg, "k", []string{ReportStatsTag}, func(context.Context) (stats, error) {
		return stats{Count: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestFetch_NilRegistryCallsLoader(t *testing.T) {
	var reg *Registry
	got, err := Fetch(context.Background(), reg, "k", nil, func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	assert.NotPanics(t, func() { reg.InvalidateUsers(context.Background()) })
}

func TestFetch_LookupFailureSurfaces(t *testing.T) {
	down := errors.New("cache down")
	reg := NewRegistry(brokenPort{err: down}, time.Minute)

	called := false
	_, err := Fetch(context.Background(), reg, "k", []string{ReportStatsTag}, func(context.Context) (int, error) {
		called = true
		return 1, nil
	})
	assert.ErrorIs(t, err, down)
	assert.True(t, IsLookupError(err))
	assert.False(t, called)
}

func TestInvalidate_FailureIsSwallowedAndCounted(t *testing.T) {
	rec := newRecorder()
	reg := NewRegistry(brokenPort{err: errors.New("cache down")}, time.Minute, WithRecorder(rec))

	assert.NotPanics(t, func() {
		reg.InvalidateReport(context.Background(), ReportChange{ReportID: "r1", UserID: "u1"})
	})
	assert.Equal(t, 1, rec.invalidations[false])
}

func TestReportTags_CoverEveryAffectedScope(t *testing.T) {
	oldDay, err := jst.Convert("2024-01-01", jst.Start)
	require.NoError(t, err)
	newDay, err := jst.Convert("2024-01-03", jst.Start)
	require.NoError(t, err)

	tags := ReportTags(ReportChange{ReportID: "r1", UserID: "u1", Dates: []time.Time{oldDay, newDay, newDay}})
	assert.ElementsMatch(t, []string{
		"report:r1",
		"daily-reports:2024-01-01",
		"daily-reports:2024-01-03",
		"my-reports:u1",
		"project-summary:u1",
		"project-summary",
		"report-stats",
	}, tags)
}

func TestInvalidateReport_ClearsDependentEntries(t *testing.T) {
	store := NewMemoryStore()
	reg := NewRegistry(store, time.Hour)
	ctx := context.Background()
	day, err := jst.Convert("2024-05-10", jst.Start)
	require.NoError(t, err)

	load := func(context.Context) (int, error) { return 1, nil }
	_, _ = Fetch(ctx, reg, "daily", []string{DailyReportsTag("2024-05-10")}, load)
	_, _ = Fetch(ctx, reg, "mine", []string{MyReportsTag("u1")}, load)
	_, _ = Fetch(ctx, reg, "summary-u1", []string{ProjectSummaryTag, ProjectSummaryUserTag("u1")}, load)
	_, _ = Fetch(ctx, reg, "mine-u2", []string{MyReportsTag("u2")}, load)
	_, _ = Fetch(ctx, reg, "plan", []string{WeeklyPlansTag("u1")}, load)
	require.Equal(t, 5, store.Len())

	reg.InvalidateReport(ctx, ReportChange{ReportID: "r1", UserID: "u1", Dates: []time.Time{day}})

	assert.Equal(t, 2, store.Len(), "only the other user's list and the weekly plan survive")
	_, ok, _ := store.Get(ctx, "mine-u2")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "plan")
	assert.True(t, ok)

	reg.InvalidateWeeklyPlan(ctx, "u1")
	_, ok, _ = store.Get(ctx, "plan")
	assert.False(t, ok)
}

func TestInvalidateReport_SurvivesCanceledRequest(t *testing.T) {
	store := NewMemoryStore()
	reg := NewRegistry(store, time.Hour)
	_, _ = Fetch(context.Background(), reg, "stats", []string{ReportStatsTag}, func(context.Context) (int, error) { return 1, nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reg.InvalidateReport(ctx, ReportChange{ReportID: "r1", UserID: "u1"})
	assert.Zero(t, store.Len())
}

func TestCatalogTags(t *testing.T) {
	assert.ElementsMatch(t, []string{"missions", "project-summary", "report-stats"}, CatalogTags(MissionsTag))
}

func TestKey_StableAndDistinct(t *testing.T) {
	type q struct {
		From string
		User string
	}
	a := Key(ReportStatsTag, q{"2024-01-01", "u1"})
	assert.Equal(t, a, Key(ReportStatsTag, q{"2024-01-01", "u1"}))
	assert.NotEqual(t, a, Key(ReportStatsTag, q{"2024-01-01", "u2"}))
	assert.NotEqual(t, a, Key(ProjectSummaryTag, q{"2024-01-01", "u1"}))
	assert.Contains(t, a, "report-stats#")
}

func TestFetch_InvalidationDuringLoadSkipsWrite(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), time.Minute)
	ctx := context.Background()
	key := Key(ReportStatsTag, "june")

	calls := 0
	load := func(context.Context) (stats, error) {
		calls++
		if calls == 1 {
			// A write commits and invalidates while the first read is running.
			reg.InvalidateReport(ctx, ReportChange{ReportID: "r1", UserID: "u1"})
		}
		return stats{Count: calls}, nil
	}

	first, err := Fetch(ctx, reg, key, []string{ReportStatsTag}, load)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count, "the caller still gets its value")

	second, err := Fetch(ctx, reg, key, []string{ReportStatsTag}, load)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count, "the raced value must not have been cached")

	third, err := Fetch(ctx, reg, key, []string{ReportStatsTag}, load)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Count)
	assert.Equal(t, 2, calls)
	assert.Zero(t, reg.gens.tracked(), "finished fetches release their tags")
}

func TestFetch_UnrelatedInvalidationStillCaches(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), time.Minute)
	ctx := context.Background()
	key := Key(UsersTag, "all")

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		reg.InvalidateWeeklyPlan(ctx, "u1")
		return 5, nil
	}
	for range 2 {
		_, err := Fetch(ctx, reg, key, []string{UsersTag}, load)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestFetch_ConcurrentFetchAndInvalidate(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := Fetch(ctx, reg, Key(ReportStatsTag, i%3), []string{ReportStatsTag, ProjectSummaryTag}, func(context.Context) (int, error) {
				return i, nil
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			reg.InvalidateUsers(ctx)
		}()
	}
	wg.Wait()
	assert.Zero(t, reg.gens.tracked())
}
