package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/testutil"
	"github.com/stretchr/testify/require"
)

// fixedNow is 2024-06-15 noon in Tokyo.
var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, jst.Location)

func june(q app.AggregationQuery) app.AggregationQuery {
	q.From, q.To = "2024-06-01", "2024-06-30"
	q.Now = &fixedNow
	return q
}

// env is a seeded store: two users and two projects with one mission each.
type env struct {
	db       *sql.DB
	users    *repository.SQLiteUserRepo
	projects *repository.SQLiteProjectRepo
	missions *repository.SQLiteMissionRepo
	reports  *repository.SQLiteReportRepo
	stats    *repository.SQLiteReportStatsRepo
	plans    *repository.SQLiteWeeklyPlanRepo
	store    *countingPort
	registry *cache.Registry

	alice, bob         *domain.User
	projA, projB       *domain.Project
	missionA, missionB *domain.Mission
}

func newEnv(t *testing.T) *env {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	e := &env{
		db:       database,
		users:    repository.NewSQLiteUserRepo(database),
		projects: repository.NewSQLiteProjectRepo(database),
		missions: repository.NewSQLiteMissionRepo(database),
		reports:  repository.NewSQLiteReportRepo(database),
		stats:    repository.NewSQLiteReportStatsRepo(database),
		plans:    repository.NewSQLiteWeeklyPlanRepo(database),
		store:    &countingPort{Port: cache.NewMemoryStore()},
		alice:    testutil.NewTestUser("Alice Tanaka"),
		bob:      testutil.NewTestUser("Bob Suzuki"),
		projA:    testutil.NewTestProject("Alpha"),
		projB:    testutil.NewTestProject("Beta"),
	}
	e.registry = cache.NewRegistry(e.store, time.Minute)
	e.missionA = testutil.NewTestMission(e.projA.ID, "API")
	e.missionB = testutil.NewTestMission(e.projB.ID, "UI")

	require.NoError(t, e.users.Create(ctx, e.alice))
	require.NoError(t, e.users.Create(ctx, e.bob))
	require.NoError(t, e.projects.Create(ctx, e.projA))
	require.NoError(t, e.projects.Create(ctx, e.projB))
	require.NoError(t, e.missions.Create(ctx, e.missionA))
	require.NoError(t, e.missions.Create(ctx, e.missionB))
	return e
}

func (e *env) statsService(opts ...UseCaseObserver) ReportStatsService {
	return NewReportStatsService(e.stats, e.users, e.registry, time.Second, opts...)
}

func (e *env) summaryService() ProjectSummaryService {
	return NewProjectSummaryService(e.stats, e.users, e.registry, time.Second)
}

func (e *env) reportService() ReportService {
	return NewReportService(e.reports, e.stats, testutil.NewTestUoW(e.db), e.registry, time.Second, 2)
}

// seedJune stores four reports, three of them in June 2024:
//
//	alice 06-03: A 3h, B 2h
//	alice 06-04: A 4h
//	bob   06-03: A 1.5h
//	bob   05-01: B 8h
func (e *env) seedJune(t *testing.T) {
	t.Helper()
	svc := NewReportService(e.reports, e.stats, testutil.NewTestUoW(e.db), nil, time.Second, 0)
	ctx := context.Background()
	for _, r := range []struct {
		user    string
		date    string
		entries []app.WorkEntryInput
	}{
		{e.alice.ID, "2024-06-03", []app.WorkEntryInput{{MissionID: e.missionA.ID, Hours: 3}, {MissionID: e.missionB.ID, Hours: 2}}},
		{e.alice.ID, "2024-06-04", []app.WorkEntryInput{{MissionID: e.missionA.ID, Hours: 4}}},
		{e.bob.ID, "2024-06-03", []app.WorkEntryInput{{MissionID: e.missionA.ID, Hours: 1.5}}},
		{e.bob.ID, "2024-05-01", []app.WorkEntryInput{{MissionID: e.missionB.ID, Hours: 8}}},
	} {
		_, err := svc.Create(ctx, r.user, app.ReportInput{Date: r.date, Impression: 3, Entries: r.entries})
		require.NoError(t, err)
	}
}

// countingPort records invalidated tags on top of a real store.
type countingPort struct {
	cache.Port
	mu          sync.Mutex
	invalidated [][]string
}

func (p *countingPort) Invalidate(ctx context.Context, tags ...string) error {
	p.mu.Lock()
	p.invalidated = append(p.invalidated, append([]string(nil), tags...))
	p.mu.Unlock()
	return p.Port.Invalidate(ctx, tags...)
}

func (p *countingPort) invalidations() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.invalidated...)
}

// brokenPort fails every call.
type brokenPort struct{ err error }

func (p brokenPort) Get(context.Context, string) ([]byte, bool, error) { return nil, false, p.err }
func (p brokenPort) Set(context.Context, string, []byte, time.Duration, ...string) error {
	return p.err
}
func (p brokenPort) Invalidate(context.Context, ...string) error { return p.err }

// fakeStats answers every read with canned values after an optional delay.
type fakeStats struct {
	calls    atomic.Int32
	delay    time.Duration
	err      error
	reports  int
	projects int
	hours    float64
	totals   []repository.ProjectTotals
	filters  chan repository.ReportFilter
	barrier  *barrier
}

func (f *fakeStats) wait(ctx context.Context, filter repository.ReportFilter) error {
	f.calls.Add(1)
	if f.filters != nil {
		f.filters <- filter
	}
	if f.barrier != nil {
		if err := f.barrier.await(ctx); err != nil {
			return err
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeStats) CountReports(ctx context.Context, filter repository.ReportFilter) (int, error) {
	return f.reports, f.wait(ctx, filter)
}

func (f *fakeStats) CountDistinctProjects(ctx context.Context, filter repository.ReportFilter) (int, error) {
	return f.projects, f.wait(ctx, filter)
}

func (f *fakeStats) SumHours(ctx context.Context, filter repository.ReportFilter) (float64, error) {
	return f.hours, f.wait(ctx, filter)
}

func (f *fakeStats) ProjectTotals(ctx context.Context, filter repository.ReportFilter, limit, offset int) ([]repository.ProjectTotals, error) {
	return f.totals, f.wait(ctx, filter)
}

// barrier holds every caller until n of them are in flight at once. A
// caller still alone after the timeout gets errNotConcurrent.
type barrier struct {
	n       int32
	timeout time.Duration
	arrived atomic.Int32
	release chan struct{}
}

var errNotConcurrent = errors.New("calls did not overlap")

func newBarrier(n int) *barrier {
	return &barrier{n: int32(n), timeout: 2 * time.Second, release: make(chan struct{})}
}

func (b *barrier) await(ctx context.Context) error {
	if b.arrived.Add(1) == b.n {
		close(b.release)
	}
	select {
	case <-b.release:
		return nil
	case <-time.After(b.timeout):
		return errNotConcurrent
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakeResolver struct {
	calls atomic.Int32
	ids   []string
	err   error
}

func (f *fakeResolver) ResolveIDs(context.Context, []string) ([]string, error) {
	f.calls.Add(1)
	return f.ids, f.err
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}
