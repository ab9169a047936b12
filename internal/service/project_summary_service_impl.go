package service

import (
	"context"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
	"golang.org/x/sync/errgroup"
)

const opSummarize = "summarize projects"

type projectSummaryService struct {
	stats    repository.ReportStatsRepo
	scope    reportScope
	cache    *cache.Registry
	observer UseCaseObserver
}

func NewProjectSummaryService(
	stats repository.ReportStatsRepo,
	users repository.UserResolver,
	registry *cache.Registry,
	storeTimeout time.Duration,
	observers ...UseCaseObserver,
) ProjectSummaryService {
	return &projectSummaryService{
		stats:    stats,
		scope:    reportScope{users: users, timeout: orDefault(storeTimeout)},
		cache:    registry,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Summarize groups matching work entries by project, ordered by total hours
// descending then project id, and returns the (skip, limit) slice together
// with the number of groups before slicing.
func (s *projectSummaryService) Summarize(ctx context.Context, q app.AggregationQuery) (page *app.ProjectSummaryPage, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "project-summary", time.Now(), fields, &err)

	r, err := jst.ResolveRange(q.From, q.To, q.Clock())
	if err != nil {
		return nil, err
	}

	tags := []string{cache.ProjectSummaryTag}
	if q.UserID != "" {
		tags = append(tags, cache.ProjectSummaryUserTag(q.UserID))
	}
	key := cache.Key(cache.ProjectSummaryTag, newScopeKey(q, r))
	page, err = cached(ctx, s.cache, opSummarize, key, tags,
		func(ctx context.Context) (*app.ProjectSummaryPage, error) {
			f, ok, err := s.scope.filter(ctx, opSummarize, q, r)
			if err != nil {
				return nil, err
			}
			if !ok {
				return &app.ProjectSummaryPage{Items: []app.ProjectSummary{}}, nil
			}
			return s.load(ctx, f, max(q.Skip, 0), q.Limit)
		})
	if err != nil {
		return nil, err
	}
	fields["groups"] = page.Total
	return page, nil
}

func (s *projectSummaryService) load(ctx context.Context, f repository.ReportFilter, skip, limit int) (*app.ProjectSummaryPage, error) {
	var (
		total  int
		groups []repository.ProjectTotals
	)
	timeout := s.scope.timeout

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = storeCall(gctx, timeout, opSummarize, func(ctx context.Context) (int, error) {
			return s.stats.CountDistinctProjects(ctx, f)
		})
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = storeCall(gctx, timeout, opSummarize, func(ctx context.Context) ([]repository.ProjectTotals, error) {
			return s.stats.ProjectTotals(ctx, f, limit, skip)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]app.ProjectSummary, 0, len(groups))
	for _, t := range groups {
		items = append(items, toProjectSummary(t))
	}
	return &app.ProjectSummaryPage{Items: items, Total: total}, nil
}

func toProjectSummary(t repository.ProjectTotals) app.ProjectSummary {
	s := app.ProjectSummary{
		ProjectID:          t.ProjectID,
		ProjectName:        t.ProjectName,
		TotalHours:         t.TotalHours,
		WorkDays:           t.WorkDays,
		FirstWorkDate:      app.InstantPtr(t.FirstWorkDate),
		LastWorkDate:       app.InstantPtr(t.LastWorkDate),
		AverageHoursPerDay: averagePerDay(t.TotalHours, t.WorkDays),
	}
	if s.TotalHours < 0 {
		s.TotalHours = 0
	}
	return s
}
