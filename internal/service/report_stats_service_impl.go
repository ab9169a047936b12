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

const opAggregate = "aggregate reports"

type reportStatsService struct {
	stats    repository.ReportStatsRepo
	scope    reportScope
	cache    *cache.Registry
	observer UseCaseObserver
}

// NewReportStatsService builds the report aggregator. A nil registry
// disables caching; a non-positive timeout selects DefaultStoreTimeout.
func NewReportStatsService(
	stats repository.ReportStatsRepo,
	users repository.UserResolver,
	registry *cache.Registry,
	storeTimeout time.Duration,
	observers ...UseCaseObserver,
) ReportStatsService {
	return &reportStatsService{
		stats:    stats,
		scope:    reportScope{users: users, timeout: orDefault(storeTimeout)},
		cache:    registry,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *reportStatsService) Aggregate(ctx context.Context, q app.AggregationQuery) (res app.AggregationResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "aggregate", time.Now(), fields, &err)

	r, err := jst.ResolveRange(q.From, q.To, q.Clock())
	if err != nil {
		return app.AggregationResult{}, err
	}
	fields["from"] = jst.DateOf(r.From)
	fields["to"] = jst.DateOf(r.To)

	key := cache.Key(cache.ReportStatsTag, newScopeKey(q, r))
	res, err = cached(ctx, s.cache, opAggregate, key, []string{cache.ReportStatsTag},
		func(ctx context.Context) (app.AggregationResult, error) {
			f, ok, err := s.scope.filter(ctx, opAggregate, q, r)
			if err != nil || !ok {
				return app.AggregationResult{}, err
			}
			return s.load(ctx, f)
		})
	if err != nil {
		return app.AggregationResult{}, err
	}
	fields["report_count"] = res.ReportCount
	return res, nil
}

// load issues the three reads concurrently; they share one filter and are
// independent of each other.
func (s *reportStatsService) load(ctx context.Context, f repository.ReportFilter) (app.AggregationResult, error) {
	var res app.AggregationResult
	timeout := s.scope.timeout

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := storeCall(gctx, timeout, opAggregate, func(ctx context.Context) (int, error) {
			return s.stats.CountReports(ctx, f)
		})
		res.ReportCount = n
		return err
	})
	g.Go(func() error {
		n, err := storeCall(gctx, timeout, opAggregate, func(ctx context.Context) (int, error) {
			return s.stats.CountDistinctProjects(ctx, f)
		})
		res.DistinctProjectCount = n
		return err
	})
	g.Go(func() error {
		h, err := storeCall(gctx, timeout, opAggregate, func(ctx context.Context) (float64, error) {
			return s.stats.SumHours(ctx, f)
		})
		res.TotalHours = h
		return err
	})
	if err := g.Wait(); err != nil {
		return app.AggregationResult{}, err
	}
	return res, nil
}
