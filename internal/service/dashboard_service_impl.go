package service

import (
	"context"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"golang.org/x/sync/errgroup"
)

type dashboardService struct {
	stats    app.ReportStatsUseCase
	summary  app.ProjectSummaryUseCase
	observer UseCaseObserver
}

func NewDashboardService(stats app.ReportStatsUseCase, summary app.ProjectSummaryUseCase, observers ...UseCaseObserver) DashboardService {
	return &dashboardService{
		stats:    stats,
		summary:  summary,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Dashboard computes the aggregate and the project summary for the same
// query concurrently. The first failure cancels the other call.
func (s *dashboardService) Dashboard(ctx context.Context, q app.AggregationQuery) (d *app.Dashboard, err error) {
	defer observe(ctx, s.observer, "dashboard", time.Now(), nil, &err)

	// Both halves must resolve default ranges against the same instant.
	if q.Now == nil {
		now := time.Now()
		q.Now = &now
	}

	var (
		stats   app.AggregationResult
		summary *app.ProjectSummaryPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.stats.Aggregate(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.summary.Summarize(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &app.Dashboard{Stats: stats, Summary: *summary}, nil
}
