package app

import (
	"context"
)

type ReportStatsUseCase interface {
	Aggregate(ctx context.Context, q AggregationQuery) (AggregationResult, error)
}

type ProjectSummaryUseCase interface {
	Summarize(ctx context.Context, q AggregationQuery) (*ProjectSummaryPage, error)
}

type DashboardUseCase interface {
	Dashboard(ctx context.Context, q AggregationQuery) (*Dashboard, error)
}

type ReportListUseCase interface {
	ListReports(ctx context.Context, q ReportListQuery) (*ReportPage, error)
}
