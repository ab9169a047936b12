package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// ReportFilter is the predicate shared by every report read. Zero times leave
// that side of the range open. A nil UserIDs means any user; a non-nil empty
// slice matches nothing.
type ReportFilter struct {
	From    time.Time
	To      time.Time
	UserID  string
	UserIDs []string
}

// ProjectTotals is one group of the per-project summary.
type ProjectTotals struct {
	ProjectID     string
	ProjectName   string
	TotalHours    float64
	WorkDays      int
	FirstWorkDate *time.Time
	LastWorkDate  *time.Time
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// UserResolver maps display-name fragments to user ids. Matching is a
// case-sensitive substring test, ORed across fragments.
type UserResolver interface {
	ResolveIDs(ctx context.Context, fragments []string) ([]string, error)
}

type CategoryRepo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type MissionRepo interface {
	Create(ctx context.Context, m *domain.Mission) error
	GetByID(ctx context.Context, id string) (*domain.Mission, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Mission, error)
	Delete(ctx context.Context, id string) error
}

// ReportRepo persists daily reports together with their ordered entries.
// Create and Update issue several statements and belong inside a transaction.
type ReportRepo interface {
	Create(ctx context.Context, r *domain.DailyReport) error
	GetByID(ctx context.Context, id string) (*domain.DailyReport, error)
	List(ctx context.Context, f ReportFilter, limit, offset int) ([]*domain.DailyReport, error)
	Update(ctx context.Context, r *domain.DailyReport) error
	Delete(ctx context.Context, id string) error
}

// ReportStatsRepo provides the aggregation primitives over reports and their
// entries. Every method applies the same ReportFilter.
type ReportStatsRepo interface {
	CountReports(ctx context.Context, f ReportFilter) (int, error)
	CountDistinctProjects(ctx context.Context, f ReportFilter) (int, error)
	SumHours(ctx context.Context, f ReportFilter) (float64, error)
	ProjectTotals(ctx context.Context, f ReportFilter, limit, offset int) ([]ProjectTotals, error)
}

type WeeklyPlanRepo interface {
	Save(ctx context.Context, p *domain.WeeklyPlan) error
	GetByWeek(ctx context.Context, userID string, isoYear, isoWeek int) (*domain.WeeklyPlan, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.WeeklyPlan, error)
	Delete(ctx context.Context, id string) error
}
