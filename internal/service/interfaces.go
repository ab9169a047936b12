package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/importer"
)

// ErrNotOwner is returned when a user mutates a report they do not own.
var ErrNotOwner = errors.New("report belongs to another user")

type ReportStatsService interface {
	app.ReportStatsUseCase
}

type ProjectSummaryService interface {
	app.ProjectSummaryUseCase
}

type DashboardService interface {
	app.DashboardUseCase
}

type ReportService interface {
	app.ReportListUseCase
	Create(ctx context.Context, userID string, in app.ReportInput) (*domain.DailyReport, error)
	GetByID(ctx context.Context, id string) (*domain.DailyReport, error)
	Update(ctx context.Context, userID, id string, in app.ReportInput) (*domain.DailyReport, error)
	Delete(ctx context.Context, userID, id string) error
}

type CatalogService interface {
	CreateUser(ctx context.Context, u *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error

	CreateCategory(ctx context.Context, c *domain.Category) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	CreateProject(ctx context.Context, p *domain.Project) error
	ListProjects(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	ArchiveProject(ctx context.Context, id string) error
	DeleteProject(ctx context.Context, id string) error

	CreateMission(ctx context.Context, m *domain.Mission) error
	ListMissions(ctx context.Context, projectID string) ([]*domain.Mission, error)
	DeleteMission(ctx context.Context, id string) error
}

type WeeklyPlanService interface {
	Get(ctx context.Context, userID string, isoYear, isoWeek int) (*domain.WeeklyPlan, error)
	Save(ctx context.Context, userID string, in app.PlanInput) (*domain.WeeklyPlan, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.WeeklyPlan, error)
	Delete(ctx context.Context, userID string, isoYear, isoWeek int) error
	Calendar(now time.Time) app.CalendarView
}

// ImportResult counts what one catalog import stored.
type ImportResult struct {
	Users      int
	Categories int
	Projects   int
	Missions   int
}

func (r ImportResult) String() string {
	return fmt.Sprintf("%d users, %d categories, %d projects, %d missions", r.Users, r.Categories, r.Projects, r.Missions)
}

type ImportService interface {
	ImportCatalog(ctx context.Context, filePath string) (*ImportResult, error)
	ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*ImportResult, error)
}
