// Package cli implements the suama command line: catalog and report
// management, aggregation views and the HTTP server entrypoint.
package cli

import (
	"context"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and hooks CLI commands run against.
type App struct {
	Stats   app.ReportStatsUseCase
	Summary app.ProjectSummaryUseCase
	Reports service.ReportService
	Catalog service.CatalogService
	Plans   service.WeeklyPlanService
	Import  service.ImportService

	// Serve runs the HTTP API until ctx is canceled.
	Serve func(ctx context.Context) error

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	Now     func() time.Time
	PerPage int
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) perPage() int {
	if a.PerPage <= 0 {
		return service.DefaultPerPage
	}
	return a.PerPage
}

// NewRootCmd creates the top-level "suama" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "suama",
		Short:         "Daily work reports, weekly plans and project summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newUserCmd(app),
		newCategoryCmd(app),
		newProjectCmd(app),
		newMissionCmd(app),
		newImportCmd(app),
		newReportCmd(app),
		newStatsCmd(app),
		newSummaryCmd(app),
		newWeeksCmd(app),
		newPlanCmd(app),
	)

	return root
}
