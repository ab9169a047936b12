package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/api"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cli"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/config"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/logging"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/metrics"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Resolve(os.Getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logger.Close()
	slogger := logger.Slog()

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	categoryRepo := repository.NewSQLiteCategoryRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	missionRepo := repository.NewSQLiteMissionRepo(database)
	reportRepo := repository.NewSQLiteReportRepo(database)
	statsRepo := repository.NewSQLiteReportStatsRepo(database)
	planRepo := repository.NewSQLiteWeeklyPlanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	// Cache. The store is private to this process: writes made by another
	// suama process reach it only through TTL expiry.
	var registry *cache.Registry
	if cfg.Cache.Enabled {
		store := cache.NewMemoryStore()
		sweeper, err := cache.StartSweeper(store, cfg.Cache.SweepSchedule, slogger, m)
		if err != nil {
			return err
		}
		defer sweeper.Stop()
		registry = cache.NewRegistry(store, cfg.Cache.TTL.Std(),
			cache.WithLogger(slogger),
			cache.WithRecorder(m),
		)
	}

	// Services
	observer := service.NewMultiUseCaseObserver(
		service.NewLogUseCaseObserver(slogger),
		service.NewMetricsUseCaseObserver(m),
	)
	timeout := cfg.Store.Timeout.Std()
	statsSvc := service.NewReportStatsService(statsRepo, userRepo, registry, timeout, observer)
	summarySvc := service.NewProjectSummaryService(statsRepo, userRepo, registry, timeout, observer)
	reportSvc := service.NewReportService(reportRepo, statsRepo, uow, registry, timeout, cfg.Paging.PerPage, observer)
	planSvc := service.NewWeeklyPlanService(planRepo, uow, registry, observer)

	app := &cli.App{
		Stats:   statsSvc,
		Summary: summarySvc,
		Reports: reportSvc,
		Catalog: service.NewCatalogService(userRepo, categoryRepo, projectRepo, missionRepo, registry),
		Plans:   planSvc,
		Import:  service.NewImportService(uow, registry, observer),
		PerPage: cfg.Paging.PerPage,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		router := api.NewRouter(api.Deps{
			Stats:     statsSvc,
			Summary:   summarySvc,
			Dashboard: service.NewDashboardService(statsSvc, summarySvc, observer),
			Reports:   reportSvc,
			Plans:     planSvc,
			Logger:    slogger,
			Metrics:   m,
			Gatherer:  promRegistry,
			PerPage:   cfg.Paging.PerPage,
		})
		ln, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
		}
		return api.Serve(ctx, ln, router, api.ServerOptions{
			ReadTimeout:     cfg.Server.ReadTimeout.Std(),
			WriteTimeout:    cfg.Server.WriteTimeout.Std(),
			ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
		}, slogger)
	}

	slog.SetDefault(slogger)
	return cli.NewRootCmd(app).Execute()
}
