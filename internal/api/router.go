// Package api serves the reporting engine over HTTP JSON.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/logging"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/metrics"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/service"
)

// UserHeader carries the id of the acting user on mutating requests.
const UserHeader = "X-User-ID"

// Deps are the use cases and ambient collaborators the router serves.
type Deps struct {
	Stats     app.ReportStatsUseCase
	Summary   app.ProjectSummaryUseCase
	Dashboard app.DashboardUseCase
	Reports   service.ReportService
	Plans     service.WeeklyPlanService

	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	PerPage  int
	Now      func() time.Time
}

type handlers struct {
	Deps
}

// NewRouter builds the gin engine with logging, metrics and recovery
// middleware installed.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.PerPage <= 0 {
		d.PerPage = service.DefaultPerPage
	}
	h := &handlers{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(d.Logger))
	r.Use(Instrument(d.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/stats", h.stats)
	v1.GET("/stats/today", h.statsToday)
	v1.GET("/projects/summary", h.projectSummary)
	v1.GET("/dashboard", h.dashboard)
	v1.GET("/calendar/months", h.calendarMonths)

	v1.GET("/reports/daily", h.dailyReports)
	v1.GET("/reports/:id", h.getReport)
	v1.POST("/reports", h.createReport)
	v1.PUT("/reports/:id", h.updateReport)
	v1.DELETE("/reports/:id", h.deleteReport)

	v1.GET("/users/:id/reports", h.userReports)
	v1.GET("/users/:id/weekly-plans/:year/:week", h.getPlan)
	v1.PUT("/users/:id/weekly-plans/:year/:week", h.putPlan)
	return r
}
