package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

// GET /api/v1/stats
func (h *handlers) stats(c *gin.Context) {
	res, err := h.Stats.Aggregate(c.Request.Context(), h.aggregationQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/v1/stats/today
func (h *handlers) statsToday(c *gin.Context) {
	q := h.aggregationQuery(c)
	today := jst.DateOf(*q.Now)
	q.From, q.To = today, today

	res, err := h.Stats.Aggregate(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type summaryResponse struct {
	Items []app.ProjectSummary `json:"items"`
	Total int                  `json:"total"`
	app.PageInfo
}

func newSummaryResponse(p *app.ProjectSummaryPage, pg pagination) summaryResponse {
	return summaryResponse{
		Items:    p.Items,
		Total:    p.Total,
		PageInfo: app.NewPageInfo(pg.Page, pg.PerPage, p.Total),
	}
}

// summaryQuery is the aggregation query limited to one page of groups.
func (h *handlers) summaryQuery(c *gin.Context) (app.AggregationQuery, pagination, bool) {
	pg, err := h.pagination(c)
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return app.AggregationQuery{}, pg, false
	}
	q := h.aggregationQuery(c)
	q.Skip = pg.Page * pg.PerPage
	q.Limit = pg.PerPage
	return q, pg, true
}

// GET /api/v1/projects/summary
func (h *handlers) projectSummary(c *gin.Context) {
	q, pg, ok := h.summaryQuery(c)
	if !ok {
		return
	}
	page, err := h.Summary.Summarize(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSummaryResponse(page, pg))
}

type dashboardResponse struct {
	Stats   app.AggregationResult `json:"stats"`
	Summary summaryResponse       `json:"summary"`
}

// GET /api/v1/dashboard
func (h *handlers) dashboard(c *gin.Context) {
	q, pg, ok := h.summaryQuery(c)
	if !ok {
		return
	}
	d, err := h.Dashboard.Dashboard(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		Stats:   d.Stats,
		Summary: newSummaryResponse(&d.Summary, pg),
	})
}

// GET /api/v1/calendar/months
func (h *handlers) calendarMonths(c *gin.Context) {
	c.JSON(http.StatusOK, h.Plans.Calendar(h.Now()))
}
