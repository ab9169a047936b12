package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

// actingUser returns the X-User-ID header or aborts with 401.
func actingUser(c *gin.Context) (string, bool) {
	id := c.GetHeader(UserHeader)
	if id == "" {
		abort(c, http.StatusUnauthorized, CodeMissingUser, UserHeader+" header is required")
		return "", false
	}
	return id, true
}

func (h *handlers) listReports(c *gin.Context, q app.ReportListQuery) {
	pg, err := h.pagination(c)
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	q.Page, q.PerPage = pg.Page, pg.PerPage

	page, err := h.Reports.ListReports(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/v1/reports/daily?date=YYYY-MM-DD; date defaults to today.
func (h *handlers) dailyReports(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = jst.DateOf(h.Now())
	}
	h.listReports(c, app.ReportListQuery{Date: date, UserID: c.Query("user_id")})
}

// GET /api/v1/users/:id/reports
func (h *handlers) userReports(c *gin.Context) {
	h.listReports(c, app.ReportListQuery{UserID: c.Param("id"), Date: c.Query("date")})
}

// GET /api/v1/reports/:id
func (h *handlers) getReport(c *gin.Context) {
	rep, err := h.Reports.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.NewReportView(rep))
}

// POST /api/v1/reports
func (h *handlers) createReport(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	var in app.ReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	rep, err := h.Reports.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/api/v1/reports/"+rep.ID)
	c.JSON(http.StatusCreated, app.NewReportView(rep))
}

// PUT /api/v1/reports/:id
func (h *handlers) updateReport(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	var in app.ReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	rep, err := h.Reports.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.NewReportView(rep))
}

// DELETE /api/v1/reports/:id
func (h *handlers) deleteReport(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	if err := h.Reports.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func weekParams(c *gin.Context) (year, week int, ok bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "year must be an integer")
		return 0, 0, false
	}
	week, err = strconv.Atoi(c.Param("week"))
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, "week must be an integer")
		return 0, 0, false
	}
	return year, week, true
}

// GET /api/v1/users/:id/weekly-plans/:year/:week
func (h *handlers) getPlan(c *gin.Context) {
	year, week, ok := weekParams(c)
	if !ok {
		return
	}
	plan, err := h.Plans.Get(c.Request.Context(), c.Param("id"), year, week)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.NewWeeklyPlanView(plan))
}

type planRequest struct {
	Entries []app.PlanEntryInput `json:"entries"`
}

// PUT /api/v1/users/:id/weekly-plans/:year/:week; only the user may write
// their own plan.
func (h *handlers) putPlan(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	if userID != c.Param("id") {
		abort(c, http.StatusForbidden, CodeForbidden, "plans can only be written by their owner")
		return
	}
	year, week, ok := weekParams(c)
	if !ok {
		return
	}
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	plan, err := h.Plans.Save(c.Request.Context(), userID, app.PlanInput{ISOYear: year, ISOWeek: week, Entries: req.Entries})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.NewWeeklyPlanView(plan))
}
