package api

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
)

// maxPerPage caps client-chosen page sizes.
const maxPerPage = 100

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, raw)
	}
	return n, nil
}

type pagination struct {
	Page    int
	PerPage int
}

func (h *handlers) pagination(c *gin.Context) (pagination, error) {
	page, err := intQuery(c, "page", 0)
	if err != nil {
		return pagination{}, err
	}
	perPage, err := intQuery(c, "per_page", h.PerPage)
	if err != nil {
		return pagination{}, err
	}
	if perPage == 0 || perPage > maxPerPage {
		return pagination{}, fmt.Errorf("per_page must be between 1 and %d", maxPerPage)
	}
	if page > math.MaxInt/perPage {
		return pagination{}, fmt.Errorf("page %d is out of range", page)
	}
	return pagination{Page: page, PerPage: perPage}, nil
}

// aggregationQuery reads from, to, user_id and repeated user_name.
func (h *handlers) aggregationQuery(c *gin.Context) app.AggregationQuery {
	now := h.Now()
	return app.AggregationQuery{
		From:      c.Query("from"),
		To:        c.Query("to"),
		UserID:    c.Query("user_id"),
		UserNames: c.QueryArray("user_name"),
		Now:       &now,
	}
}
