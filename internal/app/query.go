package app

import (
	"strings"
	"time"
)

// AggregationQuery selects the reports an aggregation runs over. From and To
// are optional local dates (YYYY-MM-DD); both empty means the trailing month
// through today.
type AggregationQuery struct {
	From      string
	To        string
	UserID    string
	UserNames []string
	Skip      int
	Limit     int

	// Now overrides the clock used to resolve default ranges.
	Now *time.Time
}

// NameFragments returns UserNames without blank entries.
func (q AggregationQuery) NameFragments() []string {
	var out []string
	for _, n := range q.UserNames {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}

// HasNameFilter reports whether user-name resolution applies.
func (q AggregationQuery) HasNameFilter() bool {
	return len(q.NameFragments()) > 0
}

// Clock returns Now or the current time.
func (q AggregationQuery) Clock() time.Time {
	if q.Now != nil {
		return *q.Now
	}
	return time.Now()
}

// ReportListQuery pages through daily reports for one local day or one user.
type ReportListQuery struct {
	Date    string
	UserID  string
	Page    int
	PerPage int
}
