package formatter

import (
	"fmt"
	"strings"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

// FormatStats renders the three report counters for the given range.
func FormatStats(res app.AggregationResult, r jst.Range) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("%s → %s", jst.DateOf(r.From), jst.DateOf(r.To))))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", RightAlign(Bold(FormatCount(res.ReportCount)), 10), "reports"))
	b.WriteString(fmt.Sprintf("%s  %s\n", RightAlign(Bold(FormatCount(res.DistinctProjectCount)), 10), "projects"))
	b.WriteString(fmt.Sprintf("%s  %s", RightAlign(Bold(FormatHours(res.TotalHours)), 10), "worked"))
	return RenderBox("Report stats", b.String())
}
