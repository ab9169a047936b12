package formatter

import (
	"strings"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
)

// FormatSummaryTable renders one page of per-project totals.
func FormatSummaryTable(items []app.ProjectSummary) string {
	if len(items) == 0 {
		return Dim("No work recorded in this range.") + "\n"
	}
	headers := []string{"PROJECT", "HOURS", "DAYS", "AVG/DAY", "FIRST", "LAST"}
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			s.ProjectName,
			FormatHours(s.TotalHours),
			FormatCount(s.WorkDays),
			FormatHours(s.AverageHoursPerDay),
			instantDate(s.FirstWorkDate),
			instantDate(s.LastWorkDate),
		})
	}
	return RenderTable(headers, rows)
}

// FormatSummary renders a summary page with its pager footer.
func FormatSummary(page app.ProjectSummaryPage, info app.PageInfo) string {
	var b strings.Builder
	b.WriteString(Header("Project summary"))
	b.WriteString("\n")
	b.WriteString(FormatSummaryTable(page.Items))
	if footer := PageFooter(info); footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
		b.WriteString("\n")
	}
	return b.String()
}

func instantDate(i *app.Instant) string {
	if i == nil {
		return "--"
	}
	t := time.Time(*i)
	return LocalDate(t)
}
