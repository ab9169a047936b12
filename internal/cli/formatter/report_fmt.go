package formatter

import (
	"fmt"
	"strings"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
)

// dailyTarget is the workday length hours are colored against.
const dailyTarget = 8.0

// FormatReportList renders one page of daily reports.
func FormatReportList(page app.ReportPage, userNames map[string]string) string {
	if len(page.Items) == 0 {
		return Dim("No reports.") + "\n"
	}
	headers := []string{"ID", "DATE", "USER", "HOURS", "ENTRIES", "REMOTE"}
	rows := make([][]string, 0, len(page.Items))
	for _, r := range page.Items {
		name := userNames[r.UserID]
		if name == "" {
			name = TruncID(r.UserID)
		}
		remote := ""
		if r.Remote {
			remote = "yes"
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			LocalDate(r.ReportDate.Time()),
			name,
			LoadStyle(r.TotalHours, dailyTarget).Render(FormatHours(r.TotalHours)),
			FormatCount(len(r.Entries)),
			remote,
		})
	}
	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	if footer := PageFooter(page.PageInfo); footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatReport renders a single report with its entries.
func FormatReport(r app.ReportView, missionNames map[string]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s\n", Bold("Report"), TruncID(r.ID), LocalDate(r.ReportDate.Time())))
	b.WriteString(fmt.Sprintf("%s %s   %s %d/5\n\n", Dim("total"), FormatHours(r.TotalHours), Dim("impression"), r.Impression))

	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		name := missionNames[e.MissionID]
		if name == "" {
			name = TruncID(e.MissionID)
		}
		rows = append(rows, []string{name, FormatHours(e.Hours), e.Content})
	}
	b.WriteString(RenderTable([]string{"MISSION", "HOURS", "CONTENT"}, rows))
	return b.String()
}
