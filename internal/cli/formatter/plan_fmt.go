package formatter

import (
	"fmt"
	"strings"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/app"
)

// weeklyTarget is the planned hours a full week is colored against.
const weeklyTarget = 40.0

// FormatPlan renders a weekly plan and its entries.
func FormatPlan(p app.WeeklyPlanView, missionNames map[string]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s → %s\n", Bold(fmt.Sprintf("%d-W%02d", p.ISOYear, p.ISOWeek)), p.StartDate, p.EndDate))
	b.WriteString(fmt.Sprintf("%s %s\n\n", Dim("planned"), LoadStyle(p.PlannedHours, weeklyTarget).Render(FormatHours(p.PlannedHours))))

	if len(p.Entries) == 0 {
		b.WriteString(Dim("No entries."))
		return RenderBox("Weekly plan", b.String())
	}
	rows := make([][]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		name := missionNames[e.MissionID]
		if name == "" {
			name = TruncID(e.MissionID)
		}
		rows = append(rows, []string{name, FormatHours(e.Hours), e.Content})
	}
	b.WriteString(strings.TrimRight(RenderTable([]string{"MISSION", "HOURS", "CONTENT"}, rows), "\n"))
	return RenderBox("Weekly plan", b.String())
}
