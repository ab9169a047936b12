package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/calendar"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

// WeekLabel renders a week as "W24  06/10 - 06/16".
func WeekLabel(w calendar.Week) string {
	return fmt.Sprintf("W%02d  %s - %s", w.Number, w.Start.Format("01/02"), w.End.Format("01/02"))
}

// FormatMonths renders the week picker months, marking the week holding today.
func FormatMonths(months []calendar.Month, today time.Time) string {
	var b strings.Builder
	for i, m := range months {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleHeader.Render(fmt.Sprintf("%d %s", m.Year, m.Month)))
		b.WriteString("\n")
		for _, w := range m.Weeks {
			label := WeekLabel(w)
			if w.ISOYear != m.Year {
				label += Dim(fmt.Sprintf(" (%d)", w.ISOYear))
			}
			if w.Contains(today) {
				b.WriteString("  " + StyleGreen.Render("▸ "+label) + "\n")
				continue
			}
			b.WriteString("    " + label + "\n")
		}
	}
	return b.String()
}

// TodayLine renders today's JST date.
func TodayLine(now time.Time) string {
	return Dim("today ") + jst.DateOf(now)
}
