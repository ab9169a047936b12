package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatHours renders an hour amount with digit grouping and at most two
// decimals, e.g. "1,234.5h". Non-finite values render as "0h".
func FormatHours(h float64) string {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}
	return printer.Sprint(number.Decimal(h, number.MaxFractionDigits(2))) + "h"
}

// FormatCount renders an integer with digit grouping.
func FormatCount(n int) string {
	return printer.Sprint(number.Decimal(n))
}

// LocalDate renders an instant as its JST calendar date.
func LocalDate(t time.Time) string {
	return jst.DateOf(t)
}

// LocalDatePtr is LocalDate for optional instants; nil renders as "--".
func LocalDatePtr(t *time.Time) string {
	if t == nil {
		return "--"
	}
	return LocalDate(*t)
}

// RelativeDay describes the JST day of t relative to the JST day of now.
func RelativeDay(t, now time.Time) string {
	days := int(math.Round(jst.StartOf(t).Sub(jst.StartOf(now)).Hours() / 24))
	switch {
	case days == 0:
		return "Today"
	case days == -1:
		return "Yesterday"
	case days == 1:
		return "Tomorrow"
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("In %dd", days)
	}
}

// TruncID returns the first 8 characters of an id.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
