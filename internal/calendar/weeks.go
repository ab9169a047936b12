// Package calendar enumerates the ISO weeks of the current year for the
// weekly-plan week picker and groups them into display months.
package calendar

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

const daysPerWeek = 7

// Week is one Monday-to-Sunday span. Start and End are JST midnights.
type Week struct {
	Number  int
	ISOYear int
	Start   time.Time
	End     time.Time
}

type weekJSON struct {
	Number    int    `json:"weekNumber"`
	ISOYear   int    `json:"isoYear"`
	Start     string `json:"start"`
	End       string `json:"end"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// MarshalJSON writes start and end as UTC instants with millisecond
// precision, alongside their local dates.
func (w Week) MarshalJSON() ([]byte, error) {
	return json.Marshal(weekJSON{
		Number:    w.Number,
		ISOYear:   w.ISOYear,
		Start:     jst.FormatInstant(w.Start),
		End:       jst.FormatInstant(w.End),
		StartDate: jst.DateOf(w.Start),
		EndDate:   jst.DateOf(w.End),
	})
}

// Contains reports whether t falls on one of the week's local days.
func (w Week) Contains(t time.Time) bool {
	day := dayOf(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Month groups the weeks whose start day falls in one calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks []Week     `json:"weeks"`
}

// dayOf truncates t to midnight of its JST calendar day.
func dayOf(t time.Time) time.Time {
	local := t.In(jst.Location)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, jst.Location)
}

// MondayOnOrBefore returns the Monday that starts the week containing t.
func MondayOnOrBefore(t time.Time) time.Time {
	day := dayOf(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NewWeek returns the week starting on the given Monday.
func NewWeek(monday time.Time) Week {
	start := dayOf(monday)
	isoYear, isoWeek := start.ISOWeek()
	return Week{
		Number:  isoWeek,
		ISOYear: isoYear,
		Start:   start,
		End:     start.AddDate(0, 0, daysPerWeek-1),
	}
}

// WeekOf returns the ISO week (year, number) as a Week value.
func WeekOf(isoYear, isoWeek int) Week {
	// Jan 4 is always in ISO week 1.
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, jst.Location)
	return NewWeek(MondayOnOrBefore(jan4).AddDate(0, 0, (isoWeek-1)*daysPerWeek))
}

// TotalWeeks is the index of the last week Weeks generates. For ordinary
// days it is today's ISO week number. Around the year boundary the ISO year
// can differ from the calendar year; then the count is derived from the
// Monday offsets so no ISO week is generated twice.
func TotalWeeks(today time.Time) int {
	day := dayOf(today)
	isoYear, isoWeek := day.ISOWeek()
	switch {
	case isoYear == day.Year():
		return isoWeek
	case isoYear < day.Year():
		// Jan 1-3 still belonging to last year's final week.
		return 0
	default:
		// Dec 29-31 already belonging to next year's week 1.
		_, lastWeek := MondayOnOrBefore(day).AddDate(0, 0, -1).ISOWeek()
		return lastWeek
	}
}

// Weeks enumerates weeks 0..TotalWeeks(today) starting from the Monday on or
// before January 1 of today's year.
func Weeks(today time.Time) []Week {
	day := dayOf(today)
	first := MondayOnOrBefore(time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, jst.Location))
	total := TotalWeeks(day)

	weeks := make([]Week, 0, total+1)
	for i := 0; i <= total; i++ {
		weeks = append(weeks, NewWeek(first.AddDate(0, 0, i*daysPerWeek)))
	}
	return weeks
}

// Months groups Weeks(today) by the calendar month of each week's start
// day. Months of today's year come first, most recent month first, and a
// December anchored in the previous year comes last.
func Months(today time.Time) []Month {
	return GroupByMonth(Weeks(today), dayOf(today).Year())
}

// GroupByMonth buckets weeks by the month of their start day and orders the
// buckets for display relative to targetYear.
func GroupByMonth(weeks []Week, targetYear int) []Month {
	type key struct {
		year  int
		month time.Month
	}
	index := make(map[key]int)
	var months []Month
	for _, w := range weeks {
		k := key{w.Start.Year(), w.Start.Month()}
		i, ok := index[k]
		if !ok {
			i = len(months)
			index[k] = i
			months = append(months, Month{Year: k.year, Month: k.month})
		}
		months[i].Weeks = append(months[i].Weeks, w)
	}

	sort.SliceStable(months, func(i, j int) bool {
		pi, pj := months[i].Year < targetYear, months[j].Year < targetYear
		if pi != pj {
			return pj
		}
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
	return months
}
