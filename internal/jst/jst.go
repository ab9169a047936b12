// Package jst converts local calendar dates into absolute instants for the
// fixed UTC+9 zone every report is recorded in.
package jst

import (
	"fmt"
	"strings"
	"time"
)

// Location is UTC+9 with no daylight-saving transitions.
var Location = time.FixedZone("JST", 9*60*60)

// DateLayout is the only accepted local-date input format.
const DateLayout = "2006-01-02"

// InstantLayout renders instants as UTC with millisecond precision.
const InstantLayout = "2006-01-02T15:04:05.000Z07:00"

// dayLength is the span from the start boundary to the end boundary of one local day.
const dayLength = 24*time.Hour - time.Millisecond

// Edge selects which boundary of a local day Convert returns.
type Edge int

const (
	Start Edge = iota
	End
)

func (e Edge) String() string {
	if e == End {
		return "end"
	}
	return "start"
}

// InvalidDateError reports a local date that could not be parsed.
type InvalidDateError struct {
	Input string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Input)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// Range is a closed interval of absolute instants.
type Range struct {
	From time.Time
	To   time.Time
}

// ParseDate parses a YYYY-MM-DD local date as JST midnight.
func ParseDate(localDate string) (time.Time, error) {
	s := strings.TrimSpace(localDate)
	t, err := time.ParseInLocation(DateLayout, s, Location)
	if err != nil {
		return time.Time{}, &InvalidDateError{Input: localDate, Err: err}
	}
	return t, nil
}

// Convert returns the start (00:00:00.000) or end (23:59:59.999) instant of
// the given local date, expressed in UTC.
func Convert(localDate string, edge Edge) (time.Time, error) {
	day, err := ParseDate(localDate)
	if err != nil {
		return time.Time{}, err
	}
	if edge == End {
		return EndOf(day), nil
	}
	return StartOf(day), nil
}

// StartOf returns the start boundary of the local day containing t.
func StartOf(t time.Time) time.Time {
	local := t.In(Location)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Location).UTC()
}

// EndOf returns the end boundary of the local day containing t.
func EndOf(t time.Time) time.Time {
	return StartOf(t).Add(dayLength)
}

// DateOf formats the local date containing t.
func DateOf(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// FormatInstant renders t the way instants are exposed to API consumers.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// Today spans the local day containing now.
func Today(now time.Time) Range {
	return Range{From: StartOf(now), To: EndOf(now)}
}

// TrailingMonth spans from the same day-of-month one calendar month before
// now through the end of today. When the previous month is shorter, the
// start clamps to its last day (Mar 31 -> Feb 28/29).
func TrailingMonth(now time.Time) Range {
	return Range{From: StartOf(monthBefore(now)), To: EndOf(now)}
}

func monthBefore(t time.Time) time.Time {
	local := t.In(Location)
	y, m, d := local.Date()
	firstOfPrev := time.Date(y, m-1, 1, 0, 0, 0, 0, Location)
	lastDay := firstOfPrev.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfPrev.Year(), firstOfPrev.Month(), d, 0, 0, 0, 0, Location)
}

// ResolveRange turns optional from/to local dates into an instant range.
// Both empty yields TrailingMonth(now). A missing from starts one month
// before the resolved end day; a missing to ends today.
func ResolveRange(from, to string, now time.Time) (Range, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return TrailingMonth(now), nil
	}

	end := EndOf(now)
	if to != "" {
		t, err := Convert(to, End)
		if err != nil {
			return Range{}, err
		}
		end = t
	}

	start := StartOf(monthBefore(end))
	if from != "" {
		t, err := Convert(from, Start)
		if err != nil {
			return Range{}, err
		}
		start = t
	}

	if start.After(end) {
		return Range{}, &InvalidDateError{Input: from, Err: fmt.Errorf("from %s is after to %s", from, to)}
	}
	return Range{From: start, To: end}, nil
}
