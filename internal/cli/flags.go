package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value that only accepts YYYY-MM-DD calendar dates.
type dateValue struct {
	target *string
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(target *string) *dateValue {
	return &dateValue{target: target}
}

func (d *dateValue) String() string {
	if d.target == nil {
		return ""
	}
	return *d.target
}

func (d *dateValue) Set(s string) error {
	if _, err := jst.ParseDate(s); err != nil {
		return err
	}
	*d.target = strings.TrimSpace(s)
	return nil
}

func (d *dateValue) Type() string { return "date" }

// entrySpec is one "--entry MISSION=HOURS[:CONTENT]" argument before the
// mission reference is resolved.
type entrySpec struct {
	Mission string
	Hours   float64
	Content string
}

// entryList collects repeated --entry flags.
type entryList struct {
	entries *[]entrySpec
}

var _ pflag.Value = (*entryList)(nil)

func newEntryList(target *[]entrySpec) *entryList {
	return &entryList{entries: target}
}

func (l *entryList) String() string {
	if l.entries == nil {
		return ""
	}
	parts := make([]string, len(*l.entries))
	for i, e := range *l.entries {
		parts[i] = fmt.Sprintf("%s=%g", e.Mission, e.Hours)
	}
	return strings.Join(parts, ",")
}

func (l *entryList) Set(s string) error {
	e, err := parseEntry(s)
	if err != nil {
		return err
	}
	*l.entries = append(*l.entries, e)
	return nil
}

func (l *entryList) Type() string { return "entry" }

func parseEntry(s string) (entrySpec, error) {
	mission, rest, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(mission) == "" {
		return entrySpec{}, fmt.Errorf("entry %q: expected MISSION=HOURS[:CONTENT]", s)
	}
	hoursStr, content, _ := strings.Cut(rest, ":")
	hours, err := strconv.ParseFloat(strings.TrimSpace(hoursStr), 64)
	if err != nil {
		return entrySpec{}, fmt.Errorf("entry %q: invalid hours %q", s, hoursStr)
	}
	return entrySpec{
		Mission: strings.TrimSpace(mission),
		Hours:   hours,
		Content: strings.TrimSpace(content),
	}, nil
}
