package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

// formatInstant converts t to the fixed-width UTC text stored in instant columns.
func formatInstant(t time.Time) string {
	return jst.FormatInstant(t)
}

func parseInstant(s string) (time.Time, error) {
	return time.Parse(jst.InstantLayout, s)
}

// parseNullableInstant parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableInstant(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := parseInstant(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableInstant converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableInstant(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatInstant(*t)
}

func nullableString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current time truncated to the stored precision.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// where renders f as a WHERE clause over the daily_reports alias r.
func (f ReportFilter) where() (string, []any) {
	var conds []string
	var args []any
	if !f.From.IsZero() {
		conds = append(conds, "r.report_date >= ?")
		args = append(args, formatInstant(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "r.report_date <= ?")
		args = append(args, formatInstant(f.To))
	}
	if f.UserID != "" {
		conds = append(conds, "r.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.UserIDs != nil {
		if len(f.UserIDs) == 0 {
			conds = append(conds, "0 = 1")
		} else {
			conds = append(conds, fmt.Sprintf("r.user_id IN (%s)", placeholders(len(f.UserIDs))))
			for _, id := range f.UserIDs {
				args = append(args, id)
			}
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
