package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	MinImpression = 0
	MaxImpression = 5
)

// DailyReport is one user's report for one local calendar day. ReportDate
// holds the JST start-of-day instant of that day.
type DailyReport struct {
	ID         string
	UserID     string
	ReportDate time.Time
	Remote     bool
	Impression int
	Entries    []WorkEntry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type WorkEntry struct {
	ID        string
	ReportID  string
	MissionID string
	Hours     float64
	Content   string
	Position  int
}

func (r *DailyReport) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: report owner is required", ErrValidation)
	}
	if r.ReportDate.IsZero() {
		return fmt.Errorf("%w: report date is required", ErrValidation)
	}
	if r.Impression < MinImpression || r.Impression > MaxImpression {
		return fmt.Errorf("%w: impression must be between %d and %d, got %d", ErrValidation, MinImpression, MaxImpression, r.Impression)
	}
	if len(r.Entries) == 0 {
		return fmt.Errorf("%w: a report needs at least one work entry", ErrValidation)
	}
	for i := range r.Entries {
		if err := r.Entries[i].Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return nil
}

// TotalHours sums the hours of all entries.
func (r *DailyReport) TotalHours() float64 {
	var total float64
	for _, e := range r.Entries {
		total += e.Hours
	}
	return total
}

// OwnedBy reports whether userID may mutate the report.
func (r *DailyReport) OwnedBy(userID string) bool {
	return userID != "" && r.UserID == userID
}

func (e *WorkEntry) Validate() error {
	if e.MissionID == "" {
		return fmt.Errorf("%w: mission is required", ErrValidation)
	}
	return validateHours(e.Hours)
}

func validateHours(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return fmt.Errorf("%w: hours must be a positive number, got %v", ErrValidation, h)
	}
	if h > 24 {
		return fmt.Errorf("%w: hours cannot exceed 24, got %v", ErrValidation, h)
	}
	return nil
}
