package domain

import (
	"fmt"
	"time"
)

// WeeklyPlan is a user's planned work for one ISO week.
type WeeklyPlan struct {
	ID        string
	UserID    string
	ISOYear   int
	ISOWeek   int
	StartDate time.Time
	EndDate   time.Time
	Entries   []WeeklyPlanEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WeeklyPlanEntry struct {
	ID        string
	PlanID    string
	MissionID string
	Hours     float64
	Content   string
	Position  int
}

func (p *WeeklyPlan) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: plan owner is required", ErrValidation)
	}
	if p.ISOWeek < 1 || p.ISOWeek > 53 {
		return fmt.Errorf("%w: week %d is out of range", ErrValidation, p.ISOWeek)
	}
	if !p.EndDate.Equal(p.StartDate.AddDate(0, 0, 6)) {
		return fmt.Errorf("%w: a plan must span exactly one week", ErrValidation)
	}
	for i, e := range p.Entries {
		if e.MissionID == "" {
			return fmt.Errorf("entry %d: %w: mission is required", i+1, ErrValidation)
		}
		if e.Hours <= 0 || e.Hours > 24*7 {
			return fmt.Errorf("entry %d: %w: planned hours must be in (0, 168], got %v", i+1, ErrValidation, e.Hours)
		}
	}
	return nil
}

// PlannedHours sums the planned hours of all entries.
func (p *WeeklyPlan) PlannedHours() float64 {
	var total float64
	for _, e := range p.Entries {
		total += e.Hours
	}
	return total
}
