package app

import (
	"github.com/sc30gsw/nextjs-suama-sub001/internal/calendar"
)

type AggregationResult struct {
	ReportCount          int     `json:"reportCount"`
	DistinctProjectCount int     `json:"distinctProjectCount"`
	TotalHours           float64 `json:"totalHours"`
}

type ProjectSummary struct {
	ProjectID          string   `json:"projectId"`
	ProjectName        string   `json:"projectName"`
	TotalHours         float64  `json:"totalHours"`
	WorkDays           int      `json:"workDays"`
	FirstWorkDate      *Instant `json:"firstWorkDate"`
	LastWorkDate       *Instant `json:"lastWorkDate"`
	AverageHoursPerDay float64  `json:"averageHoursPerDay"`
}

// ProjectSummaryPage is one slice of the summary plus the number of groups
// before slicing.
type ProjectSummaryPage struct {
	Items []ProjectSummary `json:"items"`
	Total int              `json:"total"`
}

type Dashboard struct {
	Stats   AggregationResult  `json:"stats"`
	Summary ProjectSummaryPage `json:"summary"`
}

type CalendarView struct {
	Today  string           `json:"today"`
	Months []calendar.Month `json:"months"`
}
