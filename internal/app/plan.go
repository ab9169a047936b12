package app

import (
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

// PlanEntryInput is one planned line of a weekly plan.
type PlanEntryInput struct {
	MissionID string  `json:"missionId"`
	Hours     float64 `json:"hours"`
	Content   string  `json:"content"`
}

// PlanInput replaces the contents of one user's plan for an ISO week.
type PlanInput struct {
	ISOYear int              `json:"isoYear"`
	ISOWeek int              `json:"isoWeek"`
	Entries []PlanEntryInput `json:"entries"`
}

type PlanEntryView struct {
	ID        string  `json:"id"`
	MissionID string  `json:"missionId"`
	Hours     float64 `json:"hours"`
	Content   string  `json:"content"`
}

// WeeklyPlanView renders plan bounds as local dates.
type WeeklyPlanView struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	ISOYear      int             `json:"isoYear"`
	ISOWeek      int             `json:"isoWeek"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	PlannedHours float64         `json:"plannedHours"`
	Entries      []PlanEntryView `json:"entries"`
	UpdatedAt    Instant         `json:"updatedAt"`
}

func NewWeeklyPlanView(p *domain.WeeklyPlan) WeeklyPlanView {
	v := WeeklyPlanView{
		ID:           p.ID,
		UserID:       p.UserID,
		ISOYear:      p.ISOYear,
		ISOWeek:      p.ISOWeek,
		StartDate:    jst.DateOf(p.StartDate),
		EndDate:      jst.DateOf(p.EndDate),
		PlannedHours: p.PlannedHours(),
		Entries:      make([]PlanEntryView, 0, len(p.Entries)),
		UpdatedAt:    Instant(p.UpdatedAt),
	}
	for _, e := range p.Entries {
		v.Entries = append(v.Entries, PlanEntryView{ID: e.ID, MissionID: e.MissionID, Hours: e.Hours, Content: e.Content})
	}
	return v
}
