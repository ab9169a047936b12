package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/calendar"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// User options
type UserOption func(*domain.User)

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	ts := now()
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func NewTestCategory(name string) *domain.Category {
	return &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now(),
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithCategory(categoryID string) ProjectOption {
	return func(p *domain.Project) {
		p.CategoryID = &categoryID
	}
}

func WithArchivedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.ArchivedAt = &t
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestMission(projectID, name string) *domain.Mission {
	ts := now()
	return &domain.Mission{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Report options
type ReportOption func(*domain.DailyReport)

// WithEntry appends a work entry against the given mission.
func WithEntry(missionID string, hours float64) ReportOption {
	return func(r *domain.DailyReport) {
		r.Entries = append(r.Entries, domain.WorkEntry{
			ID:        uuid.New().String(),
			MissionID: missionID,
			Hours:     hours,
			Content:   "work",
		})
	}
}

func WithRemote() ReportOption {
	return func(r *domain.DailyReport) {
		r.Remote = true
	}
}

func WithImpression(score int) ReportOption {
	return func(r *domain.DailyReport) {
		r.Impression = score
	}
}

// NewTestReport builds a report for the JST day localDate (YYYY-MM-DD).
// It panics on a malformed date.
func NewTestReport(userID, localDate string, opts ...ReportOption) *domain.DailyReport {
	day, err := jst.Convert(localDate, jst.Start)
	if err != nil {
		panic(err)
	}
	ts := now()
	r := &domain.DailyReport{
		ID:         uuid.New().String(),
		UserID:     userID,
		ReportDate: day,
		Impression: 3,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Weekly plan options
type PlanOption func(*domain.WeeklyPlan)

func WithPlanEntry(missionID string, hours float64) PlanOption {
	return func(p *domain.WeeklyPlan) {
		p.Entries = append(p.Entries, domain.WeeklyPlanEntry{
			ID:        uuid.New().String(),
			MissionID: missionID,
			Hours:     hours,
			Content:   "planned",
		})
	}
}

func NewTestWeeklyPlan(userID string, isoYear, isoWeek int, opts ...PlanOption) *domain.WeeklyPlan {
	w := calendar.WeekOf(isoYear, isoWeek)
	ts := now()
	p := &domain.WeeklyPlan{
		ID:        uuid.New().String(),
		UserID:    userID,
		ISOYear:   isoYear,
		ISOWeek:   isoWeek,
		StartDate: w.Start,
		EndDate:   w.End,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
