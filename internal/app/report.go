package app

import (
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/paging"
)

type WorkEntryView struct {
	ID        string  `json:"id"`
	MissionID string  `json:"missionId"`
	Hours     float64 `json:"hours"`
	Content   string  `json:"content"`
}

type ReportView struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	ReportDate Instant         `json:"reportDate"`
	Remote     bool            `json:"remote"`
	Impression int             `json:"impression"`
	TotalHours float64         `json:"totalHours"`
	Entries    []WorkEntryView `json:"entries"`
	CreatedAt  Instant         `json:"createdAt"`
	UpdatedAt  Instant         `json:"updatedAt"`
}

func NewReportView(r *domain.DailyReport) ReportView {
	v := ReportView{
		ID:         r.ID,
		UserID:     r.UserID,
		ReportDate: Instant(r.ReportDate),
		Remote:     r.Remote,
		Impression: r.Impression,
		TotalHours: r.TotalHours(),
		Entries:    make([]WorkEntryView, 0, len(r.Entries)),
		CreatedAt:  Instant(r.CreatedAt),
		UpdatedAt:  Instant(r.UpdatedAt),
	}
	for _, e := range r.Entries {
		v.Entries = append(v.Entries, WorkEntryView{ID: e.ID, MissionID: e.MissionID, Hours: e.Hours, Content: e.Content})
	}
	return v
}

type ReportPage struct {
	Items []ReportView `json:"items"`
	Total int          `json:"total"`
	PageInfo
}

// PageInfo locates one page of a listing and carries its pager window.
type PageInfo struct {
	Page   int           `json:"page"`
	Pages  int           `json:"pages"`
	Window paging.Window `json:"window"`
}

// NewPageInfo computes the page count and pager window for a zero-based page.
func NewPageInfo(page, perPage, total int) PageInfo {
	pages := paging.TotalPages(total, perPage)
	return PageInfo{
		Page:   page,
		Pages:  pages,
		Window: paging.NewWindow(page, pages),
	}
}

// ReportInput is the owner-supplied content of a report.
type ReportInput struct {
	Date       string           `json:"date"`
	Remote     bool             `json:"remote"`
	Impression int              `json:"impression"`
	Entries    []WorkEntryInput `json:"entries"`
}

type WorkEntryInput struct {
	MissionID string  `json:"missionId"`
	Hours     float64 `json:"hours"`
	Content   string  `json:"content"`
}
