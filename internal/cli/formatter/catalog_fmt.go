package formatter

import (
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
)

// FormatUserList renders users as a table.
func FormatUserList(users []*domain.User) string {
	if len(users) == 0 {
		return Dim("No users.") + "\n"
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		email := u.Email
		if email == "" {
			email = Dim("--")
		}
		rows = append(rows, []string{TruncID(u.ID), u.Name, email})
	}
	return RenderTable([]string{"ID", "NAME", "EMAIL"}, rows)
}

// FormatProjectList renders projects with their mission counts.
func FormatProjectList(projects []*domain.Project, missionCounts map[string]int, categoryNames map[string]string) string {
	if len(projects) == 0 {
		return Dim("No projects.") + "\n"
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		category := Dim("--")
		if p.CategoryID != nil {
			if name, ok := categoryNames[*p.CategoryID]; ok {
				category = name
			}
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			p.Name,
			category,
			FormatCount(missionCounts[p.ID]),
			ProjectPill(p.IsArchived()),
		})
	}
	return RenderTable([]string{"ID", "NAME", "CATEGORY", "MISSIONS", "STATUS"}, rows)
}
