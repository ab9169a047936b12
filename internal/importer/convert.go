package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
)

// Catalog is a converted seed file in dependency order: categories before
// projects before missions.
type Catalog struct {
	Users      []*domain.User
	Categories []*domain.Category
	Projects   []*domain.Project
	Missions   []*domain.Mission
}

// Convert turns a validated schema into domain objects with fresh ids.
// Call ValidateCatalogSchema first; Convert only reports dangling refs.
func Convert(schema *CatalogSchema, now time.Time) (*Catalog, error) {
	now = now.UTC().Truncate(time.Millisecond)
	out := &Catalog{}

	for _, u := range schema.Users {
		out.Users = append(out.Users, &domain.User{
			ID:        uuid.New().String(),
			Name:      strings.TrimSpace(u.Name),
			Email:     strings.TrimSpace(u.Email),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	categoryIDs := make(map[string]string) // ref -> id
	for _, c := range schema.Categories {
		id := uuid.New().String()
		categoryIDs[c.Ref] = id
		out.Categories = append(out.Categories, &domain.Category{
			ID:        id,
			Name:      strings.TrimSpace(c.Name),
			CreatedAt: now,
		})
	}

	projectIDs := make(map[string]string)
	for _, p := range schema.Projects {
		id := uuid.New().String()
		projectIDs[p.Ref] = id
		project := &domain.Project{
			ID:        id,
			Name:      strings.TrimSpace(p.Name),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if p.CategoryRef != nil && *p.CategoryRef != "" {
			cid, ok := categoryIDs[*p.CategoryRef]
			if !ok {
				return nil, fmt.Errorf("project %q: unknown category ref %q", p.Ref, *p.CategoryRef)
			}
			project.CategoryID = &cid
		}
		if p.Archived {
			archivedAt := now
			project.ArchivedAt = &archivedAt
		}
		out.Projects = append(out.Projects, project)
	}

	for _, m := range schema.Missions {
		pid, ok := projectIDs[m.ProjectRef]
		if !ok {
			return nil, fmt.Errorf("mission %q: unknown project ref %q", m.Name, m.ProjectRef)
		}
		out.Missions = append(out.Missions, &domain.Mission{
			ID:        uuid.New().String(),
			ProjectID: pid,
			Name:      strings.TrimSpace(m.Name),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return out, nil
}
