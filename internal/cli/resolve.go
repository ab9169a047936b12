package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
)

// resolveRef finds one item by exact id, exact case-insensitive name, or
// unambiguous id prefix, in that order.
func resolveRef[T any](kind, input string, items []T, id, name func(T) string) (T, error) {
	var zero T
	if strings.TrimSpace(input) == "" {
		return zero, fmt.Errorf("%s is required", kind)
	}

	for _, it := range items {
		if id(it) == input {
			return it, nil
		}
	}
	for _, it := range items {
		if strings.EqualFold(name(it), input) {
			return it, nil
		}
	}

	var matches []T
	for _, it := range items {
		if strings.HasPrefix(id(it), input) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s id prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveUser(ctx context.Context, app *App, input string) (*domain.User, error) {
	users, err := app.Catalog.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return resolveRef("user", input, users,
		func(u *domain.User) string { return u.ID },
		func(u *domain.User) string { return u.Name })
}

func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	projects, err := app.Catalog.ListProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	return resolveRef("project", input, projects,
		func(p *domain.Project) string { return p.ID },
		func(p *domain.Project) string { return p.Name })
}

func resolveCategory(ctx context.Context, app *App, input string) (*domain.Category, error) {
	categories, err := app.Catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return resolveRef("category", input, categories,
		func(c *domain.Category) string { return c.ID },
		func(c *domain.Category) string { return c.Name })
}

// missionRef is a mission with its project name, addressable as
// "Project/Mission".
type missionRef struct {
	*domain.Mission
	Project string
}

func (m missionRef) label() string {
	return m.Project + "/" + m.Name
}

func listMissionRefs(ctx context.Context, app *App) ([]missionRef, error) {
	projects, err := app.Catalog.ListProjects(ctx, true)
	if err != nil {
		return nil, err
	}
	var out []missionRef
	for _, p := range projects {
		missions, err := app.Catalog.ListMissions(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range missions {
			out = append(out, missionRef{Mission: m, Project: p.Name})
		}
	}
	return out, nil
}

// resolveMission accepts a mission id, id prefix, "Project/Mission" label,
// or a bare mission name when it is unique across projects.
func resolveMission(refs []missionRef, input string) (missionRef, error) {
	if m, err := resolveRef("mission", input, refs,
		func(m missionRef) string { return m.ID },
		missionRef.label); err == nil {
		return m, nil
	}

	var matches []missionRef
	for _, m := range refs {
		if strings.EqualFold(m.Name, input) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return missionRef{}, fmt.Errorf("mission not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return missionRef{}, fmt.Errorf("mission name %q is ambiguous; use Project/Mission", input)
	}
}

func missionNames(refs []missionRef) map[string]string {
	out := make(map[string]string, len(refs))
	for _, m := range refs {
		out[m.ID] = m.label()
	}
	return out
}

func userNames(users []*domain.User) map[string]string {
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Name
	}
	return out
}
