package importer

import (
	"fmt"
	"strings"
)

// ValidateCatalogSchema checks the schema before conversion and returns
// every problem found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	errs = append(errs, validateUsers(schema.Users)...)

	categoryRefs := make(map[string]bool)
	errs = append(errs, validateCategories(schema.Categories, categoryRefs)...)

	projectRefs := make(map[string]bool)
	errs = append(errs, validateProjects(schema.Projects, categoryRefs, projectRefs)...)

	errs = append(errs, validateMissions(schema.Missions, projectRefs)...)

	return errs
}

func validateUsers(users []UserImport) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, u := range users {
		prefix := fmt.Sprintf("users[%d]", i)
		name := strings.TrimSpace(u.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		case seen[name]:
			errs = append(errs, fmt.Errorf("%s.name: duplicate user %q", prefix, name))
		default:
			seen[name] = true
		}
		if u.Email != "" && !strings.Contains(u.Email, "@") {
			errs = append(errs, fmt.Errorf("%s.email: malformed address %q", prefix, u.Email))
		}
	}
	return errs
}

func validateCategories(categories []CategoryImport, refs map[string]bool) []error {
	var errs []error
	names := make(map[string]bool)

	for i, c := range categories {
		prefix := fmt.Sprintf("categories[%d]", i)
		errs = append(errs, claimRef(prefix, c.Ref, refs)...)
		// Category names are unique in the store.
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		case names[name]:
			errs = append(errs, fmt.Errorf("%s.name: duplicate category %q", prefix, name))
		default:
			names[name] = true
		}
	}
	return errs
}

func validateProjects(projects []ProjectImport, categoryRefs, refs map[string]bool) []error {
	var errs []error

	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		errs = append(errs, claimRef(prefix, p.Ref, refs)...)
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.CategoryRef != nil && *p.CategoryRef != "" && !categoryRefs[*p.CategoryRef] {
			errs = append(errs, fmt.Errorf("%s.category_ref: ref %q not found in categories", prefix, *p.CategoryRef))
		}
	}
	return errs
}

func validateMissions(missions []MissionImport, projectRefs map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, m := range missions {
		prefix := fmt.Sprintf("missions[%d]", i)
		if m.ProjectRef == "" {
			errs = append(errs, fmt.Errorf("%s.project_ref is required", prefix))
		} else if !projectRefs[m.ProjectRef] {
			errs = append(errs, fmt.Errorf("%s.project_ref: ref %q not found in projects", prefix, m.ProjectRef))
		}

		name := strings.TrimSpace(m.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			continue
		}
		key := m.ProjectRef + "/" + name
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate mission %q in project %q", prefix, name, m.ProjectRef))
		}
		seen[key] = true
	}
	return errs
}

func claimRef(prefix, ref string, refs map[string]bool) []error {
	switch {
	case ref == "":
		return []error{fmt.Errorf("%s.ref is required", prefix)}
	case refs[ref]:
		return []error{fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)}
	default:
		refs[ref] = true
		return nil
	}
}
