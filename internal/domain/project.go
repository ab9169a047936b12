package domain

import (
	"fmt"
	"strings"
	"time"
)

type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Project struct {
	ID         string
	Name       string
	CategoryID *string
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Mission is a unit of work inside exactly one project. Work entries point at
// missions; the project is always derived through the mission.
type Mission struct {
	ID        string
	ProjectID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	return nil
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	return nil
}

// IsArchived reports whether the project is hidden from new reports.
func (p *Project) IsArchived() bool {
	return p.ArchivedAt != nil
}

func (m *Mission) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: mission name is required", ErrValidation)
	}
	if m.ProjectID == "" {
		return fmt.Errorf("%w: mission %q must belong to a project", ErrValidation, m.Name)
	}
	return nil
}
