package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
)

type catalogService struct {
	users      repository.UserRepo
	categories repository.CategoryRepo
	projects   repository.ProjectRepo
	missions   repository.MissionRepo
	cache      *cache.Registry
}

func NewCatalogService(
	users repository.UserRepo,
	categories repository.CategoryRepo,
	projects repository.ProjectRepo,
	missions repository.MissionRepo,
	registry *cache.Registry,
) CatalogService {
	return &catalogService{
		users:      users,
		categories: categories,
		projects:   projects,
		missions:   missions,
		cache:      registry,
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *catalogService) CreateUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	s.cache.InvalidateUsers(ctx)
	return nil
}

func (s *catalogService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return cached(ctx, s.cache, "list users", cache.Key(cache.UsersTag, "all"), []string{cache.UsersTag}, s.users.List)
}

// UpdateUser renames a user. Name filters resolve against the new name from
// the next aggregation on.
func (s *catalogService) UpdateUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = now()
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	s.cache.InvalidateUsers(ctx)
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = now()
	if err := s.categories.Create(ctx, c); err != nil {
		return err
	}
	s.cache.InvalidateCatalog(ctx, cache.CategoriesTag)
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return cached(ctx, s.cache, "list categories", cache.Key(cache.CategoriesTag, "all"), []string{cache.CategoriesTag}, s.categories.List)
}

func (s *catalogService) CreateProject(ctx context.Context, p *domain.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *p.CategoryID); err != nil {
			return fmt.Errorf("project category: %w", err)
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if err := s.projects.Create(ctx, p); err != nil {
		return err
	}
	s.cache.InvalidateCatalog(ctx, cache.ProjectsTag)
	return nil
}

func (s *catalogService) ListProjects(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return cached(ctx, s.cache, "list projects", cache.Key(cache.ProjectsTag, includeArchived), []string{cache.ProjectsTag},
		func(ctx context.Context) ([]*domain.Project, error) {
			return s.projects.List(ctx, includeArchived)
		})
}

func (s *catalogService) ArchiveProject(ctx context.Context, id string) error {
	if err := s.projects.Archive(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateCatalog(ctx, cache.ProjectsTag)
	return nil
}

// DeleteProject removes the project and its missions. Missions still
// referenced by work entries block the delete.
func (s *catalogService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateCatalog(ctx, cache.ProjectsTag)
	s.cache.InvalidateCatalog(ctx, cache.MissionsTag)
	return nil
}

func (s *catalogService) CreateMission(ctx context.Context, m *domain.Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, m.ProjectID); err != nil {
		return fmt.Errorf("mission project: %w", err)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt
	if err := s.missions.Create(ctx, m); err != nil {
		return err
	}
	s.cache.InvalidateCatalog(ctx, cache.MissionsTag)
	return nil
}

func (s *catalogService) ListMissions(ctx context.Context, projectID string) ([]*domain.Mission, error) {
	return cached(ctx, s.cache, "list missions", cache.Key(cache.MissionsTag, projectID), []string{cache.MissionsTag},
		func(ctx context.Context) ([]*domain.Mission, error) {
			return s.missions.ListByProject(ctx, projectID)
		})
}

func (s *catalogService) DeleteMission(ctx context.Context, id string) error {
	if err := s.missions.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateCatalog(ctx, cache.MissionsTag)
	return nil
}
