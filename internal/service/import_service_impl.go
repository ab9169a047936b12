package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/importer"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	cache    *cache.Registry
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, registry *cache.Registry, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		cache:    registry,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportCatalog(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadCatalogSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportCatalogFromSchema(ctx, schema)
}

// ImportCatalogFromSchema writes the whole seed in one transaction. Either
// every entity is stored or none is.
func (s *importService) ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (res *ImportResult, err error) {
	defer observe(ctx, s.observer, "import-catalog", time.Now(), nil, &err)

	catalog, err := PrepareCatalog(schema, now())
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		categories := repository.NewSQLiteCategoryRepo(tx)
		for _, c := range catalog.Categories {
			if err := categories.Create(ctx, c); err != nil {
				return fmt.Errorf("creating category %q: %w", c.Name, err)
			}
		}
		projects := repository.NewSQLiteProjectRepo(tx)
		for _, p := range catalog.Projects {
			if err := projects.Create(ctx, p); err != nil {
				return fmt.Errorf("creating project %q: %w", p.Name, err)
			}
		}
		missions := repository.NewSQLiteMissionRepo(tx)
		for _, m := range catalog.Missions {
			if err := missions.Create(ctx, m); err != nil {
				return fmt.Errorf("creating mission %q: %w", m.Name, err)
			}
		}
		users := repository.NewSQLiteUserRepo(tx)
		for _, u := range catalog.Users {
			if err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("creating user %q: %w", u.Name, err)
			}
		}

		db.AfterCommit(ctx, func(ctx context.Context) {
			s.cache.InvalidateCatalog(ctx, cache.CategoriesTag)
			s.cache.InvalidateCatalog(ctx, cache.ProjectsTag)
			s.cache.InvalidateCatalog(ctx, cache.MissionsTag)
			s.cache.InvalidateUsers(ctx)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newImportResult(catalog), nil
}

// PrepareCatalog validates and converts a seed without touching the store.
func PrepareCatalog(schema *importer.CatalogSchema, at time.Time) (*importer.Catalog, error) {
	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	catalog, err := importer.Convert(schema, at)
	if err != nil {
		return nil, fmt.Errorf("converting import file: %w", err)
	}
	return catalog, nil
}

func newImportResult(c *importer.Catalog) *ImportResult {
	return &ImportResult{
		Users:      len(c.Users),
		Categories: len(c.Categories),
		Projects:   len(c.Projects),
		Missions:   len(c.Missions),
	}
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
