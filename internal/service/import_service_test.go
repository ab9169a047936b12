package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/cache"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/importer"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/repository"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

// seedSchema writes 2 categories, 2 projects, 2 missions and 1 user, in that order.
func seedSchema() *importer.CatalogSchema {
	return &importer.CatalogSchema{
		Users:      []importer.UserImport{{Name: "Carol Sato"}},
		Categories: []importer.CategoryImport{{Ref: "client", Name: "Client"}, {Ref: "internal", Name: "Internal"}},
		Projects: []importer.ProjectImport{
			{Ref: "gamma", Name: "Gamma", CategoryRef: ptr("client")},
			{Ref: "legacy", Name: "Legacy", Archived: true},
		},
		Missions: []importer.MissionImport{{ProjectRef: "gamma", Name: "Build"}, {ProjectRef: "legacy", Name: "Upkeep"}},
	}
}

// catalogCounts returns the number of stored categories, projects (archived
// included) and users.
func catalogCounts(t *testing.T, e *env) (categories, projects, users int) {
	t.Helper()
	ctx := context.Background()
	cats, err := repository.NewSQLiteCategoryRepo(e.db).List(ctx)
	require.NoError(t, err)
	projs, err := e.projects.List(ctx, true)
	require.NoError(t, err)
	us, err := e.users.List(ctx)
	require.NoError(t, err)
	return len(cats), len(projs), len(us)
}

func TestImportCatalog_StoresEverything(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewImportService(testutil.NewTestUoW(e.db), e.registry)

	res, err := svc.ImportCatalogFromSchema(ctx, seedSchema())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Users: 1, Categories: 2, Projects: 2, Missions: 2}, *res)
	assert.Equal(t, "1 users, 2 categories, 2 projects, 2 missions", res.String())

	cats, projs, users := catalogCounts(t, e)
	assert.Equal(t, 2, cats)
	assert.Equal(t, 4, projs)
	assert.Equal(t, 3, users)

	active, err := e.projects.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 3, "the archived seed project stays out of the active list")

	var tags []string
	for _, inv := range e.store.invalidations() {
		tags = append(tags, inv...)
	}
	assert.Contains(t, tags, cache.CategoriesTag)
	assert.Contains(t, tags, cache.ProjectsTag)
	assert.Contains(t, tags, cache.MissionsTag)
	assert.Contains(t, tags, cache.UsersTag)
}

func TestImportCatalog_RollsBackOnWriteFailure(t *testing.T) {
	e := newEnv(t)
	injected := errors.New("injected mission insert failure")
	// Writes: #1-2 categories, #3-4 projects, #5 first mission.
	uow := &testutil.FaultyUoW{DB: e.db, FailOnExec: 5, Err: injected}
	svc := NewImportService(uow, e.registry)

	_, err := svc.ImportCatalogFromSchema(context.Background(), seedSchema())
	require.ErrorIs(t, err, injected)
	assert.Equal(t, 1, uow.Rollbacks())
	assert.Zero(t, uow.Commits())

	cats, projs, users := catalogCounts(t, e)
	assert.Zero(t, cats, "no category may survive a failed import")
	assert.Equal(t, 2, projs)
	assert.Equal(t, 2, users)
	assert.Empty(t, e.store.invalidations(), "a rolled back import must not invalidate")
}

func TestImportCatalog_RetryAfterConflictSucceeds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, repository.NewSQLiteCategoryRepo(e.db).Create(ctx, testutil.NewTestCategory("Internal")))
	svc := NewImportService(testutil.NewTestUoW(e.db), e.registry)

	// "Internal" already exists, so the second category insert fails after
	// "Client" was written inside the same transaction.
	_, err := svc.ImportCatalogFromSchema(ctx, seedSchema())
	require.Error(t, err)
	assert.ErrorContains(t, err, `creating category "Internal"`)
	cats, _, _ := catalogCounts(t, e)
	assert.Equal(t, 1, cats)

	fixed := seedSchema()
	fixed.Categories[1].Name = "Operations"
	_, err = svc.ImportCatalogFromSchema(ctx, fixed)
	require.NoError(t, err)
	cats, _, _ = catalogCounts(t, e)
	assert.Equal(t, 3, cats)
}

func TestImportCatalog_ValidationWritesNothing(t *testing.T) {
	e := newEnv(t)
	uow := &testutil.FaultyUoW{DB: e.db}
	svc := NewImportService(uow, e.registry)

	bad := seedSchema()
	bad.Categories[1].Name = "Client"
	_, err := svc.ImportCatalogFromSchema(context.Background(), bad)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, `categories[1].name: duplicate category "Client"`)
	assert.Zero(t, uow.Commits()+uow.Rollbacks(), "validation fails before the transaction starts")
}

func TestImportCatalog_FromFile(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - ref: ops\n    name: Operations\n"), 0o644))

	res, err := NewImportService(testutil.NewTestUoW(e.db), nil).ImportCatalog(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Categories)

	_, err = NewImportService(testutil.NewTestUoW(e.db), nil).ImportCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "loading import file")
}
