package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }

const seedYAML = `
users:
  - name: Alice Tanaka
    email: alice@example.com
  - name: Bob Suzuki
categories:
  - ref: client
    name: Client work
projects:
  - ref: alpha
    name: Alpha
    category_ref: client
  - ref: legacy
    name: Legacy
    archived: true
missions:
  - project_ref: alpha
    name: API
  - project_ref: alpha
    name: Docs
  - project_ref: legacy
    name: Maintenance
`

func validSchema() *CatalogSchema {
	return &CatalogSchema{
		Users:      []UserImport{{Name: "Alice"}},
		Categories: []CategoryImport{{Ref: "c", Name: "Client"}},
		Projects:   []ProjectImport{{Ref: "p", Name: "Alpha", CategoryRef: ptrStr("c")}},
		Missions:   []MissionImport{{ProjectRef: "p", Name: "API"}},
	}
}

func TestLoadCatalogSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	schema, err := LoadCatalogSchema(path)
	require.NoError(t, err)
	assert.Len(t, schema.Users, 2)
	assert.Equal(t, "client", *schema.Projects[0].CategoryRef)
	assert.True(t, schema.Projects[1].Archived)
	assert.Len(t, schema.Missions, 3)
	assert.Empty(t, ValidateCatalogSchema(schema))

	_, err = LoadCatalogSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseCatalogSchema_AcceptsJSON(t *testing.T) {
	schema, err := ParseCatalogSchema([]byte(`{"projects":[{"ref":"p","name":"Alpha"}],"missions":[{"project_ref":"p","name":"API"}]}`))
	require.NoError(t, err)
	assert.Empty(t, ValidateCatalogSchema(schema))

	_, err = ParseCatalogSchema([]byte("users: [unterminated"))
	assert.ErrorContains(t, err, "parsing import file")
}

func TestValidateCatalogSchema_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *CatalogSchema)
		want   string
	}{
		{"user name", func(s *CatalogSchema) { s.Users[0].Name = " " }, "users[0].name is required"},
		{"duplicate user", func(s *CatalogSchema) { s.Users = append(s.Users, UserImport{Name: "Alice"}) }, `users[1].name: duplicate user "Alice"`},
		{"bad email", func(s *CatalogSchema) { s.Users[0].Email = "alice" }, "users[0].email: malformed address"},
		{"category ref", func(s *CatalogSchema) { s.Categories[0].Ref = "" }, "categories[0].ref is required"},
		{"duplicate category name", func(s *CatalogSchema) {
			s.Categories = append(s.Categories, CategoryImport{Ref: "c2", Name: s.Categories[0].Name + " "})
		}, "categories[1].name: duplicate category"},
		{"duplicate project ref", func(s *CatalogSchema) {
			s.Projects = append(s.Projects, ProjectImport{Ref: "p", Name: "Beta"})
		}, `projects[1].ref: duplicate ref "p"`},
		{"dangling category", func(s *CatalogSchema) { s.Projects[0].CategoryRef = ptrStr("x") }, `projects[0].category_ref: ref "x" not found`},
		{"dangling project", func(s *CatalogSchema) { s.Missions[0].ProjectRef = "q" }, `missions[0].project_ref: ref "q" not found`},
		{"mission name", func(s *CatalogSchema) { s.Missions[0].Name = "" }, "missions[0].name is required"},
		{"duplicate mission", func(s *CatalogSchema) {
			s.Missions = append(s.Missions, MissionImport{ProjectRef: "p", Name: "API"})
		}, `missions[1].name: duplicate mission "API"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchema()
			tt.mutate(s)
			errs := ValidateCatalogSchema(s)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}

func TestConvert_ResolvesRefs(t *testing.T) {
	schema, err := ParseCatalogSchema([]byte(seedYAML))
	require.NoError(t, err)
	now := time.Date(2024, 6, 15, 3, 0, 0, 123456789, time.UTC)

	cat, err := Convert(schema, now)
	require.NoError(t, err)

	require.Len(t, cat.Categories, 1)
	require.Len(t, cat.Projects, 2)
	require.Len(t, cat.Missions, 3)

	alpha, legacy := cat.Projects[0], cat.Projects[1]
	require.NotNil(t, alpha.CategoryID)
	assert.Equal(t, cat.Categories[0].ID, *alpha.CategoryID)
	assert.False(t, alpha.IsArchived())
	assert.True(t, legacy.IsArchived())
	assert.Nil(t, legacy.CategoryID)

	assert.Equal(t, alpha.ID, cat.Missions[0].ProjectID)
	assert.Equal(t, alpha.ID, cat.Missions[1].ProjectID)
	assert.Equal(t, legacy.ID, cat.Missions[2].ProjectID)

	assert.Equal(t, now.Truncate(time.Millisecond), cat.Users[0].CreatedAt)
	assert.NotEqual(t, cat.Users[0].ID, cat.Users[1].ID)
	for _, m := range cat.Missions {
		assert.NoError(t, m.Validate())
	}
}

func TestConvert_DanglingRef(t *testing.T) {
	_, err := Convert(&CatalogSchema{Missions: []MissionImport{{ProjectRef: "nope", Name: "X"}}}, time.Now())
	assert.ErrorContains(t, err, `unknown project ref "nope"`)
}
