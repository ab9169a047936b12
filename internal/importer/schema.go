// Package importer loads catalog seed files: users, categories, projects
// and missions declared with local refs and resolved to fresh ids.
package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogSchema is the top-level structure of a seed file. YAML and JSON
// are both accepted.
type CatalogSchema struct {
	Users      []UserImport     `yaml:"users"`
	Categories []CategoryImport `yaml:"categories"`
	Projects   []ProjectImport  `yaml:"projects"`
	Missions   []MissionImport  `yaml:"missions"`
}

type UserImport struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type CategoryImport struct {
	Ref  string `yaml:"ref"`
	Name string `yaml:"name"`
}

type ProjectImport struct {
	Ref         string  `yaml:"ref"`
	Name        string  `yaml:"name"`
	CategoryRef *string `yaml:"category_ref,omitempty"`
	Archived    bool    `yaml:"archived"`
}

// MissionImport belongs to the project named by ProjectRef.
type MissionImport struct {
	ProjectRef string `yaml:"project_ref"`
	Name       string `yaml:"name"`
}

// LoadCatalogSchema reads and parses a seed file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalogSchema(data)
}

func ParseCatalogSchema(data []byte) (*CatalogSchema, error) {
	var schema CatalogSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
