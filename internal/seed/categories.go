// Package seed holds the data loaded into fresh databases: the default
// category set and a handful of sample documents.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// CategorySeed is one default category.
type CategorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type categoryFile struct {
	Categories []CategorySeed `yaml:"categories"`
}

// DefaultCategories returns the built-in category set.
func DefaultCategories() ([]CategorySeed, error) {
	var file categoryFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse embedded categories: %w", err)
	}
	return file.Categories, nil
}
