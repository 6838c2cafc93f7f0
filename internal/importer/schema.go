package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogSchema is the top-level YAML structure for catalog import.
type CatalogSchema struct {
	Categories []CategoryImport  `yaml:"categories"`
	Modules    []ModuleImport    `yaml:"modules"`
	Milestones []MilestoneImport `yaml:"milestones,omitempty"`
}

// CategoryImport defines one curriculum track in the import file.
type CategoryImport struct {
	Key            string       `yaml:"key"`
	Label          string       `yaml:"label"`
	Weight         float64      `yaml:"weight"`
	StartingRating int          `yaml:"starting_rating"`
	TargetRating   int          `yaml:"target_rating"`
	Bands          []BandImport `yaml:"bands,omitempty"`
}

// BandImport labels a rating range within a category's rubric.
type BandImport struct {
	MinRating int    `yaml:"min_rating"`
	Label     string `yaml:"label"`
}

// ModuleImport defines one module in the import file. Modules are listed
// in catalog order; that order is preserved as the within-category
// library position.
type ModuleImport struct {
	ID           string   `yaml:"id"`
	Category     string   `yaml:"category"`
	Title        string   `yaml:"title"`
	Kind         string   `yaml:"kind"`
	Prereqs      []string `yaml:"prereqs,omitempty"`
	EstimatedMin int      `yaml:"estimated_min"`
	Objectives   []string `yaml:"objectives,omitempty"`
	Refresher    bool     `yaml:"refresher,omitempty"`
}

// MilestoneImport defines a capstone checkpoint in the import file.
type MilestoneImport struct {
	ID           string              `yaml:"id"`
	Category     string              `yaml:"category"`
	Title        string              `yaml:"title"`
	Requires     []string            `yaml:"requires,omitempty"`
	Requirements []RequirementImport `yaml:"requirements,omitempty"`
	Brief        string              `yaml:"brief,omitempty"`
}

// RequirementImport gates a milestone on a minimum category rating.
type RequirementImport struct {
	Category  string `yaml:"category"`
	MinRating int    `yaml:"min_rating"`
}

// LoadCatalogSchema reads and parses a catalog import YAML file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema CatalogSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &schema, nil
}
