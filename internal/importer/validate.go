package importer

import (
	"fmt"

	"github.com/studyloop/studyloop/internal/domain"
)

// ValidateCatalogSchema checks the catalog schema for errors before
// conversion. Returns a slice of all validation errors found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	catKeys := make(map[string]bool)
	errs = append(errs, validateCategories(schema.Categories, catKeys)...)

	moduleIDs := make(map[string]bool)
	errs = append(errs, validateModules(schema.Modules, catKeys, moduleIDs)...)

	errs = append(errs, validateMilestones(schema.Milestones, catKeys, moduleIDs)...)

	if len(schema.Modules) > 1 {
		errs = append(errs, detectPrereqCycles(schema.Modules)...)
	}

	return errs
}

func validateCategories(cats []CategoryImport, catKeys map[string]bool) []error {
	var errs []error

	if len(cats) == 0 {
		errs = append(errs, fmt.Errorf("categories: at least one category is required"))
	}

	for i, c := range cats {
		prefix := fmt.Sprintf("categories[%d]", i)

		if c.Key == "" {
			errs = append(errs, fmt.Errorf("%s.key is required", prefix))
		} else if catKeys[c.Key] {
			errs = append(errs, fmt.Errorf("%s.key: duplicate key %q", prefix, c.Key))
		} else {
			catKeys[c.Key] = true
		}

		if c.Label == "" {
			errs = append(errs, fmt.Errorf("%s.label is required", prefix))
		}
		if c.Weight < 0 {
			errs = append(errs, fmt.Errorf("%s.weight must be >= 0", prefix))
		}
		if c.TargetRating < c.StartingRating {
			errs = append(errs, fmt.Errorf("%s: target_rating (%d) must be >= starting_rating (%d)", prefix, c.TargetRating, c.StartingRating))
		}

		lastMin := -1
		for j, b := range c.Bands {
			if b.Label == "" {
				errs = append(errs, fmt.Errorf("%s.bands[%d].label is required", prefix, j))
			}
			if j > 0 && b.MinRating <= lastMin {
				errs = append(errs, fmt.Errorf("%s.bands[%d]: min_rating must increase (got %d after %d)", prefix, j, b.MinRating, lastMin))
			}
			lastMin = b.MinRating
		}
	}

	return errs
}

func validateModules(modules []ModuleImport, catKeys, moduleIDs map[string]bool) []error {
	var errs []error

	if len(modules) == 0 {
		errs = append(errs, fmt.Errorf("modules: at least one module is required"))
	}

	for i, m := range modules {
		prefix := fmt.Sprintf("modules[%d]", i)

		if m.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if moduleIDs[m.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, m.ID))
		} else {
			moduleIDs[m.ID] = true
		}

		if m.Category == "" {
			errs = append(errs, fmt.Errorf("%s.category is required", prefix))
		} else if !catKeys[m.Category] {
			errs = append(errs, fmt.Errorf("%s.category: key %q not found in categories", prefix, m.Category))
		}

		if m.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if m.Kind == "" {
			errs = append(errs, fmt.Errorf("%s.kind is required", prefix))
		} else if !domain.ValidModuleKinds[m.Kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, m.Kind))
		}
		if m.EstimatedMin <= 0 {
			errs = append(errs, fmt.Errorf("%s.estimated_min must be positive", prefix))
		}
	}

	// Prereqs may reference modules declared later, so they are checked
	// in a second pass once the full id set is known.
	for i, m := range modules {
		prefix := fmt.Sprintf("modules[%d]", i)
		for _, p := range m.Prereqs {
			if p == m.ID {
				errs = append(errs, fmt.Errorf("%s: module %q lists itself as a prerequisite", prefix, m.ID))
				continue
			}
			if !moduleIDs[p] {
				errs = append(errs, fmt.Errorf("%s.prereqs: id %q not found in modules", prefix, p))
			}
		}
	}

	return errs
}

func validateMilestones(milestones []MilestoneImport, catKeys, moduleIDs map[string]bool) []error {
	var errs []error

	msIDs := make(map[string]bool)
	for i, ms := range milestones {
		prefix := fmt.Sprintf("milestones[%d]", i)

		if ms.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if msIDs[ms.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, ms.ID))
		} else if moduleIDs[ms.ID] {
			errs = append(errs, fmt.Errorf("%s.id: %q collides with a module id", prefix, ms.ID))
		} else {
			msIDs[ms.ID] = true
		}

		if ms.Category == "" {
			errs = append(errs, fmt.Errorf("%s.category is required", prefix))
		} else if !catKeys[ms.Category] {
			errs = append(errs, fmt.Errorf("%s.category: key %q not found in categories", prefix, ms.Category))
		}

		if ms.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}

		for _, req := range ms.Requires {
			if !moduleIDs[req] {
				errs = append(errs, fmt.Errorf("%s.requires: id %q not found in modules", prefix, req))
			}
		}
		for j, r := range ms.Requirements {
			if r.Category == "" {
				errs = append(errs, fmt.Errorf("%s.requirements[%d].category is required", prefix, j))
			} else if !catKeys[r.Category] {
				errs = append(errs, fmt.Errorf("%s.requirements[%d].category: key %q not found in categories", prefix, j, r.Category))
			}
			if r.MinRating <= 0 {
				errs = append(errs, fmt.Errorf("%s.requirements[%d].min_rating must be positive", prefix, j))
			}
		}
	}

	return errs
}

// detectPrereqCycles reports prerequisite cycles at import time. The
// planner can break a cycle with a warning if one slips through, but a
// cycle in an authored catalog is always a mistake worth rejecting early.
func detectPrereqCycles(modules []ModuleImport) []error {
	graph := make(map[string][]string)
	for _, m := range modules {
		for _, p := range m.Prereqs {
			if p != "" && p != m.ID {
				graph[p] = append(graph[p], m.ID)
			}
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, next := range graph[node] {
			if color[next] == gray {
				errs = append(errs, fmt.Errorf("prerequisite cycle detected involving %q and %q", node, next))
				return true
			}
			if color[next] == white {
				if visit(next) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for _, m := range modules {
		if color[m.ID] == white {
			visit(m.ID)
		}
	}

	return errs
}
