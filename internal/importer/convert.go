package importer

import (
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/studyloop/studyloop/internal/repository"
)

// Convert transforms a validated CatalogSchema into a catalog ready for
// persistence. Call ValidateCatalogSchema first; Convert assumes the
// schema is valid.
func Convert(schema *CatalogSchema) *repository.Catalog {
	categories := make([]domain.Category, 0, len(schema.Categories))
	for _, c := range schema.Categories {
		bands := make([]domain.RubricBand, 0, len(c.Bands))
		for _, b := range c.Bands {
			bands = append(bands, domain.RubricBand{MinRating: b.MinRating, Label: b.Label})
		}
		categories = append(categories, domain.Category{
			Key:            c.Key,
			Label:          c.Label,
			Weight:         c.Weight,
			StartingRating: c.StartingRating,
			TargetRating:   c.TargetRating,
			Bands:          bands,
		})
	}

	// File order within a category becomes the library position.
	orderWithin := make(map[string]int)
	modules := make([]domain.Module, 0, len(schema.Modules))
	for _, m := range schema.Modules {
		kind := domain.ModuleKind(m.Kind)
		if kind == "" {
			kind = domain.ModuleLesson
		}
		modules = append(modules, domain.Module{
			ID:           m.ID,
			CategoryKey:  m.Category,
			Title:        m.Title,
			Kind:         kind,
			Prereqs:      append([]string(nil), m.Prereqs...),
			EstimatedMin: m.EstimatedMin,
			OrderIndex:   orderWithin[m.Category],
			Objectives:   append([]string(nil), m.Objectives...),
			Refresher:    m.Refresher,
		})
		orderWithin[m.Category]++
	}

	inferLinearPrereqs(modules)

	milestones := make([]domain.Milestone, 0, len(schema.Milestones))
	for _, ms := range schema.Milestones {
		reqs := make([]domain.RatingRequirement, 0, len(ms.Requirements))
		for _, r := range ms.Requirements {
			reqs = append(reqs, domain.RatingRequirement{CategoryKey: r.Category, MinRating: r.MinRating})
		}
		milestones = append(milestones, domain.Milestone{
			ID:           ms.ID,
			CategoryKey:  ms.Category,
			Title:        ms.Title,
			RequiredIDs:  append([]string(nil), ms.Requires...),
			Requirements: reqs,
			BriefRef:     ms.Brief,
		})
	}

	return &repository.Catalog{
		Categories: categories,
		Modules:    modules,
		Milestones: milestones,
	}
}

// inferLinearPrereqs chains a category's modules in authored order when
// the author declared no prereqs anywhere in that category. A single
// declared prereq opts the whole category out of inference.
func inferLinearPrereqs(modules []domain.Module) {
	declared := make(map[string]bool)
	for _, m := range modules {
		if len(m.Prereqs) > 0 {
			declared[m.CategoryKey] = true
		}
	}

	lastInCategory := make(map[string]string)
	for i := range modules {
		key := modules[i].CategoryKey
		if !declared[key] {
			if prev, ok := lastInCategory[key]; ok {
				modules[i].Prereqs = []string{prev}
			}
		}
		lastInCategory[key] = modules[i].ID
	}
}
