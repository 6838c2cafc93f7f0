package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/studyloop/studyloop/internal/domain"
	"github.com/studyloop/studyloop/internal/repository"
)

// Category options
type CategoryOption func(*domain.Category)

func WithWeight(w float64) CategoryOption {
	return func(c *domain.Category) {
		c.Weight = w
	}
}

func WithRatingSpan(starting, target int) CategoryOption {
	return func(c *domain.Category) {
		c.StartingRating = starting
		c.TargetRating = target
	}
}

func WithBands(bands ...domain.RubricBand) CategoryOption {
	return func(c *domain.Category) {
		c.Bands = bands
	}
}

func NewTestCategory(key, label string, opts ...CategoryOption) domain.Category {
	c := domain.Category{
		Key:            key,
		Label:          label,
		Weight:         1.0,
		StartingRating: 800,
		TargetRating:   1400,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Module options
type ModuleOption func(*domain.Module)

func WithPrereqs(ids ...string) ModuleOption {
	return func(m *domain.Module) {
		m.Prereqs = ids
	}
}

func WithMinutes(min int) ModuleOption {
	return func(m *domain.Module) {
		m.EstimatedMin = min
	}
}

func WithKind(k domain.ModuleKind) ModuleOption {
	return func(m *domain.Module) {
		m.Kind = k
	}
}

func WithRefresher() ModuleOption {
	return func(m *domain.Module) {
		m.Refresher = true
	}
}

func WithObjectives(objectives ...string) ModuleOption {
	return func(m *domain.Module) {
		m.Objectives = objectives
	}
}

func NewTestModule(id, categoryKey, title string, opts ...ModuleOption) domain.Module {
	m := domain.Module{
		ID:           id,
		CategoryKey:  categoryKey,
		Title:        title,
		Kind:         domain.ModuleLesson,
		EstimatedMin: 30,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithRequiredModules(ids ...string) MilestoneOption {
	return func(ms *domain.Milestone) {
		ms.RequiredIDs = ids
	}
}

func WithRatingRequirement(categoryKey string, minRating int) MilestoneOption {
	return func(ms *domain.Milestone) {
		ms.Requirements = append(ms.Requirements, domain.RatingRequirement{
			CategoryKey: categoryKey,
			MinRating:   minRating,
		})
	}
}

func WithBrief(ref string) MilestoneOption {
	return func(ms *domain.Milestone) {
		ms.BriefRef = ref
	}
}

func NewTestMilestone(id, categoryKey, title string, opts ...MilestoneOption) domain.Milestone {
	ms := domain.Milestone{
		ID:          id,
		CategoryKey: categoryKey,
		Title:       title,
	}
	for _, opt := range opts {
		opt(&ms)
	}
	return ms
}

// SeedCatalog writes the given catalog into the test database, assigning
// within-category order by module position.
func SeedCatalog(t *testing.T, database *sql.DB, catalog *repository.Catalog) {
	t.Helper()
	orderWithin := make(map[string]int)
	for i := range catalog.Modules {
		m := &catalog.Modules[i]
		m.OrderIndex = orderWithin[m.CategoryKey]
		orderWithin[m.CategoryKey]++
	}
	if err := repository.NewSQLiteCatalogRepo(database).ReplaceAll(context.Background(), catalog); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
}
