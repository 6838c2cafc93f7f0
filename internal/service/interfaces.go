package service

import (
	"context"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/studyloop/studyloop/internal/repository"
)

// PlannerService is the planning surface: full regeneration, windowed
// reads, and learner adjustments.
type PlannerService interface {
	Plan(ctx context.Context, req contract.PlanRequest) (*contract.PlanResponse, error)
	Slice(ctx context.Context, req contract.SliceRequest) (*contract.SliceResponse, error)
	ApplyAdjustment(ctx context.Context, req contract.AdjustRequest) (*contract.PlanResponse, error)
	History(ctx context.Context, learnerID string, limit int) ([]domain.RationaleEntry, error)
}

type ProgressService interface {
	CompleteItem(ctx context.Context, learnerID, unitID string) (*domain.ScheduledItem, error)
}

type RatingService interface {
	SetRating(ctx context.Context, learnerID, categoryKey string, rating int) error
	RecordAssessment(ctx context.Context, learnerID, categoryKey string, avgScore float64) (*domain.AssessmentOutcome, error)
	ListRatings(ctx context.Context, learnerID string) ([]RatingView, error)
}

// RatingView is a rating joined with its category for display.
type RatingView struct {
	Category domain.Category
	Rating   int
	Band     string
}

// CatalogImportResult summarizes a completed catalog import.
type CatalogImportResult struct {
	CategoryCount  int
	ModuleCount    int
	MilestoneCount int
}

type CatalogService interface {
	Import(ctx context.Context, path string) (*CatalogImportResult, error)
	Load(ctx context.Context) (*repository.Catalog, error)
}
