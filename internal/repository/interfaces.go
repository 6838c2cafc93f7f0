package repository

import (
	"context"
	"errors"

	"github.com/studyloop/studyloop/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")

// Catalog is the full module catalog loaded in one read: categories in
// display order, modules in catalog order, milestones with their
// requirements attached.
type Catalog struct {
	Categories []domain.Category
	Modules    []domain.Module
	Milestones []domain.Milestone
}

type CatalogRepo interface {
	Load(ctx context.Context) (*Catalog, error)
	ReplaceAll(ctx context.Context, c *Catalog) error
	GetModule(ctx context.Context, id string) (*domain.Module, error)
}

type RatingRepo interface {
	GetRatings(ctx context.Context, learnerID string) (map[string]int, error)
	SetRating(ctx context.Context, learnerID, categoryKey string, rating int) error
	GetAssessments(ctx context.Context, learnerID string) (map[string]domain.AssessmentOutcome, error)
	RecordAssessment(ctx context.Context, learnerID string, a *domain.AssessmentOutcome) error
}

type ProgressRepo interface {
	CompletedModules(ctx context.Context, learnerID string) (map[string]bool, error)
	MarkModuleComplete(ctx context.Context, learnerID, moduleID string) error
	CompletedMilestones(ctx context.Context, learnerID string) (map[string]bool, error)
	MarkMilestoneComplete(ctx context.Context, learnerID, milestoneID string) error
}

type AdjustmentRepo interface {
	ListByLearner(ctx context.Context, learnerID string) ([]domain.Adjustment, error)
	Create(ctx context.Context, a *domain.Adjustment) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

type ScheduleRepo interface {
	Get(ctx context.Context, learnerID string) (*domain.Schedule, error)
	Replace(ctx context.Context, s *domain.Schedule) error
	MarkStale(ctx context.Context, learnerID string, stale bool) error
	UpdateRotation(ctx context.Context, learnerID, categoryKey string) error
	UpdateItemStatus(ctx context.Context, learnerID, unitID string, status domain.ItemStatus) error
	AppendRationale(ctx context.Context, learnerID string, e *domain.RationaleEntry) error
	ListRationale(ctx context.Context, learnerID string, limit int) ([]domain.RationaleEntry, error)
}

type StateRepo interface {
	DeferralState(ctx context.Context, learnerID string) (map[string]domain.DeferralState, error)
	BumpDeferral(ctx context.Context, learnerID, categoryKey string, deferredDays int) error
	ResetDeferral(ctx context.Context, learnerID, categoryKey string) error
}

type ProfileRepo interface {
	Get(ctx context.Context) (*domain.PlannerProfile, error)
	Upsert(ctx context.Context, p *domain.PlannerProfile) error
}
