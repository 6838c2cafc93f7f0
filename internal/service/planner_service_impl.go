package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/studyloop/studyloop/internal/repository"
	"github.com/studyloop/studyloop/internal/sequencer"
)

type plannerService struct {
	schedules repository.ScheduleRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver

	// Concurrent Plan calls for the same learner collapse into one
	// generation; the result is shared.
	flight singleflight.Group
}

// NewPlannerService wires the planning use cases over a read repo for
// windowed access and a unit of work for regeneration.
func NewPlannerService(schedules repository.ScheduleRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PlannerService {
	return &plannerService{
		schedules: schedules,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *plannerService) Plan(ctx context.Context, req contract.PlanRequest) (*contract.PlanResponse, error) {
	started := time.Now()
	if req.LearnerID == "" {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "learner id is required"}
	}

	v, err, _ := s.flight.Do(req.LearnerID, func() (any, error) {
		return s.plan(ctx, req)
	})
	observe(ctx, s.observer, "planner.plan", started, err, map[string]any{"learner_id": req.LearnerID})
	if err != nil {
		return nil, err
	}
	return v.(*contract.PlanResponse), nil
}

func (s *plannerService) plan(ctx context.Context, req contract.PlanRequest) (*contract.PlanResponse, error) {
	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	var resp *contract.PlanResponse
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		in, stored, err := loadInputs(ctx, tx, req.LearnerID, now)
		if err != nil {
			return err
		}

		schedules := repository.NewSQLiteScheduleRepo(tx)

		result, genErr := sequencer.Generate(*in)
		if genErr != nil {
			// A schedule survives bad inputs: it is marked stale and
			// served until regeneration succeeds again.
			var planErr *contract.PlanError
			if stored != nil && errors.As(genErr, &planErr) {
				if err := schedules.MarkStale(ctx, req.LearnerID, true); err != nil {
					return err
				}
				stored.Stale = true
				resp = &contract.PlanResponse{
					Schedule: stored,
					Status:   domain.PlanFailedStale,
					Warnings: []domain.Warning{{
						Code:    contract.WarnStaleSchedule,
						Message: "regeneration failed, serving the previous schedule: " + planErr.Message,
					}},
				}
				return nil
			}
			return genErr
		}

		if stored != nil && sequencer.Unchanged(stored, result.Schedule) {
			if stored.Stale {
				if err := schedules.MarkStale(ctx, req.LearnerID, false); err != nil {
					return err
				}
				stored.Stale = false
			}
			resp = &contract.PlanResponse{
				Schedule: stored,
				Status:   domain.PlanUnchanged,
				Warnings: result.Schedule.Warnings,
			}
			return nil
		}

		if err := schedules.Replace(ctx, result.Schedule); err != nil {
			return err
		}
		if err := repository.NewSQLiteAdjustmentRepo(tx).DeleteByIDs(ctx, result.PrunedAdjustment); err != nil {
			return err
		}
		if err := schedules.AppendRationale(ctx, req.LearnerID, &domain.RationaleEntry{
			ID:        uuid.New().String(),
			CreatedAt: now,
			Summary:   result.Summary,
		}); err != nil {
			return err
		}

		status := domain.PlanRegenerated
		if stored == nil {
			status = domain.PlanCreated
		}
		resp = &contract.PlanResponse{
			Schedule: result.Schedule,
			Status:   status,
			Warnings: result.Schedule.Warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// loadInputs gathers the full regeneration state inside one transaction.
func loadInputs(ctx context.Context, tx db.DBTX, learnerID string, now time.Time) (*sequencer.Inputs, *domain.Schedule, error) {
	catalog, err := repository.NewSQLiteCatalogRepo(tx).Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	profile, err := repository.NewSQLiteProfileRepo(tx).Get(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	ratings := repository.NewSQLiteRatingRepo(tx)
	ratingMap, err := ratings.GetRatings(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}
	assessments, err := ratings.GetAssessments(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}

	progress := repository.NewSQLiteProgressRepo(tx)
	completedModules, err := progress.CompletedModules(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}
	completedMilestones, err := progress.CompletedMilestones(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}

	deferrals, err := repository.NewSQLiteStateRepo(tx).DeferralState(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}
	adjustments, err := repository.NewSQLiteAdjustmentRepo(tx).ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, nil, err
	}

	stored, err := repository.NewSQLiteScheduleRepo(tx).Get(ctx, learnerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, err
		}
		stored = nil
	}

	in := &sequencer.Inputs{
		LearnerID:          learnerID,
		Now:                now,
		Categories:         catalog.Categories,
		Modules:            catalog.Modules,
		Milestones:         catalog.Milestones,
		Ratings:            ratingMap,
		Assessments:        assessments,
		Deferrals:          deferrals,
		CompletedModules:   completedModules,
		MilestonesComplete: completedMilestones,
		ItemStatuses:       map[string]domain.ItemStatus{},
		Adjustments:        adjustments,
		Config:             sequencer.ConfigFromProfile(profile),
	}
	if stored != nil {
		in.Rotation = stored.Rotation
		for _, it := range stored.Items {
			in.ItemStatuses[it.UnitID] = it.Status
		}
	}
	return in, stored, nil
}

func (s *plannerService) Slice(ctx context.Context, req contract.SliceRequest) (*contract.SliceResponse, error) {
	started := time.Now()
	resp, err := s.slice(ctx, req)
	observe(ctx, s.observer, "planner.slice", started, err, map[string]any{
		"learner_id": req.LearnerID,
		"start_day":  req.StartDay,
	})
	return resp, err
}

func (s *plannerService) slice(ctx context.Context, req contract.SliceRequest) (*contract.SliceResponse, error) {
	if req.LearnerID == "" {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "learner id is required"}
	}
	startDay := req.StartDay
	if startDay < 0 {
		startDay = 0
	}
	daySpan := req.DaySpan
	if daySpan <= 0 {
		daySpan = 7
	}

	sched, err := s.schedules.Get(ctx, req.LearnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &contract.PlanError{
				Code:    contract.ErrNoSchedule,
				Message: "no schedule exists for this learner, run plan first",
			}
		}
		return nil, err
	}

	var items []domain.ScheduledItem
	hasMore := false
	for _, it := range sched.Items {
		switch {
		case it.DayOffset < startDay:
		case it.DayOffset < startDay+daySpan:
			items = append(items, it)
		default:
			hasMore = true
		}
	}

	return &contract.SliceResponse{
		Items: items,
		Meta: domain.SliceMeta{
			StartDay:     startDay,
			DaySpan:      daySpan,
			TotalItems:   len(sched.Items),
			HasMore:      hasMore,
			NextStartDay: startDay + daySpan,
		},
		Stale: sched.Stale,
	}, nil
}

func (s *plannerService) History(ctx context.Context, learnerID string, limit int) ([]domain.RationaleEntry, error) {
	started := time.Now()
	entries, err := s.schedules.ListRationale(ctx, learnerID, limit)
	observe(ctx, s.observer, "planner.history", started, err, map[string]any{"learner_id": learnerID})
	return entries, err
}

func (s *plannerService) ApplyAdjustment(ctx context.Context, req contract.AdjustRequest) (*contract.PlanResponse, error) {
	started := time.Now()
	resp, err := s.applyAdjustment(ctx, req)
	observe(ctx, s.observer, "planner.apply_adjustment", started, err, map[string]any{
		"learner_id": req.LearnerID,
		"unit_id":    req.UnitID,
	})
	return resp, err
}

func (s *plannerService) applyAdjustment(ctx context.Context, req contract.AdjustRequest) (*contract.PlanResponse, error) {
	if req.LearnerID == "" || req.UnitID == "" {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "learner id and unit id are required"}
	}
	if (req.TargetDay == nil) == (req.DeltaDays == nil) {
		return nil, &contract.PlanError{
			Code:    contract.ErrInvalidRequest,
			Message: "exactly one of target day or delta days must be set",
		}
	}
	if req.TargetDay != nil && *req.TargetDay < 0 {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "target day cannot be negative"}
	}

	now := time.Now().UTC()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sched, err := repository.NewSQLiteScheduleRepo(tx).Get(ctx, req.LearnerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &contract.PlanError{
					Code:    contract.ErrNoSchedule,
					Message: "no schedule exists for this learner, run plan first",
				}
			}
			return err
		}

		item := sched.ItemByUnitID(req.UnitID)
		if item == nil {
			return &contract.PlanError{
				Code:    contract.ErrUnknownItem,
				Message: "unit " + req.UnitID + " is not on the schedule",
			}
		}
		if item.Status == domain.ItemCompleted {
			return &contract.PlanError{
				Code:    contract.ErrInvalidRequest,
				Message: "unit " + req.UnitID + " is already completed",
			}
		}

		target := item.DayOffset
		if req.TargetDay != nil {
			target = *req.TargetDay
		} else {
			target += *req.DeltaDays
		}
		if target < 0 {
			target = 0
		}

		// Moving content later is a deferral; the pressure feeds back
		// into the next priority pass.
		if target > item.DayOffset {
			states := repository.NewSQLiteStateRepo(tx)
			if err := states.BumpDeferral(ctx, req.LearnerID, item.CategoryKey, target-item.DayOffset); err != nil {
				return err
			}
		}

		return repository.NewSQLiteAdjustmentRepo(tx).Create(ctx, &domain.Adjustment{
			ID:        uuid.New().String(),
			LearnerID: req.LearnerID,
			UnitID:    req.UnitID,
			TargetDay: req.TargetDay,
			DeltaDays: req.DeltaDays,
			Reason:    req.Reason,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.Plan(ctx, contract.PlanRequest{LearnerID: req.LearnerID, Now: &now})
}
