package service

import (
	"context"
	"errors"
	"time"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/studyloop/studyloop/internal/repository"
	"github.com/studyloop/studyloop/internal/sequencer"
)

type progressService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressService(uow db.UnitOfWork, observers ...UseCaseObserver) ProgressService {
	return &progressService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *progressService) CompleteItem(ctx context.Context, learnerID, unitID string) (*domain.ScheduledItem, error) {
	started := time.Now()
	item, err := s.completeItem(ctx, learnerID, unitID)
	observe(ctx, s.observer, "progress.complete_item", started, err, map[string]any{
		"learner_id": learnerID,
		"unit_id":    unitID,
	})
	return item, err
}

func (s *progressService) completeItem(ctx context.Context, learnerID, unitID string) (*domain.ScheduledItem, error) {
	if learnerID == "" || unitID == "" {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "learner id and unit id are required"}
	}

	var completed *domain.ScheduledItem
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		schedules := repository.NewSQLiteScheduleRepo(tx)
		sched, err := schedules.Get(ctx, learnerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &contract.PlanError{
					Code:    contract.ErrNoSchedule,
					Message: "no schedule exists for this learner, run plan first",
				}
			}
			return err
		}

		item := sched.ItemByUnitID(unitID)
		if item == nil {
			return &contract.PlanError{
				Code:    contract.ErrUnknownItem,
				Message: "unit " + unitID + " is not on the schedule",
			}
		}
		if item.Status == domain.ItemCompleted {
			completed = item
			return nil
		}

		if err := schedules.UpdateItemStatus(ctx, learnerID, unitID, domain.ItemCompleted); err != nil {
			return err
		}
		item.Status = domain.ItemCompleted

		if sequencer.IsReviewUnit(unitID) {
			// Finishing a review hands the next refresher slot to the
			// following category in the rotation.
			if err := schedules.UpdateRotation(ctx, learnerID, item.CategoryKey); err != nil {
				return err
			}
		}

		progress := repository.NewSQLiteProgressRepo(tx)
		if item.Kind == domain.ItemMilestone {
			if err := progress.MarkMilestoneComplete(ctx, learnerID, unitID); err != nil {
				return err
			}
		} else if !sequencer.IsReviewUnit(unitID) && allPartsCompleted(sched, item.ModuleID) {
			// A split module counts as finished only once every part on
			// the schedule is done.
			if err := progress.MarkModuleComplete(ctx, learnerID, item.ModuleID); err != nil {
				return err
			}
		}

		completed = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// allPartsCompleted checks the first-pass parts of a module on the
// schedule. Reviews of the same module do not count against completion.
func allPartsCompleted(sched *domain.Schedule, moduleID string) bool {
	for i := range sched.Items {
		it := &sched.Items[i]
		if it.ModuleID != moduleID || it.Kind == domain.ItemMilestone || sequencer.IsReviewUnit(it.UnitID) {
			continue
		}
		if it.Status != domain.ItemCompleted {
			return false
		}
	}
	return true
}
