package service

import (
	"context"
	"math"
	"time"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/studyloop/studyloop/internal/repository"
)

// assessmentPassScore is the neutral average: scores above it raise the
// rating, scores below lower it.
const assessmentPassScore = 70.0

// assessmentPointsPerDelta converts score distance from the pass mark
// into rating points.
const assessmentPointsPerDelta = 5.0

type ratingService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRatingService(uow db.UnitOfWork, observers ...UseCaseObserver) RatingService {
	return &ratingService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *ratingService) SetRating(ctx context.Context, learnerID, categoryKey string, rating int) error {
	started := time.Now()
	err := s.setRating(ctx, learnerID, categoryKey, rating)
	observe(ctx, s.observer, "rating.set", started, err, map[string]any{
		"learner_id": learnerID,
		"category":   categoryKey,
	})
	return err
}

func (s *ratingService) setRating(ctx context.Context, learnerID, categoryKey string, rating int) error {
	if learnerID == "" || categoryKey == "" {
		return &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "learner id and category key are required"}
	}
	if rating < 0 {
		return &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "rating cannot be negative"}
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := findCategory(ctx, tx, categoryKey); err != nil {
			return err
		}
		return repository.NewSQLiteRatingRepo(tx).SetRating(ctx, learnerID, categoryKey, rating)
	})
}

func (s *ratingService) RecordAssessment(ctx context.Context, learnerID, categoryKey string, avgScore float64) (*domain.AssessmentOutcome, error) {
	started := time.Now()
	outcome, err := s.recordAssessment(ctx, learnerID, categoryKey, avgScore)
	observe(ctx, s.observer, "rating.record_assessment", started, err, map[string]any{
		"learner_id": learnerID,
		"category":   categoryKey,
	})
	return outcome, err
}

func (s *ratingService) recordAssessment(ctx context.Context, learnerID, categoryKey string, avgScore float64) (*domain.AssessmentOutcome, error) {
	if learnerID == "" || categoryKey == "" {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "learner id and category key are required"}
	}
	if avgScore < 0 || avgScore > 100 {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "average score must be between 0 and 100"}
	}

	var outcome *domain.AssessmentOutcome
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cat, err := findCategory(ctx, tx, categoryKey)
		if err != nil {
			return err
		}

		ratings := repository.NewSQLiteRatingRepo(tx)
		current, err := ratings.GetRatings(ctx, learnerID)
		if err != nil {
			return err
		}

		delta := int(math.Round((avgScore - assessmentPassScore) / assessmentPointsPerDelta))
		outcome = &domain.AssessmentOutcome{
			CategoryKey: categoryKey,
			AvgScore:    avgScore,
			RatingDelta: delta,
			RecordedAt:  time.Now().UTC(),
		}
		if err := ratings.RecordAssessment(ctx, learnerID, outcome); err != nil {
			return err
		}

		next := domain.RatingOrStarting(current, cat) + delta
		if next < 0 {
			next = 0
		}
		return ratings.SetRating(ctx, learnerID, categoryKey, next)
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *ratingService) ListRatings(ctx context.Context, learnerID string) ([]RatingView, error) {
	started := time.Now()
	views, err := s.listRatings(ctx, learnerID)
	observe(ctx, s.observer, "rating.list", started, err, map[string]any{"learner_id": learnerID})
	return views, err
}

func (s *ratingService) listRatings(ctx context.Context, learnerID string) ([]RatingView, error) {
	if learnerID == "" {
		return nil, &contract.PlanError{Code: contract.ErrInvalidRequest, Message: "learner id is required"}
	}

	var views []RatingView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		catalog, err := repository.NewSQLiteCatalogRepo(tx).Load(ctx)
		if err != nil {
			return err
		}
		ratings, err := repository.NewSQLiteRatingRepo(tx).GetRatings(ctx, learnerID)
		if err != nil {
			return err
		}

		views = make([]RatingView, 0, len(catalog.Categories))
		for i := range catalog.Categories {
			cat := &catalog.Categories[i]
			r := domain.RatingOrStarting(ratings, cat)
			views = append(views, RatingView{
				Category: *cat,
				Rating:   r,
				Band:     cat.BandLabel(r),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func findCategory(ctx context.Context, tx db.DBTX, key string) (*domain.Category, error) {
	catalog, err := repository.NewSQLiteCatalogRepo(tx).Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range catalog.Categories {
		if catalog.Categories[i].Key == key {
			return &catalog.Categories[i], nil
		}
	}
	return nil, &contract.PlanError{
		Code:    contract.ErrInvalidRequest,
		Message: "unknown category " + key,
	}
}
