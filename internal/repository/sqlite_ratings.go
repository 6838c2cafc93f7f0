package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
)

// SQLiteRatingRepo implements RatingRepo using a SQLite database.
type SQLiteRatingRepo struct {
	db db.DBTX
}

// NewSQLiteRatingRepo creates a new SQLiteRatingRepo.
func NewSQLiteRatingRepo(conn db.DBTX) *SQLiteRatingRepo {
	return &SQLiteRatingRepo{db: conn}
}

func (r *SQLiteRatingRepo) GetRatings(ctx context.Context, learnerID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_key, rating FROM ratings WHERE learner_id = ?`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]int)
	for rows.Next() {
		var key string
		var rating int
		if err := rows.Scan(&key, &rating); err != nil {
			return nil, fmt.Errorf("scanning rating: %w", err)
		}
		ratings[key] = rating
	}
	return ratings, rows.Err()
}

func (r *SQLiteRatingRepo) SetRating(ctx context.Context, learnerID, categoryKey string, rating int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (learner_id, category_key, rating, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(learner_id, category_key) DO UPDATE
		SET rating = excluded.rating, updated_at = excluded.updated_at`,
		learnerID, categoryKey, rating, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("upserting rating for %s: %w", categoryKey, err)
	}
	return nil
}

func (r *SQLiteRatingRepo) GetAssessments(ctx context.Context, learnerID string) (map[string]domain.AssessmentOutcome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_key, avg_score, rating_delta, recorded_at
		FROM assessment_outcomes WHERE learner_id = ?`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing assessment outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := make(map[string]domain.AssessmentOutcome)
	for rows.Next() {
		var a domain.AssessmentOutcome
		var recordedAt string
		if err := rows.Scan(&a.CategoryKey, &a.AvgScore, &a.RatingDelta, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning assessment outcome: %w", err)
		}
		a.RecordedAt = parseTime(recordedAt)
		outcomes[a.CategoryKey] = a
	}
	return outcomes, rows.Err()
}

func (r *SQLiteRatingRepo) RecordAssessment(ctx context.Context, learnerID string, a *domain.AssessmentOutcome) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assessment_outcomes (learner_id, category_key, avg_score, rating_delta, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(learner_id, category_key) DO UPDATE
		SET avg_score = excluded.avg_score,
		    rating_delta = excluded.rating_delta,
		    recorded_at = excluded.recorded_at`,
		learnerID, a.CategoryKey, a.AvgScore, a.RatingDelta, formatTime(a.RecordedAt))
	if err != nil {
		return fmt.Errorf("recording assessment for %s: %w", a.CategoryKey, err)
	}
	return nil
}
