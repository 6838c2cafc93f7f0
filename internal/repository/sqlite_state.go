package repository

import (
	"context"
	"fmt"

	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
)

// SQLiteStateRepo implements StateRepo using a SQLite database.
type SQLiteStateRepo struct {
	db db.DBTX
}

// NewSQLiteStateRepo creates a new SQLiteStateRepo.
func NewSQLiteStateRepo(conn db.DBTX) *SQLiteStateRepo {
	return &SQLiteStateRepo{db: conn}
}

func (r *SQLiteStateRepo) DeferralState(ctx context.Context, learnerID string) (map[string]domain.DeferralState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_key, deferral_count, max_deferral_days
		FROM deferral_state WHERE learner_id = ?`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing deferral state: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.DeferralState)
	for rows.Next() {
		var d domain.DeferralState
		if err := rows.Scan(&d.CategoryKey, &d.DeferralCount, &d.MaxDeferralDays); err != nil {
			return nil, fmt.Errorf("scanning deferral state: %w", err)
		}
		out[d.CategoryKey] = d
	}
	return out, rows.Err()
}

// BumpDeferral increments the category's deferral count and raises the
// maximum deferred distance when this deferral pushed further.
func (r *SQLiteStateRepo) BumpDeferral(ctx context.Context, learnerID, categoryKey string, deferredDays int) error {
	if deferredDays < 0 {
		deferredDays = 0
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deferral_state (learner_id, category_key, deferral_count, max_deferral_days)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(learner_id, category_key) DO UPDATE
		SET deferral_count = deferral_count + 1,
		    max_deferral_days = MAX(max_deferral_days, excluded.max_deferral_days)`,
		learnerID, categoryKey, deferredDays)
	if err != nil {
		return fmt.Errorf("bumping deferral for %s: %w", categoryKey, err)
	}
	return nil
}

func (r *SQLiteStateRepo) ResetDeferral(ctx context.Context, learnerID, categoryKey string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM deferral_state WHERE learner_id = ? AND category_key = ?`,
		learnerID, categoryKey); err != nil {
		return fmt.Errorf("resetting deferral for %s: %w", categoryKey, err)
	}
	return nil
}
