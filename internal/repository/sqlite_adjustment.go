package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
)

// SQLiteAdjustmentRepo implements AdjustmentRepo using a SQLite database.
type SQLiteAdjustmentRepo struct {
	db db.DBTX
}

// NewSQLiteAdjustmentRepo creates a new SQLiteAdjustmentRepo.
func NewSQLiteAdjustmentRepo(conn db.DBTX) *SQLiteAdjustmentRepo {
	return &SQLiteAdjustmentRepo{db: conn}
}

func (r *SQLiteAdjustmentRepo) ListByLearner(ctx context.Context, learnerID string) ([]domain.Adjustment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, learner_id, unit_id, target_day, delta_days, reason, created_at
		FROM adjustments WHERE learner_id = ? ORDER BY created_at, id`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing adjustments: %w", err)
	}
	defer rows.Close()

	var out []domain.Adjustment
	for rows.Next() {
		var a domain.Adjustment
		var targetDay, deltaDays sql.NullInt64
		var createdAt string
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.UnitID, &targetDay, &deltaDays, &a.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning adjustment: %w", err)
		}
		a.TargetDay = nullableIntFromSQL(targetDay)
		a.DeltaDays = nullableIntFromSQL(deltaDays)
		a.CreatedAt = parseTime(createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteAdjustmentRepo) Create(ctx context.Context, a *domain.Adjustment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO adjustments (id, learner_id, unit_id, target_day, delta_days, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.LearnerID, a.UnitID,
		nullableIntToValue(a.TargetDay), nullableIntToValue(a.DeltaDays),
		a.Reason, formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting adjustment: %w", err)
	}
	return nil
}

func (r *SQLiteAdjustmentRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM adjustments WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("deleting adjustments: %w", err)
	}
	return nil
}
