package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/studyloop/studyloop/internal/db"
)

// SQLiteProgressRepo implements ProgressRepo using a SQLite database.
type SQLiteProgressRepo struct {
	db db.DBTX
}

// NewSQLiteProgressRepo creates a new SQLiteProgressRepo.
func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

func (r *SQLiteProgressRepo) CompletedModules(ctx context.Context, learnerID string) (map[string]bool, error) {
	return r.completedSet(ctx,
		`SELECT module_id FROM module_completions WHERE learner_id = ?`, learnerID)
}

func (r *SQLiteProgressRepo) MarkModuleComplete(ctx context.Context, learnerID, moduleID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO module_completions (learner_id, module_id, completed_at)
		VALUES (?, ?, ?)`,
		learnerID, moduleID, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("marking module %s complete: %w", moduleID, err)
	}
	return nil
}

func (r *SQLiteProgressRepo) CompletedMilestones(ctx context.Context, learnerID string) (map[string]bool, error) {
	return r.completedSet(ctx,
		`SELECT milestone_id FROM milestone_completions WHERE learner_id = ?`, learnerID)
}

func (r *SQLiteProgressRepo) MarkMilestoneComplete(ctx context.Context, learnerID, milestoneID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO milestone_completions (learner_id, milestone_id, completed_at)
		VALUES (?, ?, ?)`,
		learnerID, milestoneID, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("marking milestone %s complete: %w", milestoneID, err)
	}
	return nil
}

func (r *SQLiteProgressRepo) completedSet(ctx context.Context, query, learnerID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}
