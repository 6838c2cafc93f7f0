package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
)

// scheduleItemColumns is the canonical SELECT column list for schedule_items.
const scheduleItemColumns = `unit_id, module_id, part_index, kind, category_key, title,
		minutes, day_offset, effort, user_adjusted, status, locked_reason, brief_ref`

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) Get(ctx context.Context, learnerID string) (*domain.Schedule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT learner_id, generated_at, horizon_days, stale, rotation_last_category
		FROM schedules WHERE learner_id = ?`, learnerID)

	var s domain.Schedule
	var generatedAt string
	var stale int
	if err := row.Scan(&s.LearnerID, &generatedAt, &s.HorizonDays, &stale, &s.Rotation.LastCategoryKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("schedule for %s: %w", learnerID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	s.GeneratedAt = parseTime(generatedAt)
	s.Stale = intToBool(stale)

	var err error
	if s.Items, err = r.loadItems(ctx, learnerID); err != nil {
		return nil, err
	}
	if s.Pacing, err = r.loadPacing(ctx, learnerID); err != nil {
		return nil, err
	}
	if s.Rationale, err = r.ListRationale(ctx, learnerID, 0); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteScheduleRepo) loadItems(ctx context.Context, learnerID string) ([]domain.ScheduledItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scheduleItemColumns+` FROM schedule_items
		WHERE learner_id = ? ORDER BY position`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule items: %w", err)
	}
	defer rows.Close()

	var items []domain.ScheduledItem
	index := make(map[string]int)
	for rows.Next() {
		var it domain.ScheduledItem
		var kind, effort, status string
		var userAdjusted int
		var lockedReason sql.NullString
		if err := rows.Scan(&it.UnitID, &it.ModuleID, &it.PartIndex, &kind, &it.CategoryKey,
			&it.Title, &it.Minutes, &it.DayOffset, &effort, &userAdjusted,
			&status, &lockedReason, &it.BriefRef); err != nil {
			return nil, fmt.Errorf("scanning schedule item: %w", err)
		}
		it.Kind = domain.ItemKind(kind)
		it.Effort = domain.EffortLevel(effort)
		it.Status = domain.ItemStatus(status)
		it.UserAdjusted = intToBool(userAdjusted)
		it.LockedReason = nullableStringFromSQL(lockedReason)
		index[it.UnitID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule items: %w", err)
	}

	reqRows, err := r.db.QueryContext(ctx,
		`SELECT unit_id, category_key, min_rating FROM schedule_item_requirements
		WHERE learner_id = ? ORDER BY unit_id, category_key`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing item requirements: %w", err)
	}
	defer reqRows.Close()
	for reqRows.Next() {
		var unitID string
		var req domain.RatingRequirement
		if err := reqRows.Scan(&unitID, &req.CategoryKey, &req.MinRating); err != nil {
			return nil, fmt.Errorf("scanning item requirement: %w", err)
		}
		if i, ok := index[unitID]; ok {
			items[i].Requirements = append(items[i].Requirements, req)
		}
	}
	return items, reqRows.Err()
}

func (r *SQLiteScheduleRepo) loadPacing(ctx context.Context, learnerID string) ([]domain.PacingAllocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_key, planned_min, target_share, pressure, deferral_count, max_deferral_days
		FROM pacing_allocations WHERE learner_id = ? ORDER BY category_key`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing pacing allocations: %w", err)
	}
	defer rows.Close()

	var pacing []domain.PacingAllocation
	for rows.Next() {
		var p domain.PacingAllocation
		var pressure string
		if err := rows.Scan(&p.CategoryKey, &p.PlannedMin, &p.TargetShare,
			&pressure, &p.DeferralCount, &p.MaxDeferralDays); err != nil {
			return nil, fmt.Errorf("scanning pacing allocation: %w", err)
		}
		p.Pressure = domain.DeferralPressure(pressure)
		pacing = append(pacing, p)
	}
	return pacing, rows.Err()
}

// Replace swaps the stored schedule wholesale. Rationale entries are
// append-only and written separately via AppendRationale.
func (r *SQLiteScheduleRepo) Replace(ctx context.Context, s *domain.Schedule) error {
	// Items, requirements, and pacing rows cascade with the schedule row.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM schedules WHERE learner_id = ?`, s.LearnerID); err != nil {
		return fmt.Errorf("clearing old schedule: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO schedules (learner_id, generated_at, horizon_days, stale, rotation_last_category)
		VALUES (?, ?, ?, ?, ?)`,
		s.LearnerID, formatTime(s.GeneratedAt), s.HorizonDays,
		boolToInt(s.Stale), s.Rotation.LastCategoryKey); err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}

	for i, it := range s.Items {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO schedule_items (learner_id, `+scheduleItemColumns+`, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.LearnerID, it.UnitID, it.ModuleID, it.PartIndex, string(it.Kind),
			it.CategoryKey, it.Title, it.Minutes, it.DayOffset, string(it.Effort),
			boolToInt(it.UserAdjusted), string(it.Status),
			nullableStringToValue(it.LockedReason), it.BriefRef, i); err != nil {
			return fmt.Errorf("inserting schedule item %s: %w", it.UnitID, err)
		}
		for _, req := range it.Requirements {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO schedule_item_requirements (learner_id, unit_id, category_key, min_rating)
				VALUES (?, ?, ?, ?)`,
				s.LearnerID, it.UnitID, req.CategoryKey, req.MinRating); err != nil {
				return fmt.Errorf("inserting requirement for %s: %w", it.UnitID, err)
			}
		}
	}

	for _, p := range s.Pacing {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO pacing_allocations (learner_id, category_key, planned_min, target_share,
			pressure, deferral_count, max_deferral_days)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.LearnerID, p.CategoryKey, p.PlannedMin, p.TargetShare,
			string(p.Pressure), p.DeferralCount, p.MaxDeferralDays); err != nil {
			return fmt.Errorf("inserting pacing allocation for %s: %w", p.CategoryKey, err)
		}
	}
	return nil
}

func (r *SQLiteScheduleRepo) MarkStale(ctx context.Context, learnerID string, stale bool) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET stale = ? WHERE learner_id = ?`,
		boolToInt(stale), learnerID); err != nil {
		return fmt.Errorf("marking schedule stale: %w", err)
	}
	return nil
}

// UpdateRotation advances the refresher rotation pointer. Called when a
// review item completes; regeneration resumes the cycle after this key.
func (r *SQLiteScheduleRepo) UpdateRotation(ctx context.Context, learnerID, categoryKey string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET rotation_last_category = ? WHERE learner_id = ?`,
		categoryKey, learnerID); err != nil {
		return fmt.Errorf("updating rotation pointer: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) UpdateItemStatus(ctx context.Context, learnerID, unitID string, status domain.ItemStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_items SET status = ? WHERE learner_id = ? AND unit_id = ?`,
		string(status), learnerID, unitID)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking item status update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("schedule item %s: %w", unitID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteScheduleRepo) AppendRationale(ctx context.Context, learnerID string, e *domain.RationaleEntry) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO rationale_entries (id, learner_id, created_at, summary)
		VALUES (?, ?, ?, ?)`,
		e.ID, learnerID, formatTime(e.CreatedAt), e.Summary); err != nil {
		return fmt.Errorf("appending rationale entry: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) ListRationale(ctx context.Context, learnerID string, limit int) ([]domain.RationaleEntry, error) {
	query := `SELECT id, created_at, summary FROM rationale_entries
		WHERE learner_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{learnerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rationale entries: %w", err)
	}
	defer rows.Close()

	var out []domain.RationaleEntry
	for rows.Next() {
		var e domain.RationaleEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &createdAt, &e.Summary); err != nil {
			return nil, fmt.Errorf("scanning rationale entry: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
