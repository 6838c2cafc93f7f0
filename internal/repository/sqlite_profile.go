package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
)

// SQLiteProfileRepo implements ProfileRepo using a SQLite database.
type SQLiteProfileRepo struct {
	db db.DBTX
}

// NewSQLiteProfileRepo creates a new SQLiteProfileRepo.
func NewSQLiteProfileRepo(conn db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: conn}
}

func (r *SQLiteProfileRepo) Get(ctx context.Context) (*domain.PlannerProfile, error) {
	query := `SELECT id, session_cap_min, sessions_per_week, daily_budget_min, streak_cap,
		coverage_weeks, coverage_min_cats, horizon_days, refresher_every_day,
		refresher_gap_days, weekly_budget_min, weight_gap, weight_assessment,
		weight_mastery, mastery_margin
		FROM planner_profile WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var p domain.PlannerProfile
	err := row.Scan(
		&p.ID,
		&p.SessionCapMin,
		&p.SessionsPerWeek,
		&p.DailyBudgetMin,
		&p.StreakCap,
		&p.CoverageWeeks,
		&p.CoverageMinCats,
		&p.HorizonDays,
		&p.RefresherEveryDay,
		&p.RefresherGapDays,
		&p.WeeklyBudgetMin,
		&p.WeightGap,
		&p.WeightAssessment,
		&p.WeightMastery,
		&p.MasteryMargin,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("planner profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning planner profile: %w", err)
	}
	return &p, nil
}

func (r *SQLiteProfileRepo) Upsert(ctx context.Context, p *domain.PlannerProfile) error {
	query := `INSERT OR REPLACE INTO planner_profile (id, session_cap_min, sessions_per_week,
		daily_budget_min, streak_cap, coverage_weeks, coverage_min_cats, horizon_days,
		refresher_every_day, refresher_gap_days, weekly_budget_min,
		weight_gap, weight_assessment, weight_mastery, mastery_margin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.SessionCapMin,
		p.SessionsPerWeek,
		p.DailyBudgetMin,
		p.StreakCap,
		p.CoverageWeeks,
		p.CoverageMinCats,
		p.HorizonDays,
		p.RefresherEveryDay,
		p.RefresherGapDays,
		p.WeeklyBudgetMin,
		p.WeightGap,
		p.WeightAssessment,
		p.WeightMastery,
		p.MasteryMargin,
	)
	if err != nil {
		return fmt.Errorf("upserting planner profile: %w", err)
	}
	return nil
}
