package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		key             TEXT PRIMARY KEY,
		label           TEXT NOT NULL,
		weight          REAL NOT NULL DEFAULT 1.0 CHECK(weight >= 0),
		starting_rating INTEGER NOT NULL DEFAULT 0,
		target_rating   INTEGER NOT NULL DEFAULT 0,
		order_index     INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS rubric_bands (
		category_key TEXT NOT NULL REFERENCES categories(key) ON DELETE CASCADE,
		min_rating   INTEGER NOT NULL,
		label        TEXT NOT NULL,
		PRIMARY KEY (category_key, min_rating)
	)`,

	`CREATE TABLE IF NOT EXISTS modules (
		id            TEXT PRIMARY KEY,
		category_key  TEXT NOT NULL REFERENCES categories(key) ON DELETE CASCADE,
		title         TEXT NOT NULL,
		kind          TEXT NOT NULL DEFAULT 'lesson'
		              CHECK(kind IN ('lesson','quiz')),
		estimated_min INTEGER NOT NULL CHECK(estimated_min > 0),
		order_index   INTEGER NOT NULL DEFAULT 0,
		refresher     INTEGER NOT NULL DEFAULT 0,
		objectives    TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_modules_category ON modules(category_key)`,

	`CREATE TABLE IF NOT EXISTS module_prereqs (
		module_id TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		prereq_id TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		PRIMARY KEY (module_id, prereq_id)
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id           TEXT PRIMARY KEY,
		category_key TEXT NOT NULL REFERENCES categories(key) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		brief_ref    TEXT NOT NULL DEFAULT '',
		order_index  INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS milestone_modules (
		milestone_id TEXT NOT NULL REFERENCES milestones(id) ON DELETE CASCADE,
		module_id    TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		PRIMARY KEY (milestone_id, module_id)
	)`,

	`CREATE TABLE IF NOT EXISTS milestone_requirements (
		milestone_id TEXT NOT NULL REFERENCES milestones(id) ON DELETE CASCADE,
		category_key TEXT NOT NULL REFERENCES categories(key) ON DELETE CASCADE,
		min_rating   INTEGER NOT NULL,
		PRIMARY KEY (milestone_id, category_key)
	)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		learner_id   TEXT NOT NULL,
		category_key TEXT NOT NULL REFERENCES categories(key) ON DELETE CASCADE,
		rating       INTEGER NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (learner_id, category_key)
	)`,

	`CREATE TABLE IF NOT EXISTS assessment_outcomes (
		learner_id   TEXT NOT NULL,
		category_key TEXT NOT NULL REFERENCES categories(key) ON DELETE CASCADE,
		avg_score    REAL NOT NULL,
		rating_delta INTEGER NOT NULL DEFAULT 0,
		recorded_at  TEXT NOT NULL,
		PRIMARY KEY (learner_id, category_key)
	)`,

	`CREATE TABLE IF NOT EXISTS module_completions (
		learner_id   TEXT NOT NULL,
		module_id    TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		completed_at TEXT NOT NULL,
		PRIMARY KEY (learner_id, module_id)
	)`,

	`CREATE TABLE IF NOT EXISTS milestone_completions (
		learner_id   TEXT NOT NULL,
		milestone_id TEXT NOT NULL REFERENCES milestones(id) ON DELETE CASCADE,
		completed_at TEXT NOT NULL,
		PRIMARY KEY (learner_id, milestone_id)
	)`,

	`CREATE TABLE IF NOT EXISTS adjustments (
		id         TEXT PRIMARY KEY,
		learner_id TEXT NOT NULL,
		unit_id    TEXT NOT NULL,
		target_day INTEGER,
		delta_days INTEGER,
		reason     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_adjustments_learner ON adjustments(learner_id)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		learner_id             TEXT PRIMARY KEY,
		generated_at           TEXT NOT NULL,
		horizon_days           INTEGER NOT NULL,
		stale                  INTEGER NOT NULL DEFAULT 0,
		rotation_last_category TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_items (
		learner_id    TEXT NOT NULL REFERENCES schedules(learner_id) ON DELETE CASCADE,
		unit_id       TEXT NOT NULL,
		module_id     TEXT NOT NULL DEFAULT '',
		part_index    INTEGER NOT NULL DEFAULT 0,
		kind          TEXT NOT NULL
		              CHECK(kind IN ('lesson','quiz','milestone')),
		category_key  TEXT NOT NULL,
		title         TEXT NOT NULL,
		minutes       INTEGER NOT NULL,
		day_offset    INTEGER NOT NULL,
		effort        TEXT NOT NULL,
		user_adjusted INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL DEFAULT 'pending'
		              CHECK(status IN ('pending','in_progress','completed')),
		locked_reason TEXT,
		brief_ref     TEXT NOT NULL DEFAULT '',
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (learner_id, unit_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedule_items_day ON schedule_items(learner_id, day_offset)`,

	`CREATE TABLE IF NOT EXISTS schedule_item_requirements (
		learner_id   TEXT NOT NULL,
		unit_id      TEXT NOT NULL,
		category_key TEXT NOT NULL,
		min_rating   INTEGER NOT NULL,
		PRIMARY KEY (learner_id, unit_id, category_key),
		FOREIGN KEY (learner_id, unit_id)
			REFERENCES schedule_items(learner_id, unit_id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS pacing_allocations (
		learner_id        TEXT NOT NULL REFERENCES schedules(learner_id) ON DELETE CASCADE,
		category_key      TEXT NOT NULL,
		planned_min       INTEGER NOT NULL DEFAULT 0,
		target_share      REAL NOT NULL DEFAULT 0,
		pressure          TEXT NOT NULL DEFAULT 'low',
		deferral_count    INTEGER NOT NULL DEFAULT 0,
		max_deferral_days INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (learner_id, category_key)
	)`,

	`CREATE TABLE IF NOT EXISTS rationale_entries (
		id         TEXT PRIMARY KEY,
		learner_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		summary    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_rationale_learner ON rationale_entries(learner_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS deferral_state (
		learner_id        TEXT NOT NULL,
		category_key      TEXT NOT NULL,
		deferral_count    INTEGER NOT NULL DEFAULT 0,
		max_deferral_days INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (learner_id, category_key)
	)`,

	`CREATE TABLE IF NOT EXISTS planner_profile (
		id                  TEXT PRIMARY KEY DEFAULT 'default',
		session_cap_min     INTEGER NOT NULL DEFAULT 120,
		sessions_per_week   INTEGER NOT NULL DEFAULT 5,
		daily_budget_min    INTEGER NOT NULL DEFAULT 120,
		streak_cap          INTEGER NOT NULL DEFAULT 3,
		coverage_weeks      INTEGER NOT NULL DEFAULT 6,
		coverage_min_cats   INTEGER NOT NULL DEFAULT 3,
		horizon_days        INTEGER NOT NULL DEFAULT 120,
		refresher_every_day INTEGER NOT NULL DEFAULT 7,
		refresher_gap_days  INTEGER NOT NULL DEFAULT 14,
		weekly_budget_min   INTEGER NOT NULL DEFAULT 600,
		weight_gap          REAL NOT NULL DEFAULT 1.0,
		weight_assessment   REAL NOT NULL DEFAULT 0.6,
		weight_mastery      REAL NOT NULL DEFAULT 0.4,
		mastery_margin      INTEGER NOT NULL DEFAULT 50
	)`,

	// Seed default planner profile
	`INSERT OR IGNORE INTO planner_profile (id) VALUES ('default')`,
}
