package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/studyloop/studyloop/internal/db"
	"github.com/studyloop/studyloop/internal/domain"
)

// moduleColumns is the canonical SELECT column list for modules.
const moduleColumns = `id, category_key, title, kind, estimated_min, order_index, refresher, objectives`

// SQLiteCatalogRepo implements CatalogRepo using a SQLite database.
type SQLiteCatalogRepo struct {
	db db.DBTX
}

// NewSQLiteCatalogRepo creates a new SQLiteCatalogRepo.
func NewSQLiteCatalogRepo(conn db.DBTX) *SQLiteCatalogRepo {
	return &SQLiteCatalogRepo{db: conn}
}

func (r *SQLiteCatalogRepo) Load(ctx context.Context) (*Catalog, error) {
	c := &Catalog{}

	var err error
	if c.Categories, err = r.loadCategories(ctx); err != nil {
		return nil, err
	}
	if c.Modules, err = r.loadModules(ctx); err != nil {
		return nil, err
	}
	if c.Milestones, err = r.loadMilestones(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCatalogRepo) loadCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, label, weight, starting_rating, target_rating FROM categories ORDER BY order_index, key`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Key, &c.Label, &c.Weight, &c.StartingRating, &c.TargetRating); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	for i := range cats {
		bands, err := r.loadBands(ctx, cats[i].Key)
		if err != nil {
			return nil, err
		}
		cats[i].Bands = bands
	}
	return cats, nil
}

func (r *SQLiteCatalogRepo) loadBands(ctx context.Context, categoryKey string) ([]domain.RubricBand, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT min_rating, label FROM rubric_bands WHERE category_key = ? ORDER BY min_rating`, categoryKey)
	if err != nil {
		return nil, fmt.Errorf("listing rubric bands: %w", err)
	}
	defer rows.Close()

	var bands []domain.RubricBand
	for rows.Next() {
		var b domain.RubricBand
		if err := rows.Scan(&b.MinRating, &b.Label); err != nil {
			return nil, fmt.Errorf("scanning rubric band: %w", err)
		}
		bands = append(bands, b)
	}
	return bands, rows.Err()
}

func (r *SQLiteCatalogRepo) loadModules(ctx context.Context) ([]domain.Module, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+moduleColumns+` FROM modules ORDER BY order_index, id`)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	defer rows.Close()

	var modules []domain.Module
	index := make(map[string]int)
	for rows.Next() {
		m, err := scanModule(rows.Scan)
		if err != nil {
			return nil, err
		}
		index[m.ID] = len(modules)
		modules = append(modules, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modules: %w", err)
	}

	prereqRows, err := r.db.QueryContext(ctx,
		`SELECT module_id, prereq_id FROM module_prereqs ORDER BY module_id, prereq_id`)
	if err != nil {
		return nil, fmt.Errorf("listing module prerequisites: %w", err)
	}
	defer prereqRows.Close()
	for prereqRows.Next() {
		var moduleID, prereqID string
		if err := prereqRows.Scan(&moduleID, &prereqID); err != nil {
			return nil, fmt.Errorf("scanning module prerequisite: %w", err)
		}
		if i, ok := index[moduleID]; ok {
			modules[i].Prereqs = append(modules[i].Prereqs, prereqID)
		}
	}
	return modules, prereqRows.Err()
}

func (r *SQLiteCatalogRepo) loadMilestones(ctx context.Context) ([]domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_key, title, brief_ref FROM milestones ORDER BY order_index, id`)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var milestones []domain.Milestone
	index := make(map[string]int)
	for rows.Next() {
		var ms domain.Milestone
		if err := rows.Scan(&ms.ID, &ms.CategoryKey, &ms.Title, &ms.BriefRef); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		index[ms.ID] = len(milestones)
		milestones = append(milestones, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}

	modRows, err := r.db.QueryContext(ctx,
		`SELECT milestone_id, module_id FROM milestone_modules ORDER BY milestone_id, module_id`)
	if err != nil {
		return nil, fmt.Errorf("listing milestone modules: %w", err)
	}
	defer modRows.Close()
	for modRows.Next() {
		var milestoneID, moduleID string
		if err := modRows.Scan(&milestoneID, &moduleID); err != nil {
			return nil, fmt.Errorf("scanning milestone module: %w", err)
		}
		if i, ok := index[milestoneID]; ok {
			milestones[i].RequiredIDs = append(milestones[i].RequiredIDs, moduleID)
		}
	}
	if err := modRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestone modules: %w", err)
	}

	reqRows, err := r.db.QueryContext(ctx,
		`SELECT milestone_id, category_key, min_rating FROM milestone_requirements ORDER BY milestone_id, category_key`)
	if err != nil {
		return nil, fmt.Errorf("listing milestone requirements: %w", err)
	}
	defer reqRows.Close()
	for reqRows.Next() {
		var milestoneID string
		var req domain.RatingRequirement
		if err := reqRows.Scan(&milestoneID, &req.CategoryKey, &req.MinRating); err != nil {
			return nil, fmt.Errorf("scanning milestone requirement: %w", err)
		}
		if i, ok := index[milestoneID]; ok {
			milestones[i].Requirements = append(milestones[i].Requirements, req)
		}
	}
	return milestones, reqRows.Err()
}

// ReplaceAll swaps the whole catalog in one shot. Import is
// all-or-nothing; callers run it inside a unit of work.
func (r *SQLiteCatalogRepo) ReplaceAll(ctx context.Context, c *Catalog) error {
	for _, table := range []string{
		"milestone_requirements", "milestone_modules", "milestones",
		"module_prereqs", "modules", "rubric_bands", "categories",
	} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, cat := range c.Categories {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (key, label, weight, starting_rating, target_rating, order_index)
			VALUES (?, ?, ?, ?, ?, ?)`,
			cat.Key, cat.Label, cat.Weight, cat.StartingRating, cat.TargetRating, i); err != nil {
			return fmt.Errorf("inserting category %s: %w", cat.Key, err)
		}
		for _, b := range cat.Bands {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO rubric_bands (category_key, min_rating, label) VALUES (?, ?, ?)`,
				cat.Key, b.MinRating, b.Label); err != nil {
				return fmt.Errorf("inserting rubric band for %s: %w", cat.Key, err)
			}
		}
	}

	for i, m := range c.Modules {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO modules (`+moduleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.CategoryKey, m.Title, string(m.Kind), m.EstimatedMin, i,
			boolToInt(m.Refresher), strings.Join(m.Objectives, "\n")); err != nil {
			return fmt.Errorf("inserting module %s: %w", m.ID, err)
		}
	}
	for _, m := range c.Modules {
		for _, p := range m.Prereqs {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO module_prereqs (module_id, prereq_id) VALUES (?, ?)`, m.ID, p); err != nil {
				return fmt.Errorf("inserting prerequisite %s -> %s: %w", p, m.ID, err)
			}
		}
	}

	for i, ms := range c.Milestones {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO milestones (id, category_key, title, brief_ref, order_index)
			VALUES (?, ?, ?, ?, ?)`,
			ms.ID, ms.CategoryKey, ms.Title, ms.BriefRef, i); err != nil {
			return fmt.Errorf("inserting milestone %s: %w", ms.ID, err)
		}
		for _, moduleID := range ms.RequiredIDs {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO milestone_modules (milestone_id, module_id) VALUES (?, ?)`,
				ms.ID, moduleID); err != nil {
				return fmt.Errorf("inserting milestone module %s: %w", moduleID, err)
			}
		}
		for _, req := range ms.Requirements {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO milestone_requirements (milestone_id, category_key, min_rating)
				VALUES (?, ?, ?)`,
				ms.ID, req.CategoryKey, req.MinRating); err != nil {
				return fmt.Errorf("inserting milestone requirement for %s: %w", ms.ID, err)
			}
		}
	}
	return nil
}

func (r *SQLiteCatalogRepo) GetModule(ctx context.Context, id string) (*domain.Module, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+moduleColumns+` FROM modules WHERE id = ?`, id)

	m, err := scanModule(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("module %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT prereq_id FROM module_prereqs WHERE module_id = ? ORDER BY prereq_id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing prerequisites for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning prerequisite: %w", err)
		}
		m.Prereqs = append(m.Prereqs, p)
	}
	return m, rows.Err()
}

func scanModule(scan func(...any) error) (*domain.Module, error) {
	var m domain.Module
	var kind, objectives string
	var refresher int
	if err := scan(&m.ID, &m.CategoryKey, &m.Title, &kind, &m.EstimatedMin,
		&m.OrderIndex, &refresher, &objectives); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning module: %w", err)
	}
	m.Kind = domain.ModuleKind(kind)
	m.Refresher = intToBool(refresher)
	if objectives != "" {
		m.Objectives = strings.Split(objectives, "\n")
	}
	return &m, nil
}
