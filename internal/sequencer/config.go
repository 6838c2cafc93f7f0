package sequencer

import "github.com/studyloop/studyloop/internal/domain"

// Weights tunes the priority formula. Stored on the planner profile so
// the formula stays adjustable without a code change.
type Weights struct {
	Gap           float64 // urgency from rating gap, scaled by category weight
	AssessmentGap float64 // bonus for categories with weak assessment scores
	Mastery       float64 // discount once a category clears its milestone bar
	MasteryMargin int     // rating points above every requirement to count as mastered
}

func defaultWeights() Weights {
	return Weights{
		Gap:           1.0,
		AssessmentGap: 0.6,
		Mastery:       0.4,
		MasteryMargin: 50,
	}
}

// Config bundles every planning knob the engine consumes.
type Config struct {
	SessionCapMin        int
	SessionsPerWeek      int
	DailyBudgetMin       int
	StreakCap            int
	CoverageWeeks        int
	CoverageMinCats      int
	HorizonDays          int
	RefresherCadenceDays int
	RefresherGapDays     int
	WeeklyBudgetMin      int
	Weights              Weights
}

// DefaultConfig returns the stock planning configuration.
func DefaultConfig() Config {
	return Config{
		SessionCapMin:        120,
		SessionsPerWeek:      5,
		DailyBudgetMin:       120,
		StreakCap:            3,
		CoverageWeeks:        6,
		CoverageMinCats:      3,
		HorizonDays:          120,
		RefresherCadenceDays: 7,
		RefresherGapDays:     14,
		WeeklyBudgetMin:      600,
		Weights:              defaultWeights(),
	}
}

// ConfigFromProfile maps a persisted planner profile onto an engine
// config, falling back to defaults for unset fields.
func ConfigFromProfile(p *domain.PlannerProfile) Config {
	cfg := DefaultConfig()
	if p == nil {
		return cfg
	}
	if p.SessionCapMin > 0 {
		cfg.SessionCapMin = p.SessionCapMin
	}
	if p.SessionsPerWeek > 0 {
		cfg.SessionsPerWeek = p.SessionsPerWeek
	}
	if p.DailyBudgetMin > 0 {
		cfg.DailyBudgetMin = p.DailyBudgetMin
	}
	if p.StreakCap > 0 {
		cfg.StreakCap = p.StreakCap
	}
	if p.CoverageWeeks > 0 {
		cfg.CoverageWeeks = p.CoverageWeeks
	}
	if p.CoverageMinCats > 0 {
		cfg.CoverageMinCats = p.CoverageMinCats
	}
	if p.HorizonDays > 0 {
		cfg.HorizonDays = p.HorizonDays
	}
	if p.RefresherEveryDay > 0 {
		cfg.RefresherCadenceDays = p.RefresherEveryDay
	}
	if p.RefresherGapDays > 0 {
		cfg.RefresherGapDays = p.RefresherGapDays
	}
	if p.WeeklyBudgetMin > 0 {
		cfg.WeeklyBudgetMin = p.WeeklyBudgetMin
	}
	if p.WeightGap > 0 {
		cfg.Weights.Gap = p.WeightGap
	}
	if p.WeightAssessment > 0 {
		cfg.Weights.AssessmentGap = p.WeightAssessment
	}
	if p.WeightMastery > 0 {
		cfg.Weights.Mastery = p.WeightMastery
	}
	if p.MasteryMargin > 0 {
		cfg.Weights.MasteryMargin = p.MasteryMargin
	}
	return cfg
}

// coverageWindowItems is the number of leading items checked by the
// first-weeks coverage guarantee.
func (c Config) coverageWindowItems() int {
	n := c.SessionsPerWeek * c.CoverageWeeks
	if n < 1 {
		return 1
	}
	return n
}
