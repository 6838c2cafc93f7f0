package domain

// PlannerProfile holds the tunable planning knobs, persisted as a single
// row with seeded defaults. The priority formula weights live here so
// they stay swappable without a code change.
type PlannerProfile struct {
	ID                string
	SessionCapMin     int
	SessionsPerWeek   int
	DailyBudgetMin    int
	StreakCap         int
	CoverageWeeks     int
	CoverageMinCats   int
	HorizonDays       int
	RefresherEveryDay int // cadence between refresher slots, in days
	RefresherGapDays  int // minimum spacing before the same category repeats
	WeeklyBudgetMin   int

	WeightGap        float64
	WeightAssessment float64
	WeightMastery    float64
	MasteryMargin    int
}
