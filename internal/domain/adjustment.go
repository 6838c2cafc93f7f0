package domain

import "time"

// Adjustment is a learner-requested move of one scheduled item. Either
// TargetDay (absolute day offset) or DeltaDays (relative shift) is set,
// never both. Adjustments persist across regenerations until superseded
// by a newer one for the same item or the item completes.
type Adjustment struct {
	ID        string
	LearnerID string
	UnitID    string
	TargetDay *int
	DeltaDays *int
	Reason    string
	CreatedAt time.Time
}

// DeferralState tracks how often a learner has pushed a category's items
// later. Persisted explicitly so regeneration stays a pure function of
// its inputs.
type DeferralState struct {
	CategoryKey     string
	DeferralCount   int
	MaxDeferralDays int
}
