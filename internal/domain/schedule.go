package domain

import "time"

// ScheduledItem is one entry in a generated schedule: a lesson, quiz, or
// milestone stamped with a concrete day offset relative to the schedule
// anchor.
type ScheduledItem struct {
	UnitID       string
	ModuleID     string
	PartIndex    int
	Kind         ItemKind
	CategoryKey  string
	Title        string
	Minutes      int
	DayOffset    int
	Effort       EffortLevel
	UserAdjusted bool
	Status       ItemStatus
	LockedReason *string // non-nil only for milestones with unmet rating requirements
	BriefRef     string  // milestone kind only
	Requirements []RatingRequirement
}

// PacingAllocation summarizes planned effort for one category over the
// full horizon.
type PacingAllocation struct {
	CategoryKey     string
	PlannedMin      int
	TargetShare     float64
	Pressure        DeferralPressure
	DeferralCount   int
	MaxDeferralDays int
}

// RationaleEntry is one append-only note explaining a regeneration.
type RationaleEntry struct {
	ID        string
	CreatedAt time.Time
	Summary   string
}

// Warning is a non-fatal planning condition surfaced to the caller.
type Warning struct {
	Code    string
	Message string
}

// RotationState carries the refresher rotation pointer across
// regenerations so the cycle never restarts on the same category.
type RotationState struct {
	LastCategoryKey string
}

// Schedule is a learner's committed curriculum schedule. It is replaced
// wholesale on each successful regeneration and marked stale, never
// deleted, when regeneration fails.
type Schedule struct {
	LearnerID   string
	GeneratedAt time.Time
	HorizonDays int
	Items       []ScheduledItem
	Pacing      []PacingAllocation
	Rationale   []RationaleEntry
	Warnings    []Warning
	Stale       bool
	Rotation    RotationState
}

// ItemByUnitID returns the scheduled item with the given unit id, or nil.
func (s *Schedule) ItemByUnitID(unitID string) *ScheduledItem {
	for i := range s.Items {
		if s.Items[i].UnitID == unitID {
			return &s.Items[i]
		}
	}
	return nil
}

// SliceMeta describes one windowed read of a schedule.
type SliceMeta struct {
	StartDay     int
	DaySpan      int
	TotalItems   int
	HasMore      bool
	NextStartDay int
}
