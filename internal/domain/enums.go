package domain

type ModuleKind string

const (
	ModuleLesson ModuleKind = "lesson"
	ModuleQuiz   ModuleKind = "quiz"
)

// ValidModuleKinds is the canonical set of accepted module kind strings.
var ValidModuleKinds = map[string]bool{
	"lesson": true, "quiz": true,
}

type ItemKind string

const (
	ItemLesson    ItemKind = "lesson"
	ItemQuiz      ItemKind = "quiz"
	ItemMilestone ItemKind = "milestone"
)

type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in_progress"
	ItemCompleted  ItemStatus = "completed"
)

// ValidItemStatuses is the canonical set of accepted item status strings.
var ValidItemStatuses = map[string]bool{
	"pending": true, "in_progress": true, "completed": true,
}

type EffortLevel string

const (
	EffortLight    EffortLevel = "light"
	EffortModerate EffortLevel = "moderate"
	EffortFocus    EffortLevel = "focus"
)

// EffortForMinutes derives the effort level from recommended minutes.
func EffortForMinutes(minutes int) EffortLevel {
	switch {
	case minutes < 30:
		return EffortLight
	case minutes < 60:
		return EffortModerate
	default:
		return EffortFocus
	}
}

type DeferralPressure string

const (
	PressureLow    DeferralPressure = "low"
	PressureMedium DeferralPressure = "medium"
	PressureHigh   DeferralPressure = "high"
)

// PressureForDeferrals classifies deferral pressure from a raw deferral count.
func PressureForDeferrals(count int) DeferralPressure {
	switch {
	case count <= 0:
		return PressureLow
	case count <= 2:
		return PressureMedium
	default:
		return PressureHigh
	}
}

type PlanStatus string

const (
	PlanCreated     PlanStatus = "created"
	PlanUnchanged   PlanStatus = "unchanged"
	PlanRegenerated PlanStatus = "regenerated"
	PlanFailedStale PlanStatus = "failed_stale"
)
