package contract

// Warning codes attached to schedules for non-fatal planning conditions.
const (
	WarnPrerequisiteCycle    = "prerequisite_cycle"
	WarnMilestoneUnreachable = "milestone_unreachable"
	WarnAdjustmentConflict   = "adjustment_conflict"
	WarnNoEligibleContent    = "no_eligible_content"
	WarnStaleSchedule        = "stale_schedule"
	WarnCoverageForced       = "coverage_forced"
	WarnAdjustmentPruned     = "adjustment_pruned"
)
