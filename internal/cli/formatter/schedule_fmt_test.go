package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyloop/studyloop/internal/domain"
)

func TestPlanStatusLine(t *testing.T) {
	assert.Contains(t, PlanStatusLine(domain.PlanCreated), "created")
	assert.Contains(t, PlanStatusLine(domain.PlanRegenerated), "regenerated")
	assert.Contains(t, PlanStatusLine(domain.PlanUnchanged), "unchanged")
	assert.Contains(t, PlanStatusLine(domain.PlanFailedStale), "previous schedule")
}

func TestRenderScheduleItems_GroupsByDay(t *testing.T) {
	locked := "tactics rating below 1000"
	out := RenderScheduleItems([]domain.ScheduledItem{
		{UnitID: "tac-pins", Title: "Pins", Kind: domain.ItemLesson, CategoryKey: "tactics", Minutes: 30, DayOffset: 0, Effort: domain.EffortModerate, Status: domain.ItemPending},
		{UnitID: "tac-forks", Title: "Forks", Kind: domain.ItemQuiz, CategoryKey: "tactics", Minutes: 45, DayOffset: 0, Effort: domain.EffortModerate, Status: domain.ItemPending, UserAdjusted: true},
		{UnitID: "ms-1", Title: "Rated Night", Kind: domain.ItemMilestone, CategoryKey: "tactics", Minutes: 0, DayOffset: 3, Status: domain.ItemPending, LockedReason: &locked},
	})

	assert.Contains(t, out, "Day 1")
	assert.Contains(t, out, "Day 4")
	assert.Contains(t, out, "Forks (pinned)")
	assert.Contains(t, out, "tactics rating below 1000")
	assert.Contains(t, out, "milestone")
}

func TestRenderScheduleItems_Empty(t *testing.T) {
	assert.Contains(t, RenderScheduleItems(nil), "Nothing scheduled")
}

func TestRenderPacing(t *testing.T) {
	out := RenderPacing([]domain.PacingAllocation{
		{CategoryKey: "tactics", PlannedMin: 150, TargetShare: 0.6, Pressure: domain.PressureHigh, DeferralCount: 3},
	})
	assert.Contains(t, out, "tactics")
	assert.Contains(t, out, "2h 30m")
	assert.Contains(t, out, "60%")
	assert.Contains(t, out, "HIGH")
}

func TestRenderWarnings(t *testing.T) {
	assert.Empty(t, RenderWarnings(nil))

	out := RenderWarnings([]domain.Warning{
		{Code: "horizon_overflow", Message: "12 items fell past the horizon"},
	})
	assert.Contains(t, out, "12 items fell past the horizon")
	assert.Contains(t, out, "[horizon_overflow]")
}
