package sequencer

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullInputs() Inputs {
	cfg := DefaultConfig()
	cfg.HorizonDays = 60

	return Inputs{
		LearnerID: "learner-1",
		Now:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Categories: []domain.Category{
			{Key: "endgames", Label: "Endgames", Weight: 1, StartingRating: 800, TargetRating: 1400},
			{Key: "strategy", Label: "Strategy", Weight: 1, StartingRating: 800, TargetRating: 1600},
			{Key: "tactics", Label: "Tactics", Weight: 1, StartingRating: 800, TargetRating: 1200},
		},
		Modules: []domain.Module{
			{ID: "tac-pins", CategoryKey: "tactics", Title: "Pins", Kind: domain.ModuleLesson, EstimatedMin: 30},
			{ID: "tac-forks", CategoryKey: "tactics", Title: "Forks", Kind: domain.ModuleQuiz, EstimatedMin: 30, Prereqs: []string{"tac-pins"}},
			{ID: "tac-marathon", CategoryKey: "tactics", Title: "Puzzle Marathon", Kind: domain.ModuleLesson, EstimatedMin: 200, Prereqs: []string{"tac-forks"}},
			{ID: "str-pawns", CategoryKey: "strategy", Title: "Pawn Structures", Kind: domain.ModuleLesson, EstimatedMin: 45},
			{ID: "str-plans", CategoryKey: "strategy", Title: "Making Plans", Kind: domain.ModuleLesson, EstimatedMin: 60, Prereqs: []string{"str-pawns"}},
			{ID: "end-kp", CategoryKey: "endgames", Title: "King and Pawn", Kind: domain.ModuleLesson, EstimatedMin: 30, Refresher: true},
			{ID: "end-rook", CategoryKey: "endgames", Title: "Rook Endings", Kind: domain.ModuleLesson, EstimatedMin: 45, Prereqs: []string{"end-kp"}},
		},
		Milestones: []domain.Milestone{
			{
				ID:          "ms-rated-night",
				CategoryKey: "tactics",
				Title:       "First Rated Night",
				RequiredIDs: []string{"tac-forks"},
				Requirements: []domain.RatingRequirement{
					{CategoryKey: "tactics", MinRating: 1000},
				},
				BriefRef: "briefs/rated-night.md",
			},
		},
		Ratings:            map[string]int{"tactics": 900},
		Assessments:        map[string]domain.AssessmentOutcome{},
		Deferrals:          map[string]domain.DeferralState{},
		CompletedModules:   map[string]bool{},
		MilestonesComplete: map[string]bool{},
		ItemStatuses:       map[string]domain.ItemStatus{},
		Config:             cfg,
	}
}

func TestGenerate_DeterministicAcrossRuns(t *testing.T) {
	r1, err := Generate(fullInputs())
	require.NoError(t, err)
	r2, err := Generate(fullInputs())
	require.NoError(t, err)

	assert.True(t, Unchanged(r1.Schedule, r2.Schedule),
		"identical inputs must reproduce the schedule exactly:\n%s",
		DiffItems(r1.Schedule, r2.Schedule))
}

func TestGenerate_PrereqOrderingHolds(t *testing.T) {
	res, err := Generate(fullInputs())
	require.NoError(t, err)

	day := func(unitID string) int {
		item := res.Schedule.ItemByUnitID(unitID)
		require.NotNil(t, item, "missing item %s", unitID)
		return item.DayOffset
	}

	assert.LessOrEqual(t, day("tac-pins"), day("tac-forks"))
	assert.LessOrEqual(t, day("tac-forks"), day("tac-marathon#1"))
	assert.LessOrEqual(t, day("tac-marathon#1"), day("tac-marathon#2"))
	assert.LessOrEqual(t, day("str-pawns"), day("str-plans"))
	assert.LessOrEqual(t, day("end-kp"), day("end-rook"))
	assert.Greater(t, day("ms-rated-night"), day("tac-forks"),
		"milestone must follow its last required unit")
}

func TestGenerate_SplitPartsConserveMinutes(t *testing.T) {
	res, err := Generate(fullInputs())
	require.NoError(t, err)

	total := 0
	for _, item := range res.Schedule.Items {
		if item.ModuleID == "tac-marathon" {
			total += item.Minutes
			assert.LessOrEqual(t, item.Minutes, DefaultConfig().SessionCapMin)
		}
	}
	assert.Equal(t, 200, total)
}

func TestGenerate_MilestoneLockedUntilRatingMet(t *testing.T) {
	res, err := Generate(fullInputs())
	require.NoError(t, err)

	ms := res.Schedule.ItemByUnitID("ms-rated-night")
	require.NotNil(t, ms)
	assert.Equal(t, domain.ItemMilestone, ms.Kind)
	require.NotNil(t, ms.LockedReason)
	assert.Contains(t, *ms.LockedReason, "tactics rating 1000")
	assert.Equal(t, "briefs/rated-night.md", ms.BriefRef)
	require.Len(t, ms.Requirements, 1)

	in := fullInputs()
	in.Ratings["tactics"] = 1050
	res, err = Generate(in)
	require.NoError(t, err)
	ms = res.Schedule.ItemByUnitID("ms-rated-night")
	require.NotNil(t, ms)
	assert.Nil(t, ms.LockedReason)
}

func TestGenerate_EarlyCoverageTouchesAllCategories(t *testing.T) {
	res, err := Generate(fullInputs())
	require.NoError(t, err)

	seen := map[string]bool{}
	count := 0
	for _, item := range res.Schedule.Items {
		if item.Kind == domain.ItemMilestone {
			continue
		}
		seen[item.CategoryKey] = true
		if count++; count == 7 {
			break
		}
	}
	assert.Len(t, seen, 3)
}

func TestGenerate_RefreshersExtendIntoHorizon(t *testing.T) {
	res, err := Generate(fullInputs())
	require.NoError(t, err)

	denseEnd := 0
	var reviews []domain.ScheduledItem
	for _, item := range res.Schedule.Items {
		if strings.HasSuffix(item.UnitID, "~review") {
			reviews = append(reviews, item)
			continue
		}
		if item.DayOffset > denseEnd {
			denseEnd = item.DayOffset
		}
	}

	require.NotEmpty(t, reviews, "seen refresher-flagged content must produce reviews")
	for _, r := range reviews {
		assert.Greater(t, r.DayOffset, denseEnd)
		assert.Less(t, r.DayOffset, 60)
	}
}

func TestGenerate_RotationPointerShiftsReviewOrder(t *testing.T) {
	in := fullInputs()
	in.CompletedModules["end-kp"] = true
	in.Modules[0].Refresher = true // tac-pins joins the review pool

	base, err := Generate(in)
	require.NoError(t, err)

	in.Rotation = domain.RotationState{LastCategoryKey: "endgames"}
	shifted, err := Generate(in)
	require.NoError(t, err)

	firstReview := func(s *domain.Schedule) string {
		for _, item := range s.Items {
			if IsReviewUnit(item.UnitID) {
				return item.CategoryKey
			}
		}
		return ""
	}
	assert.Equal(t, "endgames", firstReview(base.Schedule))
	assert.NotEqual(t, "endgames", firstReview(shifted.Schedule),
		"an advanced pointer must hand the next slot to another category")

	// The pointer rides along unchanged; only completing a review moves it.
	assert.Equal(t, "endgames", shifted.Schedule.Rotation.LastCategoryKey)
}

func TestGenerate_StreakCapHoldsAroundMilestones(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StreakCap = 2
	cfg.CoverageMinCats = 2
	cfg.HorizonDays = 60

	// A heavy tactics share plus a milestone landing beside its own
	// category's run is the layout most likely to rebuild a run after
	// the mixer has already broken it.
	in := Inputs{
		LearnerID: "learner-1",
		Now:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Categories: []domain.Category{
			{Key: "openings", Label: "Openings", Weight: 1, StartingRating: 800, TargetRating: 1200},
			{Key: "tactics", Label: "Tactics", Weight: 3, StartingRating: 800, TargetRating: 1200},
		},
		Modules: []domain.Module{
			{ID: "tac-checks", CategoryKey: "tactics", Title: "Checks", Kind: domain.ModuleLesson, EstimatedMin: 30},
			{ID: "tac-sacs", CategoryKey: "tactics", Title: "Sacrifices", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"tac-checks"}},
			{ID: "tac-combos", CategoryKey: "tactics", Title: "Combinations", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"tac-sacs"}},
			{ID: "op-e4", CategoryKey: "openings", Title: "Open Games", Kind: domain.ModuleLesson, EstimatedMin: 30},
			{ID: "op-d4", CategoryKey: "openings", Title: "Closed Games", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"op-e4"}},
		},
		Milestones: []domain.Milestone{
			{ID: "ms-simul", CategoryKey: "tactics", Title: "Club Simul", RequiredIDs: []string{"tac-sacs"}},
		},
		Ratings:            map[string]int{},
		Assessments:        map[string]domain.AssessmentOutcome{},
		Deferrals:          map[string]domain.DeferralState{},
		CompletedModules:   map[string]bool{},
		MilestonesComplete: map[string]bool{},
		ItemStatuses:       map[string]domain.ItemStatus{},
		Config:             cfg,
	}

	res, err := Generate(in)
	require.NoError(t, err)

	// No run may exceed the cap while another category still has
	// content placed after it.
	items := res.Schedule.Items
	for i := range items {
		run := 1
		for j := i - 1; j >= 0 && items[j].CategoryKey == items[i].CategoryKey; j-- {
			run++
		}
		if run <= cfg.StreakCap {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			assert.Equal(t, items[i].CategoryKey, items[j].CategoryKey,
				"%d consecutive %s items ending at %s while %s was still unplaced",
				run, items[i].CategoryKey, items[i].UnitID, items[j].UnitID)
		}
	}

	ms := res.Schedule.ItemByUnitID("ms-simul")
	require.NotNil(t, ms)
	required := res.Schedule.ItemByUnitID("tac-sacs")
	require.NotNil(t, required)
	assert.GreaterOrEqual(t, ms.DayOffset, required.DayOffset,
		"breaking the run must not move the milestone before its required unit")
}

func TestGenerate_ItemsSortedByDay(t *testing.T) {
	res, err := Generate(fullInputs())
	require.NoError(t, err)

	days := make([]int, len(res.Schedule.Items))
	for i, item := range res.Schedule.Items {
		days[i] = item.DayOffset
	}
	assert.True(t, sort.IntsAreSorted(days))
}

func TestGenerate_AdjustmentSurvivesRegeneration(t *testing.T) {
	in := fullInputs()
	target := 40
	in.Adjustments = []domain.Adjustment{
		{ID: "adj-1", LearnerID: "learner-1", UnitID: "str-plans", TargetDay: &target, CreatedAt: in.Now},
	}

	res, err := Generate(in)
	require.NoError(t, err)

	item := res.Schedule.ItemByUnitID("str-plans")
	require.NotNil(t, item)
	assert.Equal(t, 40, item.DayOffset)
	assert.True(t, item.UserAdjusted)
	assert.Empty(t, res.PrunedAdjustment)

	prereq := res.Schedule.ItemByUnitID("str-pawns")
	require.NotNil(t, prereq)
	assert.LessOrEqual(t, prereq.DayOffset, item.DayOffset)

	again, err := Generate(in)
	require.NoError(t, err)
	assert.True(t, Unchanged(res.Schedule, again.Schedule))
}

func TestGenerate_CompletedAdjustmentPruned(t *testing.T) {
	in := fullInputs()
	target := 40
	in.Adjustments = []domain.Adjustment{
		{ID: "adj-1", LearnerID: "learner-1", UnitID: "tac-pins", TargetDay: &target, CreatedAt: in.Now},
	}
	in.ItemStatuses["tac-pins"] = domain.ItemCompleted

	res, err := Generate(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"adj-1"}, res.PrunedAdjustment)
}

func TestGenerate_EmptyCatalogFails(t *testing.T) {
	in := fullInputs()
	in.Modules = nil

	_, err := Generate(in)

	var planErr *contract.PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, contract.ErrNoCatalog, planErr.Code)
}

func TestGenerate_InvalidInputRejected(t *testing.T) {
	in := fullInputs()
	in.Modules[0].CategoryKey = "unknown"

	_, err := Generate(in)

	var planErr *contract.PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, contract.ErrInputInvalid, planErr.Code)
}

func TestGenerate_PacingCoversEveryCategory(t *testing.T) {
	res, err := Generate(fullInputs())
	require.NoError(t, err)

	require.Len(t, res.Schedule.Pacing, 3)
	totalShare := 0.0
	for _, p := range res.Schedule.Pacing {
		totalShare += p.TargetShare
		assert.Greater(t, p.PlannedMin, 0)
	}
	assert.InDelta(t, 1.0, totalShare, 1e-9)
}
