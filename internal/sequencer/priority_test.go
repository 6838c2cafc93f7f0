package sequencer

import (
	"testing"

	"github.com/studyloop/studyloop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priorityInputs(cats []domain.Category) Inputs {
	return Inputs{
		LearnerID:  "learner-1",
		Categories: cats,
		Ratings:    map[string]int{},
		Config:     DefaultConfig(),
	}
}

func TestComputePriorities_BiggerGapScoresHigher(t *testing.T) {
	in := priorityInputs([]domain.Category{
		{Key: "strategy", Weight: 1, StartingRating: 800, TargetRating: 1600},
		{Key: "tactics", Weight: 1, StartingRating: 800, TargetRating: 1000},
	})

	priorities := ComputePriorities(&in)

	require.Len(t, priorities, 2)
	assert.Equal(t, "strategy", priorities[0].Key)
	assert.Greater(t, priorities[0].Score, priorities[1].Score)
}

func TestComputePriorities_SharesSumToOne(t *testing.T) {
	in := priorityInputs([]domain.Category{
		{Key: "endgames", Weight: 1, StartingRating: 800, TargetRating: 1400},
		{Key: "strategy", Weight: 2, StartingRating: 800, TargetRating: 1600},
		{Key: "tactics", Weight: 1, StartingRating: 900, TargetRating: 1200},
	})

	priorities := ComputePriorities(&in)

	total := 0.0
	for _, p := range priorities {
		total += p.Share
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestComputePriorities_DeferralPressureBoostsShare(t *testing.T) {
	in := priorityInputs([]domain.Category{
		{Key: "strategy", Weight: 1, StartingRating: 800, TargetRating: 1200},
		{Key: "tactics", Weight: 1, StartingRating: 800, TargetRating: 1200},
	})
	in.Deferrals = map[string]domain.DeferralState{
		"strategy": {CategoryKey: "strategy", DeferralCount: 3, MaxDeferralDays: 9},
	}

	priorities := ComputePriorities(&in)

	byKey := make(map[string]CategoryPriority)
	for _, p := range priorities {
		byKey[p.Key] = p
	}
	assert.Equal(t, domain.PressureHigh, byKey["strategy"].Pressure)
	assert.Greater(t, byKey["strategy"].Share, byKey["tactics"].Share,
		"repeatedly deferred category must receive a larger time share")
}

func TestComputePriorities_AssessmentGapAddsBonus(t *testing.T) {
	cats := []domain.Category{
		{Key: "strategy", Weight: 1, StartingRating: 800, TargetRating: 1200},
		{Key: "tactics", Weight: 1, StartingRating: 800, TargetRating: 1200},
	}

	base := priorityInputs(cats)
	weak := priorityInputs(cats)
	weak.Assessments = map[string]domain.AssessmentOutcome{
		"tactics": {CategoryKey: "tactics", AvgScore: 40},
	}

	basePri := ComputePriorities(&base)
	weakPri := ComputePriorities(&weak)

	baseByKey := map[string]float64{}
	for _, p := range basePri {
		baseByKey[p.Key] = p.Score
	}
	for _, p := range weakPri {
		if p.Key == "tactics" {
			assert.Greater(t, p.Score, baseByKey["tactics"])
			require.NotEmpty(t, p.Reasons)
		}
	}
}

func TestComputePriorities_MasteryDiscountApplies(t *testing.T) {
	in := priorityInputs([]domain.Category{
		{Key: "tactics", Weight: 1, StartingRating: 800, TargetRating: 2000},
	})
	in.Milestones = []domain.Milestone{
		{ID: "ms-1", CategoryKey: "tactics", Requirements: []domain.RatingRequirement{
			{CategoryKey: "tactics", MinRating: 1000},
		}},
	}
	in.Ratings = map[string]int{"tactics": 1100} // clears 1000 + margin 50

	priorities := ComputePriorities(&in)

	require.Len(t, priorities, 1)
	var codes []string
	for _, r := range priorities[0].Reasons {
		codes = append(codes, r.Code)
	}
	assert.Contains(t, codes, "mastery_reached")
}
