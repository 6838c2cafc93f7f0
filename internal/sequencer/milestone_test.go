package sequencer

import (
	"testing"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milestoneFixture() (*Inputs, *normalized, []placement) {
	modules := []domain.Module{
		{ID: "tac-pins", CategoryKey: "tactics", Title: "Pins", Kind: domain.ModuleLesson, EstimatedMin: 30},
		{ID: "tac-forks", CategoryKey: "tactics", Title: "Forks", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"tac-pins"}},
	}
	in := &Inputs{
		Categories: []domain.Category{
			{Key: "tactics", Weight: 1, StartingRating: 800, TargetRating: 1200},
		},
		Modules: modules,
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
		Ratings:            map[string]int{"tactics": 800},
		CompletedModules:   map[string]bool{},
		MilestonesComplete: map[string]bool{},
		Config:             DefaultConfig(),
	}
	n := normalizeCatalog(modules, in.Config.SessionCapMin)

	var ordered []placement
	for _, u := range n.units {
		ordered = append(ordered, placement{unit: u})
	}
	return in, n, ordered
}

func TestGateMilestones_InsertsAfterLastRequiredUnit(t *testing.T) {
	in, n, ordered := milestoneFixture()

	out, warnings := gateMilestones(ordered, in, n)

	assert.Empty(t, warnings)
	require.Len(t, out, 3)
	assert.Equal(t, "tac-forks", out[1].unit.ID)
	assert.Equal(t, "ms-rated-night", out[2].unit.ID)
	assert.Equal(t, domain.ItemMilestone, out[2].unit.Kind)
	assert.Equal(t, []string{"tac-forks"}, out[2].unit.Prereqs)
}

func TestGateMilestones_LocksOnUnmetRatingRequirement(t *testing.T) {
	in, n, ordered := milestoneFixture()

	out, _ := gateMilestones(ordered, in, n)

	ms := out[2]
	require.NotNil(t, ms.lockedReason)
	assert.Contains(t, *ms.lockedReason, "tactics rating 1000")
	assert.Contains(t, *ms.lockedReason, "200 to go")
}

func TestGateMilestones_UnlockedWhenRequirementMet(t *testing.T) {
	in, n, ordered := milestoneFixture()
	in.Ratings["tactics"] = 1050

	out, _ := gateMilestones(ordered, in, n)

	require.Len(t, out, 3)
	assert.Nil(t, out[2].lockedReason)
}

func TestGateMilestones_UnreachableMilestoneOmittedWithWarning(t *testing.T) {
	in, n, ordered := milestoneFixture()
	in.Milestones[0].RequiredIDs = []string{"ghost-module"}

	out, warnings := gateMilestones(ordered, in, n)

	assert.Len(t, out, 2, "milestone must be omitted")
	require.Len(t, warnings, 1)
	assert.Equal(t, contract.WarnMilestoneUnreachable, warnings[0].Code)
}

func TestGateMilestones_CompletedMilestoneSkipped(t *testing.T) {
	in, n, ordered := milestoneFixture()
	in.MilestonesComplete["ms-rated-night"] = true

	out, warnings := gateMilestones(ordered, in, n)

	assert.Empty(t, warnings)
	assert.Len(t, out, 2)
}
