package sequencer

import (
	"testing"

	"github.com/studyloop/studyloop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitModule_UnderCapPassesThrough(t *testing.T) {
	m := domain.Module{ID: "tac-pins", CategoryKey: "tactics", Title: "Pins", Kind: domain.ModuleLesson, EstimatedMin: 45, Prereqs: []string{"tac-intro"}}

	units := SplitModule(m, 120)

	require.Len(t, units, 1)
	assert.Equal(t, "tac-pins", units[0].ID)
	assert.Equal(t, 45, units[0].Minutes)
	assert.Equal(t, []string{"tac-intro"}, units[0].Prereqs)
	assert.Zero(t, units[0].PartIndex)
}

func TestSplitModule_ConservesMinutesAndChainsParts(t *testing.T) {
	m := domain.Module{ID: "tac-marathon", CategoryKey: "tactics", Title: "Marathon", Kind: domain.ModuleLesson, EstimatedMin: 290, Prereqs: []string{"tac-pins"}}

	units := SplitModule(m, 120)

	require.Len(t, units, 3) // ceil(290/120)
	total := 0
	for _, u := range units {
		total += u.Minutes
		assert.LessOrEqual(t, u.Minutes, 120)
	}
	assert.Equal(t, 290, total, "split must conserve total minutes")

	// External prerequisites gate only the first part; the chain handles
	// the rest.
	assert.Equal(t, []string{"tac-pins"}, units[0].Prereqs)
	assert.Equal(t, []string{"tac-marathon#1"}, units[1].Prereqs)
	assert.Equal(t, []string{"tac-marathon#2"}, units[2].Prereqs)
}

func TestNormalizeCatalog_RewritesModulePrereqsToFinalPart(t *testing.T) {
	modules := []domain.Module{
		{ID: "big", CategoryKey: "tactics", Title: "Big", Kind: domain.ModuleLesson, EstimatedMin: 200},
		{ID: "dep", CategoryKey: "tactics", Title: "Dep", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"big"}},
	}

	n := normalizeCatalog(modules, 120)

	require.Equal(t, "big#2", n.lastPart["big"])
	dep := n.byID["dep"]
	require.NotNil(t, dep)
	assert.Equal(t, []string{"big#2"}, dep.Prereqs, "dependents wait for the final part")
}
