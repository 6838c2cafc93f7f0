package sequencer

import (
	"testing"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphModules(mods ...domain.Module) *normalized {
	return normalizeCatalog(mods, 120)
}

func TestBuildGraph_CompletedModulesDropOut(t *testing.T) {
	n := graphModules(
		domain.Module{ID: "a", CategoryKey: "tactics", Kind: domain.ModuleLesson, EstimatedMin: 30},
		domain.Module{ID: "b", CategoryKey: "tactics", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"a"}},
	)

	g := buildGraph(n, map[string]bool{"a": true})

	require.Len(t, g.units, 1)
	assert.Equal(t, "b", g.units[0].ID)
	assert.Empty(t, g.units[0].Prereqs, "edge into completed unit is satisfied")
}

func TestBreakCycles_DropsOneEdgeDeterministically(t *testing.T) {
	run := func() ([]domain.Warning, []domain.Unit) {
		g := buildGraph(graphModules(
			domain.Module{ID: "a", CategoryKey: "tactics", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"b"}},
			domain.Module{ID: "b", CategoryKey: "tactics", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"a"}},
		), nil)
		warnings := g.breakCycles(map[string]float64{"tactics": 1})
		return warnings, g.units
	}

	w1, u1 := run()
	w2, u2 := run()

	require.Len(t, w1, 1)
	assert.Equal(t, contract.WarnPrerequisiteCycle, w1[0].Code)
	assert.Equal(t, w1, w2, "same inputs must break the same edge")
	assert.Equal(t, u1, u2)
}

func TestTopoStreams_RespectsPrereqsWithinCategory(t *testing.T) {
	n := graphModules(
		domain.Module{ID: "b", CategoryKey: "tactics", Kind: domain.ModuleLesson, EstimatedMin: 30, Prereqs: []string{"a"}},
		domain.Module{ID: "a", CategoryKey: "tactics", Kind: domain.ModuleLesson, EstimatedMin: 30},
	)

	g := buildGraph(n, nil)
	require.Empty(t, g.breakCycles(nil))
	streams := g.topoStreams()

	require.Len(t, streams["tactics"], 2)
	assert.Equal(t, "a", streams["tactics"][0].ID)
	assert.Equal(t, "b", streams["tactics"][1].ID)
}
