package sequencer

import (
	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// Result is a successful generation: the schedule plus the bookkeeping
// the caller persists alongside it.
type Result struct {
	Schedule         *domain.Schedule
	PrunedAdjustment []string // adjustment ids to delete
	Summary          string   // rationale text for this run
}

// Generate runs the full planning pipeline over explicit inputs. It is
// deterministic: the same inputs always yield the same schedule, so a
// regeneration with no state change reproduces the stored plan exactly.
func Generate(in Inputs) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(in.Modules) == 0 {
		return nil, &contract.PlanError{
			Code:    contract.ErrNoCatalog,
			Message: "catalog has no modules",
		}
	}

	n := normalizeCatalog(in.Modules, in.Config.SessionCapMin)
	priorities := ComputePriorities(&in)

	catScore := make(map[string]float64, len(priorities))
	for _, p := range priorities {
		catScore[p.Key] = p.Score
	}

	graph := buildGraph(n, in.CompletedModules)
	warnings := graph.breakCycles(catScore)

	mixed, mixWarnings := Mix(graph.topoStreams(), priorities, in.Config)
	warnings = append(warnings, mixWarnings...)

	ordered := make([]placement, 0, len(mixed))
	for _, u := range mixed {
		ordered = append(ordered, placement{unit: u})
	}

	ordered, msWarnings := gateMilestones(ordered, &in, n)
	warnings = append(warnings, msWarnings...)

	ordered = assignDays(ordered, in.Config)

	ordered, refWarnings := injectRefreshers(ordered, &in, priorities)
	warnings = append(warnings, refWarnings...)

	ordered, rec := applyAdjustments(ordered, &in)
	warnings = append(warnings, rec.warnings...)

	ordered, prereqWarnings := enforcePrereqDays(ordered, in.Config)
	warnings = append(warnings, prereqWarnings...)

	kept := len(in.Adjustments) - len(rec.pruned)
	summary := summarizeRun(priorities, warnings, kept)

	sched := buildSchedule(ordered, &in, priorities, in.Rotation, warnings)
	sched.Rationale = []domain.RationaleEntry{{CreatedAt: in.Now, Summary: summary}}

	return &Result{
		Schedule:         sched,
		PrunedAdjustment: rec.pruned,
		Summary:          summary,
	}, nil
}
