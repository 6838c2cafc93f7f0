package sequencer

import (
	"fmt"
	"sort"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// milestoneBriefMin is the recommended minutes for reviewing a milestone
// brief before starting it.
const milestoneBriefMin = 15

// gateMilestones inserts each milestone after the last of its required
// units and evaluates its rating requirements. Milestones
// with an unmet requirement are scheduled locked, with a reason naming
// the category and gap. Milestones whose required modules can never be
// scheduled are omitted and surfaced as warnings.
func gateMilestones(ordered []placement, in *Inputs, n *normalized) ([]placement, []domain.Warning) {
	var warnings []domain.Warning

	pos := make(map[string]int, len(ordered))
	for i, p := range ordered {
		pos[p.unit.ID] = i
	}

	type insertion struct {
		after int // list position of the last required unit, -1 when all complete
		p     placement
	}
	var insertions []insertion

	for _, ms := range in.Milestones {
		if in.MilestonesComplete[ms.ID] {
			continue
		}

		prereqs := make([]string, 0, len(ms.RequiredIDs))
		after := -1
		reachable := true
		for _, moduleID := range ms.RequiredIDs {
			if in.CompletedModules[moduleID] {
				continue
			}
			last, ok := n.lastPart[moduleID]
			if !ok {
				reachable = false
				break
			}
			at, placed := pos[last]
			if !placed {
				reachable = false
				break
			}
			prereqs = append(prereqs, last)
			if at > after {
				after = at
			}
		}
		if !reachable {
			warnings = append(warnings, domain.Warning{
				Code:    contract.WarnMilestoneUnreachable,
				Message: fmt.Sprintf("milestone %s omitted: required modules cannot be scheduled", ms.ID),
			})
			continue
		}

		m := ms
		insertions = append(insertions, insertion{
			after: after,
			p: placement{
				unit: domain.Unit{
					ID:          ms.ID,
					CategoryKey: ms.CategoryKey,
					Kind:        domain.ItemMilestone,
					Title:       ms.Title,
					Minutes:     milestoneBriefMin,
					Prereqs:     prereqs,
				},
				milestone:    &m,
				lockedReason: evaluateRequirements(&m, in),
			},
		})
	}

	// Insert back-to-front so earlier positions stay valid; equal
	// positions fall back to milestone id for determinism.
	sort.SliceStable(insertions, func(i, j int) bool {
		if insertions[i].after != insertions[j].after {
			return insertions[i].after > insertions[j].after
		}
		return insertions[i].p.unit.ID > insertions[j].p.unit.ID
	})
	for _, ins := range insertions {
		at := ins.after + 1
		ordered = append(ordered, placement{})
		copy(ordered[at+1:], ordered[at:])
		ordered[at] = ins.p
	}

	// Splicing a milestone into a cap-length run of its own category
	// rebuilds a run the mixer already broke, so the repair runs again
	// over the combined list.
	ordered = breakMilestoneRuns(ordered, in.Config.StreakCap)

	return ordered, warnings
}

// breakMilestoneRuns is repairStreaks over placements: the placement
// ending a too-long run is swapped with the next placement of a
// different category whose prerequisites all precede the run. Moves
// only ever push run members later, so a milestone stays after its
// required units.
func breakMilestoneRuns(ordered []placement, maxRun int) []placement {
	if maxRun <= 0 {
		return ordered
	}

	for i := 0; i < len(ordered); i++ {
		run := 1
		for j := i - 1; j >= 0 && ordered[j].unit.CategoryKey == ordered[i].unit.CategoryKey; j-- {
			run++
		}
		if run <= maxRun {
			continue
		}

		pos := make(map[string]int, len(ordered))
		for j, p := range ordered {
			pos[p.unit.ID] = j
		}

		swapped := false
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].unit.CategoryKey == ordered[i].unit.CategoryKey {
				continue
			}
			ok := true
			for _, pre := range ordered[j].unit.Prereqs {
				if pp, exists := pos[pre]; exists && pp >= i {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			p := ordered[j]
			copy(ordered[i+1:j+1], ordered[i:j])
			ordered[i] = p
			swapped = true
			break
		}
		if !swapped {
			// Single-category tail; nothing can break the run.
			break
		}
	}
	return ordered
}

// evaluateRequirements returns a human-readable lock reason when any
// rating requirement is unmet, nil otherwise.
func evaluateRequirements(ms *domain.Milestone, in *Inputs) *string {
	for _, req := range ms.Requirements {
		cat := in.category(req.CategoryKey)
		if cat == nil {
			continue
		}
		current := domain.RatingOrStarting(in.Ratings, cat)
		if current < req.MinRating {
			reason := fmt.Sprintf("requires %s rating %d (currently %d, %d to go)",
				req.CategoryKey, req.MinRating, current, req.MinRating-current)
			return &reason
		}
	}
	return nil
}
