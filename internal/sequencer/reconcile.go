package sequencer

import (
	"fmt"
	"sort"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// reconcileResult reports what happened to the stored adjustments.
type reconcileResult struct {
	pruned   []string // adjustment ids referencing completed or absent items
	warnings []domain.Warning
}

// applyAdjustments pins user-deferred items at their requested day
// offsets. Adjustments referencing completed or no-longer-present items
// are pruned. Runs after natural day assignment so relative deltas have
// a base day to shift from.
func applyAdjustments(ordered []placement, in *Inputs) ([]placement, reconcileResult) {
	var res reconcileResult

	byUnit := make(map[string]int, len(ordered))
	for i, p := range ordered {
		byUnit[p.unit.ID] = i
	}

	adjustments := append([]domain.Adjustment(nil), in.Adjustments...)
	sort.SliceStable(adjustments, func(i, j int) bool {
		if !adjustments[i].CreatedAt.Equal(adjustments[j].CreatedAt) {
			return adjustments[i].CreatedAt.Before(adjustments[j].CreatedAt)
		}
		return adjustments[i].ID < adjustments[j].ID
	})

	for _, adj := range adjustments {
		idx, ok := byUnit[adj.UnitID]
		if !ok || in.ItemStatuses[adj.UnitID] == domain.ItemCompleted {
			res.pruned = append(res.pruned, adj.ID)
			continue
		}

		target := ordered[idx].day
		switch {
		case adj.TargetDay != nil:
			target = *adj.TargetDay
		case adj.DeltaDays != nil:
			target += *adj.DeltaDays
		}
		if target < 0 {
			target = 0
		}

		ordered[idx].day = target
		ordered[idx].pinned = true
		ordered[idx].userAdjusted = true
	}

	return ordered, res
}

// enforcePrereqDays restores the ordering invariant after pinning: a
// pinned item's late prerequisite is pulled forward, never the item
// pushed back — unless the prerequisite is itself pinned later, in which
// case the dependent snaps forward to stay valid.
func enforcePrereqDays(ordered []placement, cfg Config) ([]placement, []domain.Warning) {
	var warnings []domain.Warning

	byUnit := make(map[string]int, len(ordered))
	for i, p := range ordered {
		byUnit[p.unit.ID] = i
	}

	for changed, rounds := true, 0; changed && rounds < len(ordered)+1; rounds++ {
		changed = false
		for i := range ordered {
			item := &ordered[i]
			for _, pr := range item.unit.Prereqs {
				j, ok := byUnit[pr]
				if !ok {
					continue
				}
				prereq := &ordered[j]
				if prereq.day <= item.day {
					continue
				}

				if item.pinned && !prereq.pinned {
					warnings = append(warnings, domain.Warning{
						Code:    contract.WarnAdjustmentConflict,
						Message: fmt.Sprintf("pulled %s forward to day %d to keep %s at its requested day", prereq.unit.ID, item.day, item.unit.ID),
					})
					prereq.day = item.day
					changed = true
					continue
				}

				// Prerequisite moved (or was pinned) later: the
				// dependent snaps forward to remain valid.
				if item.unit.Kind == domain.ItemMilestone {
					item.day = nextStudyDayAfter(prereq.day, cfg)
				} else {
					item.day = prereq.day
				}
				changed = true
			}
		}
	}
	return ordered, warnings
}
