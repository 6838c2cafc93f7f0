package sequencer

import (
	"github.com/google/go-cmp/cmp"

	"github.com/studyloop/studyloop/internal/domain"
)

// Unchanged reports whether a freshly generated schedule is
// item-for-item identical to the stored one. Generation timestamps and
// rationale history are excluded: a regeneration that moves nothing is
// reported as unchanged and the stored schedule is kept.
func Unchanged(prev, next *domain.Schedule) bool {
	if prev == nil || next == nil {
		return false
	}
	return cmp.Equal(prev.Items, next.Items) &&
		cmp.Equal(prev.Pacing, next.Pacing) &&
		prev.HorizonDays == next.HorizonDays
}

// DiffItems renders the item-level differences between two schedules,
// for verbose plan output. Empty when the schedules match.
func DiffItems(prev, next *domain.Schedule) string {
	if prev == nil || next == nil {
		return ""
	}
	return cmp.Diff(prev.Items, next.Items)
}
