package contract

import "github.com/studyloop/studyloop/internal/domain"

// SliceRequest reads a bounded day window of the committed schedule.
// Pure read: never mutates the stored schedule and takes no lock.
type SliceRequest struct {
	LearnerID string
	StartDay  int
	DaySpan   int
}

// SliceResponse is one page of scheduled items plus pagination metadata.
type SliceResponse struct {
	Items []domain.ScheduledItem
	Meta  domain.SliceMeta
	Stale bool // the committed schedule is a stale fallback
}
