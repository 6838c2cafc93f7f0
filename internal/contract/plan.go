package contract

import (
	"time"

	"github.com/studyloop/studyloop/internal/domain"
)

// PlanRequest asks the planner to (re)generate a learner's schedule.
type PlanRequest struct {
	LearnerID string
	Now       *time.Time // overrides wall clock, mainly for tests
}

// PlanResponse carries the committed schedule and what happened to it.
type PlanResponse struct {
	Schedule *domain.Schedule
	Status   domain.PlanStatus
	Warnings []domain.Warning
}

type PlanErrorCode string

const (
	ErrInputInvalid   PlanErrorCode = "INPUT_INVALID"
	ErrNoCatalog      PlanErrorCode = "NO_CATALOG"
	ErrNoSchedule     PlanErrorCode = "NO_SCHEDULE"
	ErrUnknownItem    PlanErrorCode = "UNKNOWN_ITEM"
	ErrInvalidRequest PlanErrorCode = "INVALID_REQUEST"
	ErrInternal       PlanErrorCode = "INTERNAL_ERROR"
)

type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}
