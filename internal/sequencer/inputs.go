package sequencer

import (
	"fmt"
	"sort"
	"time"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// Inputs is the complete, explicit state a regeneration consumes. The
// engine is a pure function of this struct: identical inputs always
// produce identical schedules.
type Inputs struct {
	LearnerID string
	Now       time.Time

	Categories []domain.Category
	Modules    []domain.Module // catalog order
	Milestones []domain.Milestone

	Ratings     map[string]int
	Assessments map[string]domain.AssessmentOutcome
	Deferrals   map[string]domain.DeferralState

	CompletedModules   map[string]bool
	MilestonesComplete map[string]bool
	ItemStatuses       map[string]domain.ItemStatus // unit id -> status from the stored schedule

	Adjustments []domain.Adjustment
	Rotation    domain.RotationState

	Config Config
}

// validate rejects malformed catalog data before any computation runs.
// All failures are InputInvalid: the run aborts and the caller falls
// back to the stored schedule.
func (in *Inputs) validate() error {
	if len(in.Categories) == 0 {
		return &contract.PlanError{
			Code:    contract.ErrInputInvalid,
			Message: "no categories defined",
		}
	}

	catKeys := make(map[string]bool, len(in.Categories))
	for _, c := range in.Categories {
		if c.Key == "" {
			return inputErr("category with empty key")
		}
		if catKeys[c.Key] {
			return inputErr(fmt.Sprintf("duplicate category key %q", c.Key))
		}
		if c.Weight < 0 {
			return inputErr(fmt.Sprintf("category %q: negative weight", c.Key))
		}
		catKeys[c.Key] = true
	}

	moduleIDs := make(map[string]bool, len(in.Modules))
	for _, m := range in.Modules {
		if m.ID == "" {
			return inputErr("module with empty id")
		}
		if moduleIDs[m.ID] {
			return inputErr(fmt.Sprintf("duplicate module id %q", m.ID))
		}
		if !catKeys[m.CategoryKey] {
			return inputErr(fmt.Sprintf("module %q: unknown category %q", m.ID, m.CategoryKey))
		}
		if m.EstimatedMin <= 0 {
			return inputErr(fmt.Sprintf("module %q: estimated minutes must be positive", m.ID))
		}
		moduleIDs[m.ID] = true
	}
	for _, m := range in.Modules {
		for _, p := range m.Prereqs {
			if !moduleIDs[p] {
				return inputErr(fmt.Sprintf("module %q: unknown prerequisite %q", m.ID, p))
			}
		}
	}

	for _, ms := range in.Milestones {
		if ms.ID == "" {
			return inputErr("milestone with empty id")
		}
		if !catKeys[ms.CategoryKey] {
			return inputErr(fmt.Sprintf("milestone %q: unknown category %q", ms.ID, ms.CategoryKey))
		}
		for _, req := range ms.Requirements {
			if !catKeys[req.CategoryKey] {
				return inputErr(fmt.Sprintf("milestone %q: requirement on unknown category %q", ms.ID, req.CategoryKey))
			}
		}
	}

	return nil
}

func inputErr(msg string) error {
	return &contract.PlanError{Code: contract.ErrInputInvalid, Message: msg}
}

// sortedCategoryKeys returns category keys in lexical order. Categories
// are a keyed set; every deterministic traversal goes through here.
func (in *Inputs) sortedCategoryKeys() []string {
	keys := make([]string, 0, len(in.Categories))
	for _, c := range in.Categories {
		keys = append(keys, c.Key)
	}
	sort.Strings(keys)
	return keys
}

func (in *Inputs) category(key string) *domain.Category {
	for i := range in.Categories {
		if in.Categories[i].Key == key {
			return &in.Categories[i]
		}
	}
	return nil
}
