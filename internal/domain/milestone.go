package domain

import "time"

// RatingRequirement gates a milestone on a minimum category rating.
type RatingRequirement struct {
	CategoryKey string
	MinRating   int
}

// Milestone is a capstone checkpoint placed after its required modules.
type Milestone struct {
	ID           string
	CategoryKey  string
	Title        string
	RequiredIDs  []string // module ids whose units must all be scheduled first
	Requirements []RatingRequirement
	BriefRef     string // opaque reference to the brief content
}

// MilestoneCompletion records that a learner finished a milestone.
type MilestoneCompletion struct {
	MilestoneID string
	CompletedAt time.Time
}
