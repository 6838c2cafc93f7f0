package domain

import "time"

// Rating is a learner's current skill rating in one category.
type Rating struct {
	CategoryKey string
	Value       int
	UpdatedAt   time.Time
}

// AssessmentOutcome is the most recent assessment result per category:
// the average score across graded exercises (0-100) and the rating delta
// the grader applied.
type AssessmentOutcome struct {
	CategoryKey string
	AvgScore    float64
	RatingDelta int
	RecordedAt  time.Time
}

// RatingOrStarting returns the learner's rating for the category, falling
// back to the category's starting rating when no rating is recorded.
func RatingOrStarting(ratings map[string]int, cat *Category) int {
	if r, ok := ratings[cat.Key]; ok {
		return r
	}
	return cat.StartingRating
}
