package domain

// RubricBand labels a rating range within a category's rubric.
type RubricBand struct {
	MinRating int
	Label     string
}

// Category defines one curriculum track (e.g. "backend", "frontend").
// Categories are keyed by stable string id; the key never changes even
// as categories are added or removed mid-course.
type Category struct {
	Key            string
	Label          string
	Weight         float64 // relative emphasis, >= 0
	StartingRating int
	TargetRating   int
	Bands          []RubricBand
}

// TargetSpan returns the rating distance between the starting and target
// rating, floored at 1 so urgency ratios stay defined.
func (c *Category) TargetSpan() int {
	span := c.TargetRating - c.StartingRating
	if span < 1 {
		return 1
	}
	return span
}

// BandLabel returns the rubric band label for the given rating, or ""
// when the category declares no bands.
func (c *Category) BandLabel(rating int) string {
	label := ""
	for _, b := range c.Bands {
		if rating >= b.MinRating {
			label = b.Label
		}
	}
	return label
}
