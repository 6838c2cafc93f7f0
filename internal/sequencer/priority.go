package sequencer

import (
	"fmt"
	"sort"

	"github.com/studyloop/studyloop/internal/domain"
)

// assessmentPassScore is the score treated as "no gap" when computing
// the assessment bonus.
const assessmentPassScore = 70.0

// CategoryPriority is the calculator's verdict for one category.
type CategoryPriority struct {
	Key             string
	Score           float64
	Share           float64 // normalized target share of scheduled time
	Pressure        domain.DeferralPressure
	DeferralCount   int
	MaxDeferralDays int
	Reasons         []PriorityReason
}

// PriorityReason records one factor's contribution, for rationale text.
type PriorityReason struct {
	Code    string
	Message string
	Delta   float64
}

// priorityInput is the per-category view the factor functions score.
type priorityInput struct {
	category   *domain.Category
	rating     int
	assessment *domain.AssessmentOutcome
	milestones []domain.Milestone
	weights    Weights
}

// ComputePriorities scores every category and derives normalized target
// shares. Deferral pressure boosts the share independently of the raw
// score, so a deferred category cannot starve once numerically caught up.
func ComputePriorities(in *Inputs) []CategoryPriority {
	keys := in.sortedCategoryKeys()
	out := make([]CategoryPriority, 0, len(keys))

	for _, key := range keys {
		cat := in.category(key)
		pi := priorityInput{
			category:   cat,
			rating:     domain.RatingOrStarting(in.Ratings, cat),
			milestones: milestonesForCategory(in.Milestones, key),
			weights:    in.Config.Weights,
		}
		if a, ok := in.Assessments[key]; ok {
			pi.assessment = &a
		}

		cp := CategoryPriority{Key: key}
		for _, f := range []func(priorityInput) (float64, *PriorityReason){
			scoreRatingGap,
			scoreAssessmentGap,
			scoreMasteryDiscount,
		} {
			delta, reason := f(pi)
			cp.Score += delta
			if reason != nil {
				cp.Reasons = append(cp.Reasons, *reason)
			}
		}
		if cp.Score < 0 {
			cp.Score = 0
		}

		if d, ok := in.Deferrals[key]; ok {
			cp.DeferralCount = d.DeferralCount
			cp.MaxDeferralDays = d.MaxDeferralDays
		}
		cp.Pressure = domain.PressureForDeferrals(cp.DeferralCount)

		out = append(out, cp)
	}

	normalizeShares(out)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func scoreRatingGap(pi priorityInput) (float64, *PriorityReason) {
	gap := pi.category.TargetRating - pi.rating
	if gap <= 0 {
		return 0, nil
	}
	delta := pi.weights.Gap * pi.category.Weight * float64(gap) / float64(pi.category.TargetSpan())
	return delta, &PriorityReason{
		Code:    "rating_gap",
		Message: fmt.Sprintf("%d rating points below target", gap),
		Delta:   delta,
	}
}

func scoreAssessmentGap(pi priorityInput) (float64, *PriorityReason) {
	if pi.assessment == nil || pi.assessment.AvgScore >= assessmentPassScore {
		return 0, nil
	}
	delta := pi.weights.AssessmentGap * (assessmentPassScore - pi.assessment.AvgScore) / assessmentPassScore
	return delta, &PriorityReason{
		Code:    "assessment_gap",
		Message: fmt.Sprintf("recent assessment averaged %.0f", pi.assessment.AvgScore),
		Delta:   delta,
	}
}

// scoreMasteryDiscount reduces urgency once the rating clears every
// milestone requirement on this category by the mastery margin.
func scoreMasteryDiscount(pi priorityInput) (float64, *PriorityReason) {
	requirements := 0
	for _, ms := range pi.milestones {
		for _, req := range ms.Requirements {
			if req.CategoryKey != pi.category.Key {
				continue
			}
			requirements++
			if pi.rating < req.MinRating+pi.weights.MasteryMargin {
				return 0, nil
			}
		}
	}
	if requirements == 0 {
		return 0, nil
	}
	delta := -pi.weights.Mastery * 0.5
	return delta, &PriorityReason{
		Code:    "mastery_reached",
		Message: "rating clears every milestone requirement",
		Delta:   delta,
	}
}

// normalizeShares converts scores into target time shares, then applies
// the deferral-pressure boost and renormalizes.
func normalizeShares(priorities []CategoryPriority) {
	total := 0.0
	for _, p := range priorities {
		total += p.Score
	}

	for i := range priorities {
		if total > 0 {
			priorities[i].Share = priorities[i].Score / total
		} else {
			priorities[i].Share = 1.0 / float64(len(priorities))
		}
		switch priorities[i].Pressure {
		case domain.PressureMedium:
			priorities[i].Share *= 1.10
		case domain.PressureHigh:
			priorities[i].Share *= 1.25
		}
	}

	boosted := 0.0
	for _, p := range priorities {
		boosted += p.Share
	}
	if boosted > 0 {
		for i := range priorities {
			priorities[i].Share /= boosted
		}
	}
}

func milestonesForCategory(milestones []domain.Milestone, key string) []domain.Milestone {
	var out []domain.Milestone
	for _, ms := range milestones {
		for _, req := range ms.Requirements {
			if req.CategoryKey == key {
				out = append(out, ms)
				break
			}
		}
	}
	return out
}
