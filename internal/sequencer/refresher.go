package sequencer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// refresherRelevanceFloor is the minimum priority score for a category
// to keep receiving long-range refresher slots.
const refresherRelevanceFloor = 0.05

// injectRefreshers extends the ordered list into the configured horizon
// with spaced-repetition reviews. The persisted rotation pointer walks
// the relevant categories round-robin; each injection slot places at
// most one review, skipping categories with no remaining eligible
// content, categories refreshed too recently, and weeks whose pacing
// budget is spent. The pointer itself only moves when the learner
// completes a review, so regenerating with unchanged state reproduces
// the same layout.
func injectRefreshers(ordered []placement, in *Inputs, priorities []CategoryPriority) ([]placement, []domain.Warning) {
	cfg := in.Config

	var relevant []string
	for _, p := range priorities {
		if p.Score >= refresherRelevanceFloor {
			relevant = append(relevant, p.Key)
		}
	}
	sort.Strings(relevant)
	if len(relevant) == 0 || cfg.RefresherCadenceDays <= 0 {
		return ordered, nil
	}

	pool := refresherPool(in, ordered)

	denseEnd := 0
	cursor := newDayCursor(cfg)
	for _, p := range ordered {
		if p.unit.Kind == domain.ItemMilestone {
			continue
		}
		denseEnd = cursor.place(p.unit.Minutes)
	}

	hadSlots := false
	injectedAny := false
	lastDay := make(map[string]int)
	weekMin := make(map[int]int)

	next := rotationStart(relevant, in.Rotation.LastCategoryKey)
	for day := denseEnd + cfg.RefresherCadenceDays; day < cfg.HorizonDays; day += cfg.RefresherCadenceDays {
		hadSlots = true

		for tries := 0; tries < len(relevant); tries++ {
			key := relevant[next]
			next = (next + 1) % len(relevant)

			if last, ok := lastDay[key]; ok && day-last < cfg.RefresherGapDays {
				continue
			}
			units := pool[key]
			if len(units) == 0 {
				continue
			}
			u := units[0]
			if cfg.WeeklyBudgetMin > 0 && weekMin[day/7]+u.Minutes > cfg.WeeklyBudgetMin {
				break
			}

			pool[key] = units[1:]
			lastDay[key] = day
			weekMin[day/7] += u.Minutes
			injectedAny = true

			ordered = append(ordered, placement{unit: u, day: day, pinned: true})
			break
		}
	}

	var warnings []domain.Warning
	if hadSlots && !injectedAny {
		warnings = append(warnings, domain.Warning{
			Code:    contract.WarnNoEligibleContent,
			Message: "no refresher-eligible content for the long-range horizon",
		})
	}
	return ordered, warnings
}

// IsReviewUnit reports whether a unit id names an injected refresher
// review rather than first-pass content.
func IsReviewUnit(unitID string) bool {
	return strings.HasSuffix(unitID, "~review")
}

// refresherPool collects review units per category: refresher-flagged
// modules the learner has already seen (completed, or placed in the
// dense sequence), in catalog order.
func refresherPool(in *Inputs, ordered []placement) map[string][]domain.Unit {
	seen := make(map[string]bool)
	for _, p := range ordered {
		if p.unit.ModuleID != "" {
			seen[p.unit.ModuleID] = true
		}
	}

	pool := make(map[string][]domain.Unit)
	for _, m := range in.Modules {
		if !m.Refresher {
			continue
		}
		if !in.CompletedModules[m.ID] && !seen[m.ID] {
			continue
		}
		minutes := m.EstimatedMin
		if minutes > in.Config.SessionCapMin {
			minutes = in.Config.SessionCapMin
		}
		kind := domain.ItemLesson
		if m.Kind == domain.ModuleQuiz {
			kind = domain.ItemQuiz
		}
		pool[m.CategoryKey] = append(pool[m.CategoryKey], domain.Unit{
			ID:          fmt.Sprintf("%s~review", m.ID),
			CategoryKey: m.CategoryKey,
			Kind:        kind,
			Title:       "Review: " + m.Title,
			Minutes:     minutes,
			ModuleID:    m.ID,
			Refresher:   true,
		})
	}
	return pool
}

// rotationStart returns the index after the persisted pointer so the
// cycle resumes instead of restarting on the same category.
func rotationStart(relevant []string, last string) int {
	if last == "" {
		return 0
	}
	for i, key := range relevant {
		if key == last {
			return (i + 1) % len(relevant)
		}
	}
	// Pointer category dropped out (no longer relevant); resume at the
	// first key sorting after it.
	for i, key := range relevant {
		if key > last {
			return i
		}
	}
	return 0
}
