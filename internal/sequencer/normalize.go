package sequencer

import (
	"fmt"

	"github.com/studyloop/studyloop/internal/domain"
)

// SplitModule turns one catalog module into schedulable units. Modules
// at or under the session cap pass through unchanged. Longer modules
// split into ceil(minutes/cap) roughly equal parts, the last part
// absorbing the remainder, chained part[i] -> part[i-1] so dependents
// of the whole module wait for the final part.
func SplitModule(m domain.Module, capMin int) []domain.Unit {
	kind := domain.ItemLesson
	if m.Kind == domain.ModuleQuiz {
		kind = domain.ItemQuiz
	}

	if capMin <= 0 || m.EstimatedMin <= capMin {
		return []domain.Unit{{
			ID:          m.ID,
			CategoryKey: m.CategoryKey,
			Kind:        kind,
			Title:       m.Title,
			Minutes:     m.EstimatedMin,
			Prereqs:     append([]string(nil), m.Prereqs...),
			ModuleID:    m.ID,
			Refresher:   m.Refresher,
		}}
	}

	parts := (m.EstimatedMin + capMin - 1) / capMin
	base := m.EstimatedMin / parts
	remainder := m.EstimatedMin - base*parts

	units := make([]domain.Unit, 0, parts)
	for i := 1; i <= parts; i++ {
		minutes := base
		if i == parts {
			minutes += remainder
		}

		var prereqs []string
		if i == 1 {
			// External prerequisites gate only the first part.
			prereqs = append([]string(nil), m.Prereqs...)
		} else {
			prereqs = []string{PartUnitID(m.ID, i-1)}
		}

		units = append(units, domain.Unit{
			ID:          PartUnitID(m.ID, i),
			CategoryKey: m.CategoryKey,
			Kind:        kind,
			Title:       fmt.Sprintf("%s (part %d/%d)", m.Title, i, parts),
			Minutes:     minutes,
			Prereqs:     prereqs,
			ModuleID:    m.ID,
			PartIndex:   i,
			PartCount:   parts,
			Refresher:   m.Refresher,
		})
	}
	return units
}

// PartUnitID names the i-th split part of a module.
func PartUnitID(moduleID string, i int) string {
	return fmt.Sprintf("%s#%d", moduleID, i)
}

// normalized holds the unit expansion of the whole catalog plus the
// lookup tables later stages need.
type normalized struct {
	units      []domain.Unit            // catalog order, parts in sequence
	byID       map[string]*domain.Unit  // unit id -> unit
	lastPart   map[string]string        // module id -> unit id satisfying dependents
	byCategory map[string][]domain.Unit // category key -> units in catalog order
}

// normalizeCatalog expands every module through the session cap and
// rewrites module-level prerequisites to unit-level ones: a dependent of
// module X waits for X's final part.
func normalizeCatalog(modules []domain.Module, capMin int) *normalized {
	n := &normalized{
		byID:       make(map[string]*domain.Unit),
		lastPart:   make(map[string]string),
		byCategory: make(map[string][]domain.Unit),
	}

	for _, m := range modules {
		units := SplitModule(m, capMin)
		n.lastPart[m.ID] = units[len(units)-1].ID
		n.units = append(n.units, units...)
	}

	// Second pass: module-id prereqs become final-part unit ids. Split
	// parts reference their predecessor part directly and are skipped.
	for i := range n.units {
		u := &n.units[i]
		if u.PartIndex > 1 {
			continue
		}
		for j, p := range u.Prereqs {
			if last, ok := n.lastPart[p]; ok {
				u.Prereqs[j] = last
			}
		}
	}

	for i := range n.units {
		u := &n.units[i]
		n.byID[u.ID] = u
		n.byCategory[u.CategoryKey] = append(n.byCategory[u.CategoryKey], *u)
	}
	return n
}
