package sequencer

import (
	"fmt"
	"sort"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// mixState tracks one category's stream during interleaving.
type mixState struct {
	key         string
	stream      []domain.Unit
	next        int // index of the head unit
	consumedMin int
}

// Mix interleaves per-category unit streams into one globally ordered
// list. Placement follows time-share deficits against the priority
// calculator's targets, subject to prerequisite readiness (including
// cross-category edges) and the consecutive-streak cap. The first-weeks
// coverage guarantee is enforced afterwards by forced substitution.
func Mix(streams map[string][]domain.Unit, priorities []CategoryPriority, cfg Config) ([]domain.Unit, []domain.Warning) {
	var warnings []domain.Warning

	states := make([]*mixState, 0, len(priorities))
	share := make(map[string]float64, len(priorities))
	score := make(map[string]float64, len(priorities))
	rank := make(map[string]int, len(priorities))
	for i, p := range priorities {
		share[p.Key] = p.Share
		score[p.Key] = p.Score
		rank[p.Key] = i
		if len(streams[p.Key]) > 0 {
			states = append(states, &mixState{key: p.Key, stream: streams[p.Key]})
		}
	}

	total := 0
	for _, st := range states {
		total += len(st.stream)
	}

	ordered := make([]domain.Unit, 0, total)
	placed := make(map[string]bool, total)
	totalMin := 0
	streakKey := ""
	streakLen := 0

	for len(ordered) < total {
		pick := pickNext(states, placed, share, score, rank, totalMin, streakKey, streakLen, cfg.StreakCap)
		if pick == nil {
			// Every remaining head is cross-category blocked; cannot
			// happen once cycles are broken, but never spin.
			break
		}

		u := pick.stream[pick.next]
		pick.next++
		pick.consumedMin += u.Minutes
		totalMin += u.Minutes
		placed[u.ID] = true
		ordered = append(ordered, u)

		if u.CategoryKey == streakKey {
			streakLen++
		} else {
			streakKey = u.CategoryKey
			streakLen = 1
		}
	}

	ordered, covWarnings := enforceCoverage(ordered, priorities, cfg)
	warnings = append(warnings, covWarnings...)
	ordered = repairStreaks(ordered, cfg.StreakCap)

	return ordered, warnings
}

// pickNext selects the stream to draw from: the highest-deficit category
// whose head unit is ready and would not break the streak cap. Blocked
// categories fall through to the next by deficit; when every eligible
// head would extend the streak, the cap is relaxed only if no other
// category has content left.
func pickNext(
	states []*mixState,
	placed map[string]bool,
	share map[string]float64,
	score map[string]float64,
	rank map[string]int,
	totalMin int,
	streakKey string,
	streakLen, streakCap int,
) *mixState {
	type candidate struct {
		st      *mixState
		deficit float64
	}

	var ready []candidate
	othersRemain := false
	for _, st := range states {
		if st.next >= len(st.stream) {
			continue
		}
		if st.key != streakKey {
			othersRemain = true
		}
		head := st.stream[st.next]
		if !prereqsPlaced(head, placed) {
			continue
		}
		deficit := share[st.key]*float64(totalMin+head.Minutes) - float64(st.consumedMin)
		ready = append(ready, candidate{st: st, deficit: deficit})
	}
	if len(ready) == 0 {
		return nil
	}

	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].deficit != ready[j].deficit {
			return ready[i].deficit > ready[j].deficit
		}
		si, sj := score[ready[i].st.key], score[ready[j].st.key]
		if si != sj {
			return si > sj
		}
		return rank[ready[i].st.key] < rank[ready[j].st.key]
	})

	for _, c := range ready {
		if c.st.key == streakKey && streakLen >= streakCap && othersRemain {
			continue
		}
		return c.st
	}
	// All ready heads belong to the streaking category; take the best
	// one rather than deadlock.
	return ready[0].st
}

func prereqsPlaced(u domain.Unit, placed map[string]bool) bool {
	for _, p := range u.Prereqs {
		if !placed[p] {
			return false
		}
	}
	return true
}

// enforceCoverage guarantees the first-weeks window touches at least the
// configured number of categories whenever that many have content. An
// underrepresented category's smallest eligible unit is pulled forward
// into the window, smallest duration first to minimize disruption.
func enforceCoverage(ordered []domain.Unit, priorities []CategoryPriority, cfg Config) ([]domain.Unit, []domain.Warning) {
	window := cfg.coverageWindowItems()
	if window > len(ordered) {
		window = len(ordered)
	}
	if window == 0 {
		return ordered, nil
	}

	withContent := make(map[string]bool)
	for _, u := range ordered {
		withContent[u.CategoryKey] = true
	}
	want := cfg.CoverageMinCats
	if len(withContent) < want {
		want = len(withContent)
	}

	var warnings []domain.Warning
	for {
		seen := make(map[string]bool)
		for _, u := range ordered[:window] {
			seen[u.CategoryKey] = true
		}
		if len(seen) >= want {
			return ordered, warnings
		}

		moved := false
		for _, p := range priorities {
			if seen[p.Key] || !withContent[p.Key] {
				continue
			}
			if idx := pullablePick(ordered, p.Key, window); idx >= 0 {
				u := ordered[idx]
				ordered = append(ordered[:idx], ordered[idx+1:]...)
				tail := append([]domain.Unit{u}, ordered[window-1:]...)
				ordered = append(ordered[:window-1], tail...)
				warnings = append(warnings, domain.Warning{
					Code:    contract.WarnCoverageForced,
					Message: fmt.Sprintf("moved %s forward to satisfy first-weeks category coverage", u.ID),
				})
				moved = true
				break
			}
		}
		if !moved {
			return ordered, warnings
		}
	}
}

// pullablePick finds the smallest-duration unit of the category that can
// move to the end of the window: all its prerequisites sit strictly
// before the insertion point. Returns -1 if none qualifies.
func pullablePick(ordered []domain.Unit, key string, window int) int {
	pos := make(map[string]int, len(ordered))
	for i, u := range ordered {
		pos[u.ID] = i
	}

	best := -1
	for i := window - 1; i < len(ordered); i++ {
		u := ordered[i]
		if u.CategoryKey != key {
			continue
		}
		eligible := true
		for _, p := range u.Prereqs {
			if pp, ok := pos[p]; ok && pp >= window-1 {
				eligible = false
				break
			}
		}
		if !eligible {
			continue
		}
		if best < 0 || u.Minutes < ordered[best].Minutes {
			best = i
		}
	}
	return best
}

// repairStreaks fixes runs that coverage substitution may have created:
// the unit ending a too-long run is swapped with the next unit of a
// different category whose prerequisites all precede the run.
func repairStreaks(ordered []domain.Unit, maxRun int) []domain.Unit {
	if maxRun <= 0 {
		return ordered
	}

	for i := 0; i < len(ordered); i++ {
		run := runLengthEndingAt(ordered, i)
		if run <= maxRun {
			continue
		}

		pos := make(map[string]int, len(ordered))
		for j, u := range ordered {
			pos[u.ID] = j
		}

		swapped := false
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].CategoryKey == ordered[i].CategoryKey {
				continue
			}
			ok := true
			for _, p := range ordered[j].Prereqs {
				if pp, exists := pos[p]; exists && pp >= i {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			u := ordered[j]
			copy(ordered[i+1:j+1], ordered[i:j])
			ordered[i] = u
			swapped = true
			break
		}
		if !swapped {
			// Single-category tail; nothing can break the run.
			break
		}
	}
	return ordered
}

func runLengthEndingAt(ordered []domain.Unit, i int) int {
	run := 1
	for j := i - 1; j >= 0 && ordered[j].CategoryKey == ordered[i].CategoryKey; j-- {
		run++
	}
	return run
}
