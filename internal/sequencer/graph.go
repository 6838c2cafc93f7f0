package sequencer

import (
	"fmt"
	"sort"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/domain"
)

// unitGraph is the mutable prerequisite graph cycle breaking and
// topological ordering operate on. Units keep catalog order; completed
// modules are removed with their prerequisite edges treated as
// satisfied.
type unitGraph struct {
	units []domain.Unit
	index map[string]int // unit id -> position in units
}

func buildGraph(n *normalized, completedModules map[string]bool) *unitGraph {
	g := &unitGraph{index: make(map[string]int)}

	retained := make(map[string]bool)
	for _, u := range n.units {
		if completedModules[u.ModuleID] {
			continue
		}
		retained[u.ID] = true
	}

	for _, u := range n.units {
		if !retained[u.ID] {
			continue
		}
		cp := u
		cp.Prereqs = nil
		for _, p := range u.Prereqs {
			// Edges into removed (completed) units are satisfied.
			if retained[p] {
				cp.Prereqs = append(cp.Prereqs, p)
			}
		}
		g.index[cp.ID] = len(g.units)
		g.units = append(g.units, cp)
	}
	return g
}

// breakCycles detects prerequisite cycles by DFS coloring and breaks
// each one deterministically: the cycle edge whose dependent's category
// carries the lowest priority score is dropped (lexicographic edge id on
// ties). Authoring mistakes become warnings, never fatal errors, so the
// planner always terminates.
func (g *unitGraph) breakCycles(catScore map[string]float64) []domain.Warning {
	var warnings []domain.Warning

	dependents := g.dependentIndex()

	for {
		cycle := g.findCycle(dependents)
		if cycle == nil {
			return warnings
		}

		from, to := g.pickCycleEdge(cycle, catScore)
		g.dropEdge(from, to)
		dependents = g.dependentIndex()

		warnings = append(warnings, domain.Warning{
			Code:    contract.WarnPrerequisiteCycle,
			Message: fmt.Sprintf("prerequisite cycle broken: dropped edge %s -> %s", from, to),
		})
	}
}

// dependentIndex maps unit id -> ids that list it as a prerequisite,
// each list in catalog order.
func (g *unitGraph) dependentIndex() map[string][]string {
	out := make(map[string][]string)
	for _, u := range g.units {
		for _, p := range u.Prereqs {
			out[p] = append(out[p], u.ID)
		}
	}
	return out
}

const (
	colorWhite = 0 // unvisited
	colorGray  = 1 // on current path
	colorBlack = 2 // fully processed
)

// findCycle returns the unit ids of one prerequisite cycle, or nil when
// the graph is acyclic. Traversal order follows catalog order so the
// same inputs always surface the same cycle first.
func (g *unitGraph) findCycle(dependents map[string][]string) []string {
	color := make(map[string]int, len(g.units))
	var path []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = colorGray
		path = append(path, id)
		for _, next := range dependents[id] {
			if color[next] == colorGray {
				// Close the loop: slice the current path from next onward.
				for i, pid := range path {
					if pid == next {
						cycle = append([]string(nil), path[i:]...)
						return true
					}
				}
			}
			if color[next] == colorWhite && visit(next) {
				return true
			}
		}
		color[id] = colorBlack
		path = path[:len(path)-1]
		return false
	}

	for _, u := range g.units {
		if color[u.ID] == colorWhite {
			path = path[:0]
			if visit(u.ID) {
				return cycle
			}
		}
	}
	return nil
}

// pickCycleEdge selects the cycle edge to drop: lowest dependent
// category priority first, then smallest "from->to" id.
func (g *unitGraph) pickCycleEdge(cycle []string, catScore map[string]float64) (from, to string) {
	type edge struct {
		from, to string
		score    float64
	}
	edges := make([]edge, 0, len(cycle))
	for i, id := range cycle {
		next := cycle[(i+1)%len(cycle)]
		dep := g.units[g.index[next]]
		edges = append(edges, edge{from: id, to: next, score: catScore[dep.CategoryKey]})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].score != edges[j].score {
			return edges[i].score < edges[j].score
		}
		ei := edges[i].from + "->" + edges[i].to
		ej := edges[j].from + "->" + edges[j].to
		return ei < ej
	})
	return edges[0].from, edges[0].to
}

func (g *unitGraph) dropEdge(from, to string) {
	u := &g.units[g.index[to]]
	kept := u.Prereqs[:0]
	for _, p := range u.Prereqs {
		if p != from {
			kept = append(kept, p)
		}
	}
	u.Prereqs = kept
}

// topoStreams orders units globally by Kahn's algorithm (catalog order
// among ready units) and projects the result onto per-category streams.
// Each stream is topologically valid within its category; cross-category
// edges are enforced later by the mixer's readiness check.
func (g *unitGraph) topoStreams() map[string][]domain.Unit {
	indegree := make(map[string]int, len(g.units))
	dependents := g.dependentIndex()
	for _, u := range g.units {
		indegree[u.ID] = len(u.Prereqs)
	}

	ready := make([]int, 0, len(g.units))
	for i, u := range g.units {
		if indegree[u.ID] == 0 {
			ready = append(ready, i)
		}
	}

	streams := make(map[string][]domain.Unit)
	for len(ready) > 0 {
		sort.Ints(ready)
		pos := ready[0]
		ready = ready[1:]

		u := g.units[pos]
		streams[u.CategoryKey] = append(streams[u.CategoryKey], u)

		for _, depID := range dependents[u.ID] {
			indegree[depID]--
			if indegree[depID] == 0 {
				ready = append(ready, g.index[depID])
			}
		}
	}
	return streams
}
