// Package requirement evaluates named predicates, alone and in every
// combination, against sampled inventories and tallies how often they hold.
package requirement

import (
	"strings"

	"github.com/Ashenafi-pixel/lootsim/loot"
)

// Predicate is a named check over an inventory. Check may consume from the
// inventory with Release; the evaluator always hands it a private copy.
type Predicate struct {
	Name  string
	Check func(inv *loot.Inventory) bool
}

// ComboSeparator joins predicate names into a combination name.
const ComboSeparator = "+"

// Evaluator tests every subset of its predicates and keeps running tallies.
type Evaluator struct {
	predicates []Predicate
	subsets    [][]int
	names      []string
	counts     []int
	trials     int
}

// NewEvaluator builds the powerset of preds, ordered by subset size and then
// by predicate position.
func NewEvaluator(preds ...Predicate) *Evaluator {
	e := &Evaluator{predicates: preds}
	e.subsets = combinations(len(preds))
	e.names = make([]string, len(e.subsets))
	for i, subset := range e.subsets {
		parts := make([]string, len(subset))
		for j, idx := range subset {
			parts[j] = preds[idx].Name
		}
		e.names[i] = strings.Join(parts, ComboSeparator)
	}
	e.counts = make([]int, len(e.subsets))
	return e
}

// Predicates returns the predicate names in order.
func (e *Evaluator) Predicates() []string {
	out := make([]string, len(e.predicates))
	for i, p := range e.predicates {
		out[i] = p.Name
	}
	return out
}

// Names returns the combination names, parallel to Counts.
func (e *Evaluator) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Subsets returns the predicate names of every combination.
func (e *Evaluator) Subsets() [][]string {
	out := make([][]string, len(e.subsets))
	for i, subset := range e.subsets {
		names := make([]string, len(subset))
		for j, idx := range subset {
			names[j] = e.predicates[idx].Name
		}
		out[i] = names
	}
	return out
}

// Counts returns how many accumulated inventories satisfied each combination.
func (e *Evaluator) Counts() []int {
	out := make([]int, len(e.counts))
	copy(out, e.counts)
	return out
}

// Trials returns the number of accumulated inventories.
func (e *Evaluator) Trials() int { return e.trials }

// Frequencies returns Counts divided by Trials; all zero before any trial.
func (e *Evaluator) Frequencies() []float64 {
	out := make([]float64, len(e.counts))
	if e.trials == 0 {
		return out
	}
	for i, c := range e.counts {
		out[i] = float64(c) / float64(e.trials)
	}
	return out
}

// EvaluateSingle runs each predicate against its own copy of inv.
func (e *Evaluator) EvaluateSingle(inv *loot.Inventory) []bool {
	out := make([]bool, len(e.predicates))
	for i, p := range e.predicates {
		out[i] = p.Check(inv.Clone())
	}
	return out
}

// EvaluateAllSubsets runs every combination against a fresh copy of inv.
// Within a combination the predicates share that copy and stop at the first
// false, so later predicates never consume once the result is known.
func (e *Evaluator) EvaluateAllSubsets(inv *loot.Inventory) []bool {
	out := make([]bool, len(e.subsets))
	for i, subset := range e.subsets {
		scratch := inv.Clone()
		ok := true
		for _, idx := range subset {
			if !e.predicates[idx].Check(scratch) {
				ok = false
				break
			}
		}
		out[i] = ok
	}
	return out
}

// Accumulate evaluates every inventory in batch and adds to the running counts.
func (e *Evaluator) Accumulate(batch []*loot.Inventory) {
	for _, inv := range batch {
		e.Add(inv)
	}
}

// Add evaluates a single inventory and adds it to the running counts.
func (e *Evaluator) Add(inv *loot.Inventory) {
	for i, ok := range e.EvaluateAllSubsets(inv) {
		if ok {
			e.counts[i]++
		}
	}
	e.trials++
}

// combinations lists every subset of {0..n-1}: by size, then lexicographically.
func combinations(n int) [][]int {
	out := make([][]int, 0, 1<<n)
	for r := 0; r <= n; r++ {
		idx := make([]int, r)
		for i := range idx {
			idx[i] = i
		}
		for {
			out = append(out, append([]int(nil), idx...))
			i := r - 1
			for i >= 0 && idx[i] == n-r+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for j := i + 1; j < r; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
	return out
}
