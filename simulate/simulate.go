// Package simulate runs batches of loot table generations and feeds them to a
// requirement evaluator.
package simulate

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Ashenafi-pixel/lootsim/logger"
	"github.com/Ashenafi-pixel/lootsim/loot"
	"github.com/Ashenafi-pixel/lootsim/requirement"
)

// DefaultProgressEvery is how many trials pass between progress callbacks.
const DefaultProgressEvery = 100

// Simulator generates chests from one table with one random source.
type Simulator struct {
	table         *loot.Table
	rng           loot.RNG
	logger        *slog.Logger
	progress      func(done, total int)
	progressEvery int
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for run start and finish events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithProgress calls fn every `every` trials and once at the end.
func WithProgress(every int, fn func(done, total int)) Option {
	return func(s *Simulator) {
		if every > 0 {
			s.progressEvery = every
		}
		s.progress = fn
	}
}

// New returns a Simulator for table drawing from rng.
func New(table *loot.Table, rng loot.RNG, opts ...Option) *Simulator {
	s := &Simulator{
		table:         table,
		rng:           rng,
		logger:        slog.Default(),
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Batch generates n independent chests.
func (s *Simulator) Batch(n int) ([]*loot.Inventory, error) {
	if n < 0 {
		return nil, fmt.Errorf("batch size must be >= 0, got %d", n)
	}
	out := make([]*loot.Inventory, 0, n)
	for i := 0; i < n; i++ {
		inv, err := s.table.Generate(s.rng)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		out = append(out, inv)
	}
	return out, nil
}

// Combination is the tally for one subset of requirements.
type Combination struct {
	Name         string   `json:"name"`
	Requirements []string `json:"requirements"`
	Count        int      `json:"count"`
	Probability  float64  `json:"probability"`
}

// ItemStat summarises one reward name over all trials.
type ItemStat struct {
	Name      string  `json:"name"`
	Total     int     `json:"total"`
	PerChest  float64 `json:"per_chest"`
	Presence  int     `json:"presence"`
	PresenceP float64 `json:"presence_probability"`
}

// Result is the outcome of one Run. Trials, Rolls and Items cover this run
// only; Combinations are the evaluator's running tallies over
// EvaluatedTrials, which is larger than Trials when the evaluator was reused.
type Result struct {
	RunID           string        `json:"run_id"`
	Table           string        `json:"table,omitempty"`
	Seed            int64         `json:"seed,omitempty"`
	Trials          int           `json:"trials"`
	EvaluatedTrials int           `json:"evaluated_trials"`
	Rolls           int           `json:"rolls"`
	Requirements    []string      `json:"requirements"`
	Combinations    []Combination `json:"combinations"`
	Items           []ItemStat    `json:"items"`
	Elapsed         time.Duration `json:"elapsed_ns"`

	totals *loot.Inventory
}

// Totals returns every chest of the run merged into one inventory.
func (r *Result) Totals() *loot.Inventory { return r.totals }

// Run generates trials chests, accumulates them into ev, and summarises.
// ev keeps its tallies, so the Result reflects any earlier accumulation too.
func (s *Simulator) Run(trials int, ev *requirement.Evaluator) (*Result, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be >= 1, got %d", trials)
	}
	runID := uuid.NewString()
	log := logger.WithRunID(s.logger, runID)
	log.Info("simulation started", "trials", trials, "requirements", ev.Predicates())

	start := time.Now()
	totals := loot.NewInventory(0)
	presence := make(map[string]int)
	for i := 0; i < trials; i++ {
		inv, err := s.table.Generate(s.rng)
		if err != nil {
			log.Error("simulation aborted", "trial", i, "error", err)
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		ev.Add(inv)
		for name := range names(inv) {
			presence[name]++
		}
		totals = loot.Merge(totals, inv)
		if s.progress != nil && (i+1)%s.progressEvery == 0 {
			s.progress(i+1, trials)
		}
	}
	if s.progress != nil && trials%s.progressEvery != 0 {
		s.progress(trials, trials)
	}

	res := &Result{
		RunID:           runID,
		Trials:          trials,
		EvaluatedTrials: ev.Trials(),
		Rolls:           totals.Rolls(),
		Requirements:    ev.Predicates(),
		Elapsed:         time.Since(start),
		totals:          totals,
	}
	res.Combinations = combinations(ev)
	res.Items = itemStats(totals, presence, trials)
	log.Info("simulation complete", "trials", trials, "rolls", res.Rolls, "elapsed", res.Elapsed)
	return res, nil
}

func combinations(ev *requirement.Evaluator) []Combination {
	names := ev.Names()
	subsets := ev.Subsets()
	counts := ev.Counts()
	freqs := ev.Frequencies()
	out := make([]Combination, len(names))
	for i := range names {
		out[i] = Combination{
			Name:         names[i],
			Requirements: subsets[i],
			Count:        counts[i],
			Probability:  freqs[i],
		}
	}
	return out
}

func names(inv *loot.Inventory) map[string]struct{} {
	out := make(map[string]struct{})
	for _, it := range inv.Items() {
		out[it.Name] = struct{}{}
	}
	return out
}

// itemStats groups totals by reward name, so every enchantment variant of an
// item counts toward the same row. Sorted by total, descending.
func itemStats(totals *loot.Inventory, presence map[string]int, trials int) []ItemStat {
	byName := make(map[string]int)
	for _, it := range totals.Items() {
		byName[it.Name] += it.Count
	}
	out := make([]ItemStat, 0, len(byName))
	for name, total := range byName {
		out = append(out, ItemStat{
			Name:      name,
			Total:     total,
			PerChest:  float64(total) / float64(trials),
			Presence:  presence[name],
			PresenceP: float64(presence[name]) / float64(trials),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}
