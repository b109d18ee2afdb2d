package loot

import (
	"errors"
	"fmt"
)

// Pool is a weighted group of generators rolled a uniform number of times.
type Pool struct {
	MinRolls   int
	MaxRolls   int
	generators []Generator
}

// NewPool builds and validates a pool.
func NewPool(minRolls, maxRolls int, generators ...Generator) (*Pool, error) {
	p := &Pool{MinRolls: minRolls, MaxRolls: maxRolls}
	for _, g := range generators {
		p.Add(g)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Add appends a generator. Call Validate once loading is done.
func (p *Pool) Add(g Generator) {
	p.generators = append(p.generators, g)
}

// Generators returns the pool members in order.
func (p *Pool) Generators() []Generator {
	out := make([]Generator, len(p.generators))
	copy(out, p.generators)
	return out
}

// TotalWeight is the sum of member weights.
func (p *Pool) TotalWeight() int {
	total := 0
	for _, g := range p.generators {
		total += g.Weight
	}
	return total
}

// Validate checks the roll range, every member, and that the total weight is positive.
// Individual zero-weight members are allowed and never selected.
func (p *Pool) Validate() error {
	if p.MinRolls < 0 {
		return ConfigErrorf("min rolls must be >= 0, got %d", p.MinRolls)
	}
	if p.MinRolls > p.MaxRolls {
		return ConfigErrorf("min rolls (%d) must be <= max rolls (%d)", p.MinRolls, p.MaxRolls)
	}
	for i, g := range p.generators {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("entry[%d]: %w", i, err)
		}
	}
	if p.TotalWeight() <= 0 {
		return ConfigErrorf("total weight of %d entries is 0", len(p.generators))
	}
	return nil
}

// Generate rolls the pool once: draws a roll count in [MinRolls, MaxRolls] and
// selects a member by weight, with replacement, for every roll.
func (p *Pool) Generate(rng RNG) (*Inventory, error) {
	total := p.TotalWeight()
	if total <= 0 {
		return nil, ConfigErrorf("total weight of %d entries is 0", len(p.generators))
	}
	rolls := between(rng, p.MinRolls, p.MaxRolls)
	items := make([]Item, 0, rolls)
	for i := 0; i < rolls; i++ {
		g, ok := p.pick(rng, total)
		if !ok {
			return nil, invariantf("weighted pick failed for total weight %d", total)
		}
		it, err := g.Generate(rng)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return NewInventory(rolls, items...), nil
}

// pick walks the cumulative weights, skipping zero-weight members.
func (p *Pool) pick(rng RNG, total int) (Generator, bool) {
	idx := rng.Intn(total)
	cum := 0
	for i := range p.generators {
		g := &p.generators[i]
		if g.Weight <= 0 {
			continue
		}
		cum += g.Weight
		if idx < cum {
			return *g, true
		}
	}
	return Generator{}, false
}

// Table is an ordered set of pools generated together, ChestCount times each.
type Table struct {
	Pools      []*Pool
	ChestCount int
}

// NewTable builds a table. A chestCount of 0 means 1.
func NewTable(chestCount int, pools ...*Pool) (*Table, error) {
	t := &Table{Pools: pools, ChestCount: chestCount}
	if t.ChestCount == 0 {
		t.ChestCount = 1
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the chest count and every pool.
func (t *Table) Validate() error {
	if t.ChestCount < 1 {
		return ConfigErrorf("chest count must be >= 1, got %d", t.ChestCount)
	}
	var errs []error
	for i, p := range t.Pools {
		if p == nil {
			errs = append(errs, ConfigErrorf("pool[%d] is nil", i))
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("pool[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Generate invokes every pool ChestCount times and merges the results.
func (t *Table) Generate(rng RNG) (*Inventory, error) {
	chests := t.ChestCount
	if chests == 0 {
		chests = 1
	}
	parts := make([]*Inventory, 0, len(t.Pools)*chests)
	for i, p := range t.Pools {
		for c := 0; c < chests; c++ {
			inv, err := p.Generate(rng)
			if err != nil {
				return nil, fmt.Errorf("pool[%d]: %w", i, err)
			}
			parts = append(parts, inv)
		}
	}
	return Merge(parts...), nil
}
