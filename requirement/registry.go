package requirement

import (
	"sort"

	"github.com/Ashenafi-pixel/lootsim/loot"
)

// Builtin predicate names.
const (
	NoReq       = "no_req"
	Lightable   = "lightable"
	Edible      = "edible"
	Nuggets     = "nuggets"
	Completable = "completable"
	Couri       = "couri"
)

// ObsidianNeeded is the percentage chance, indexed by block count, that a
// ruined portal is missing that many obsidian blocks. It sums to 100.
var ObsidianNeeded = []int{0, 7, 3, 4, 14, 12, 3, 42, 15, 0, 0}

// Registry resolves predicate names to implementations.
type Registry struct {
	rng    loot.RNG
	checks map[string]func(*loot.Inventory) bool
}

// NewRegistry returns a registry holding the builtin predicates. rng feeds
// predicates that draw their own thresholds, such as completable.
func NewRegistry(rng loot.RNG) *Registry {
	r := &Registry{rng: rng, checks: make(map[string]func(*loot.Inventory) bool)}
	r.Register(NoReq, func(*loot.Inventory) bool { return true })
	r.Register(Lightable, lightable)
	r.Register(Edible, edible)
	r.Register(Nuggets, func(inv *loot.Inventory) bool {
		return inv.Release(loot.NewItem("iron_nugget", 27))
	})
	r.Register(Completable, func(inv *loot.Inventory) bool {
		return inv.Release(loot.NewItem("obsidian", r.obsidianCount()))
	})
	r.Register(Couri, func(inv *loot.Inventory) bool {
		return inv.Release(loot.NewItem("obsidian", 8))
	})
	return r
}

// Register adds or replaces a named predicate.
func (r *Registry) Register(name string, check func(*loot.Inventory) bool) {
	r.checks[name] = check
}

// Names lists registered predicate names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.checks))
	for name := range r.checks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve maps names to predicates, failing on the first unknown name.
func (r *Registry) Resolve(names []string) ([]Predicate, error) {
	out := make([]Predicate, 0, len(names))
	for _, name := range names {
		check, ok := r.checks[name]
		if !ok {
			return nil, loot.ConfigErrorf("unknown requirement %q", name)
		}
		out = append(out, Predicate{Name: name, Check: check})
	}
	return out, nil
}

// lightable: flint and steel, else a fire charge, else flint plus 9 iron nuggets.
func lightable(inv *loot.Inventory) bool {
	if inv.Release(loot.NewItem("flint_and_steel", 1)) || inv.Release(loot.NewItem("fire_charge", 1)) {
		return true
	}
	flint := loot.NewItem("flint", 1)
	nuggets := loot.NewItem("iron_nugget", 9)
	if inv.Contains(flint) && inv.Contains(nuggets) && inv.ContainsAtLeast(nuggets) {
		inv.Release(flint)
		inv.Release(nuggets)
		return true
	}
	return false
}

// edible: a golden carrot stack, else two apples of any golden kind, else two
// enchanted golden apples. A golden apple taken by the second branch stays
// taken when that branch fails.
func edible(inv *loot.Inventory) bool {
	carrots := loot.NewItem("golden_carrot", 1)
	apple := loot.NewItem("golden_apple", 1)
	notch := loot.NewItem("enchanted_golden_apple", 1)
	if inv.Release(carrots) {
		return true
	}
	if inv.Release(apple) {
		if inv.Release(notch) || inv.Release(apple) {
			return true
		}
	}
	return inv.Release(notch) && inv.Release(notch)
}

func (r *Registry) obsidianCount() int {
	roll := r.rng.Intn(100)
	cum := 0
	for count, pct := range ObsidianNeeded {
		cum += pct
		if roll < cum {
			return count
		}
	}
	return len(ObsidianNeeded) - 1
}
