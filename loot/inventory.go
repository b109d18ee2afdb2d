package loot

import (
	"sort"
	"strings"
)

// Inventory is a multiset of rewards produced by one or more generations.
// Plain rewards are keyed by name and enchanted rewards by their identity key;
// every stored count is at least 1.
type Inventory struct {
	plain     map[string]*Item
	enchanted map[string]*Item
	rolls     int
}

// NewInventory builds an inventory from items, combining same-identity stacks.
// An item with a count below 1 violates the inventory invariant and panics.
func NewInventory(rolls int, items ...Item) *Inventory {
	inv := &Inventory{
		plain:     make(map[string]*Item),
		enchanted: make(map[string]*Item),
		rolls:     rolls,
	}
	for _, it := range items {
		inv.add(it)
	}
	return inv
}

func (inv *Inventory) add(it Item) {
	if it.Count < 1 {
		panic(invariantf("item %s added with count %d", it.Key(), it.Count))
	}
	bucket := inv.bucket(it)
	key := it.Key()
	if existing, ok := bucket[key]; ok {
		existing.Count += it.Count
		return
	}
	stored := it
	bucket[key] = &stored
}

func (inv *Inventory) bucket(it Item) map[string]*Item {
	if it.Enchanted() {
		return inv.enchanted
	}
	return inv.plain
}

// Merge concatenates the contents and rolls of every input into a new inventory.
func Merge(inventories ...*Inventory) *Inventory {
	rolls := 0
	var items []Item
	for _, in := range inventories {
		if in == nil {
			continue
		}
		rolls += in.rolls
		items = append(items, in.Items()...)
	}
	return NewInventory(rolls, items...)
}

// Clone returns a deep copy that shares no state with inv.
func (inv *Inventory) Clone() *Inventory {
	return NewInventory(inv.rolls, inv.Items()...)
}

// Rolls returns the number of draws that produced this inventory.
func (inv *Inventory) Rolls() int { return inv.rolls }

// Len returns the number of distinct stacks.
func (inv *Inventory) Len() int { return len(inv.plain) + len(inv.enchanted) }

// Items returns copies of every stack, plain rewards first, each group sorted by key.
func (inv *Inventory) Items() []Item {
	out := make([]Item, 0, inv.Len())
	out = append(out, sortedItems(inv.plain)...)
	out = append(out, sortedItems(inv.enchanted)...)
	return out
}

// Counts returns the identity key to count mapping.
func (inv *Inventory) Counts() map[string]int {
	out := make(map[string]int, inv.Len())
	for k, it := range inv.plain {
		out[k] = it.Count
	}
	for k, it := range inv.enchanted {
		out[k] = it.Count
	}
	return out
}

// Contains reports whether any entry matches target, regardless of count.
func (inv *Inventory) Contains(target Item) bool {
	for _, it := range inv.candidates(target) {
		if Matches(target, *it) {
			return true
		}
	}
	return false
}

// ContainsAtLeast reports whether a single matching entry holds at least target.Count.
func (inv *Inventory) ContainsAtLeast(target Item) bool {
	return inv.find(target) != nil
}

// Count returns the total count over every entry matching target.
func (inv *Inventory) Count(target Item) int {
	total := 0
	for _, it := range inv.candidates(target) {
		if Matches(target, *it) {
			total += it.Count
		}
	}
	return total
}

// Release consumes target.Count from the first matching entry that holds enough.
// It returns false and leaves the inventory untouched when no entry can cover
// the request. Entries reaching zero are removed.
func (inv *Inventory) Release(target Item) bool {
	if target.Count < 1 {
		panic(invariantf("release of %s with count %d", target.Key(), target.Count))
	}
	entry := inv.find(target)
	if entry == nil {
		return false
	}
	remaining := entry.Count - target.Count
	switch {
	case remaining < 0:
		panic(invariantf("release of %s left count %d", entry.Key(), remaining))
	case remaining == 0:
		delete(inv.bucket(*entry), entry.Key())
	default:
		entry.Count = remaining
	}
	return true
}

// find returns the first matching entry, by key order, with enough count.
func (inv *Inventory) find(target Item) *Item {
	if !target.Enchanted() {
		if it, ok := inv.plain[target.Name]; ok && it.Count >= target.Count {
			return it
		}
		return nil
	}
	keys := make([]string, 0, len(inv.enchanted))
	for k := range inv.enchanted {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		it := inv.enchanted[k]
		if Matches(target, *it) && it.Count >= target.Count {
			return it
		}
	}
	return nil
}

func (inv *Inventory) candidates(target Item) []*Item {
	if !target.Enchanted() {
		if it, ok := inv.plain[target.Name]; ok {
			return []*Item{it}
		}
		return nil
	}
	out := make([]*Item, 0, len(inv.enchanted))
	for _, it := range inv.enchanted {
		out = append(out, it)
	}
	return out
}

func (inv *Inventory) String() string {
	var b strings.Builder
	b.WriteString("Inventory{")
	for i, it := range inv.Items() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(it.String())
	}
	b.WriteString("}")
	return b.String()
}

func sortedItems(m map[string]*Item) []Item {
	out := make([]Item, 0, len(m))
	for _, it := range m {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
