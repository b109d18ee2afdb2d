package loot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var propNames = []string{"flint", "obsidian", "iron_nugget", "golden_sword"}

func drawItem(rt *rapid.T, label string) Item {
	name := rapid.SampledFrom(propNames).Draw(rt, label+"_name")
	if rapid.Bool().Draw(rt, label+"_enchanted") {
		ench := rapid.SampledFrom([]string{"sharpness", "mending"}).Draw(rt, label+"_ench")
		return NewEnchantedItem(name, ench, rapid.IntRange(1, 3).Draw(rt, label+"_level"))
	}
	return NewItem(name, rapid.IntRange(1, 64).Draw(rt, label+"_count"))
}

func drawInventory(rt *rapid.T, label string) *Inventory {
	n := rapid.IntRange(0, 6).Draw(rt, label+"_len")
	items := make([]Item, n)
	for i := range items {
		items[i] = drawItem(rt, label)
	}
	return NewInventory(rapid.IntRange(0, 10).Draw(rt, label+"_rolls"), items...)
}

func TestProperty_MergeCommutesAndAssociates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a, b, c := drawInventory(rt, "a"), drawInventory(rt, "b"), drawInventory(rt, "c")

		ab, ba := Merge(a, b), Merge(b, a)
		assert.Equal(rt, ab.Counts(), ba.Counts())
		assert.Equal(rt, ab.Rolls(), ba.Rolls())

		left, right := Merge(Merge(a, b), c), Merge(a, Merge(b, c))
		assert.Equal(rt, left.Counts(), right.Counts())
		assert.Equal(rt, a.Rolls()+b.Rolls()+c.Rolls(), left.Rolls())
	})
}

func TestProperty_ReleaseAtomicAndConserving(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inv := drawInventory(rt, "inv")
		target := drawItem(rt, "target")
		before := inv.Clone().Counts()
		had := inv.Count(target)

		ok := inv.Release(target)
		if !ok {
			assert.Equal(rt, before, inv.Counts(), "failed release must not mutate")
			return
		}
		require.GreaterOrEqual(rt, had, target.Count)

		removed := 0
		for key, n := range before {
			removed += n - inv.Counts()[key]
		}
		assert.Equal(rt, target.Count, removed)
	})
}

func TestProperty_StackableWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		min := rapid.IntRange(1, 20).Draw(rt, "min")
		max := rapid.IntRange(min, min+20).Draw(rt, "max")
		g, err := NewStackable("obsidian", 1, min, max)
		require.NoError(rt, err)

		it, err := g.Generate(NewRand(rapid.Int64().Draw(rt, "seed")))
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, it.Count, min)
		assert.LessOrEqual(rt, it.Count, max)
	})
}
