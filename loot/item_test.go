package loot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameIdentity(t *testing.T) {
	tests := []struct {
		name string
		a, b Item
		want bool
	}{
		{"plain same name different count", NewItem("flint", 1), NewItem("flint", 5), true},
		{"plain different name", NewItem("flint", 1), NewItem("obsidian", 1), false},
		{"plain vs enchanted", NewItem("golden_axe", 1), NewEnchantedItem("golden_axe", "efficiency", 1), false},
		{"enchanted exact", NewEnchantedItem("golden_axe", "efficiency", 2), NewEnchantedItem("golden_axe", "efficiency", 2), true},
		{"enchanted level differs", NewEnchantedItem("golden_axe", "efficiency", 2), NewEnchantedItem("golden_axe", "efficiency", 3), false},
		{"wildcard is not identity", NewEnchantedItem("golden_axe", AnyEnchantment, AnyLevel), NewEnchantedItem("golden_axe", "efficiency", 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameIdentity(tt.a, tt.b))
		})
	}
}

func TestMatches_Wildcards(t *testing.T) {
	sampled := NewEnchantedItem("golden_pickaxe", "efficiency", 4)

	assert.True(t, Matches(NewEnchantedItem("golden_pickaxe", "efficiency", AnyLevel), sampled))
	assert.True(t, Matches(sampled, NewEnchantedItem("golden_pickaxe", "efficiency", AnyLevel)))
	assert.True(t, Matches(NewEnchantedItem("golden_pickaxe", AnyEnchantment, 4), sampled))
	assert.True(t, Matches(NewEnchantedItem("golden_pickaxe", AnyEnchantment, AnyLevel), sampled))

	assert.False(t, Matches(NewEnchantedItem("golden_pickaxe", "efficiency", 3), sampled))
	assert.False(t, Matches(NewEnchantedItem("golden_pickaxe", "fortune", AnyLevel), sampled))
	assert.False(t, Matches(NewEnchantedItem("golden_axe", AnyEnchantment, AnyLevel), sampled))
	assert.False(t, Matches(NewItem("golden_pickaxe", 1), sampled))
}

func TestItemString(t *testing.T) {
	assert.Equal(t, "obsidian x3", NewItem("obsidian", 3).String())
	assert.Equal(t, "golden_sword [sharpness II]", NewEnchantedItem("golden_sword", "sharpness", 2).String())
	assert.Equal(t, "golden_sword [any any level]", NewEnchantedItem("golden_sword", AnyEnchantment, AnyLevel).String())
}

func TestTrimNamespace(t *testing.T) {
	assert.Equal(t, "obsidian", TrimNamespace("minecraft:obsidian"))
	assert.Equal(t, "obsidian", TrimNamespace("obsidian"))
}

func TestErrorIs(t *testing.T) {
	err := ConfigErrorf("pool %d broken", 2)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrInvariantViolation))
	assert.True(t, errors.Is(NoEnchantmentError("stick"), ErrNoApplicableEnchantment))
	assert.Equal(t, "CONFIGURATION_ERROR: pool 2 broken", err.Error())
}
