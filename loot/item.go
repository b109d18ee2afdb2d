// Package loot models sampled rewards, the inventories they aggregate into,
// and the weighted generator hierarchy (generator, pool, table) that produces them.
package loot

import (
	"fmt"
	"strings"
)

// AnyEnchantment is the enchantment wildcard used by requirement targets.
const AnyEnchantment = "any"

// AnyLevel is the level wildcard used by requirement targets.
const AnyLevel = 0

// Item is one stack of loot. An Item with an empty Enchantment is a plain
// reward; otherwise it is an enchanted reward carrying Enchantment and Level.
type Item struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	Enchantment string `json:"enchantment,omitempty"`
	Level       int    `json:"level,omitempty"`
}

// NewItem returns a plain reward.
func NewItem(name string, count int) Item {
	return Item{Name: name, Count: count}
}

// NewEnchantedItem returns a single enchanted reward.
func NewEnchantedItem(name, enchantment string, level int) Item {
	return Item{Name: name, Count: 1, Enchantment: enchantment, Level: level}
}

// Enchanted reports whether the item is an enchanted reward.
func (i Item) Enchanted() bool { return i.Enchantment != "" }

// Key returns the stack-combination identity of the item. Count is not part of it.
func (i Item) Key() string {
	if !i.Enchanted() {
		return i.Name
	}
	return fmt.Sprintf("%s[%s:%d]", i.Name, i.Enchantment, i.Level)
}

// WithCount returns a copy of the item with its count replaced.
func (i Item) WithCount(n int) Item {
	i.Count = n
	return i
}

func (i Item) String() string {
	if !i.Enchanted() {
		return fmt.Sprintf("%s x%d", i.Name, i.Count)
	}
	level := "any level"
	if i.Level != AnyLevel {
		level = romanLevel(i.Level)
	}
	s := fmt.Sprintf("%s [%s %s]", i.Name, i.Enchantment, level)
	if i.Count != 1 {
		s += fmt.Sprintf(" x%d", i.Count)
	}
	return s
}

// SameIdentity reports whether a and b combine into one stack.
func SameIdentity(a, b Item) bool {
	if a.Name != b.Name || a.Enchanted() != b.Enchanted() {
		return false
	}
	return a.Enchantment == b.Enchantment && a.Level == b.Level
}

// Matches reports whether entry satisfies target for requirement matching.
// Enchantment "any" and level 0 on either side match anything; generated
// entries are always concrete, so in practice the wildcard comes from target.
func Matches(target, entry Item) bool {
	if target.Name != entry.Name || target.Enchanted() != entry.Enchanted() {
		return false
	}
	if !target.Enchanted() {
		return true
	}
	enchantOK := target.Enchantment == AnyEnchantment || entry.Enchantment == AnyEnchantment ||
		target.Enchantment == entry.Enchantment
	levelOK := target.Level == AnyLevel || entry.Level == AnyLevel || target.Level == entry.Level
	return enchantOK && levelOK
}

func romanLevel(n int) string {
	if n <= 0 || n > 10 {
		return fmt.Sprintf("%d", n)
	}
	numerals := []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}
	return numerals[n-1]
}

// TrimNamespace strips a resource namespace such as "minecraft:" from name.
func TrimNamespace(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
