// Package enchant holds enchantment metadata and picks enchantments for
// enchant-randomly loot entries.
package enchant

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ashenafi-pixel/lootsim/loot"
)

//go:embed enchantments.yaml
var defaultEnchantments []byte

// Enchantment describes one enchantment and the rewards it applies to.
// AppliesTo lists substrings of reward names; "any" applies to every reward.
type Enchantment struct {
	ID        string   `yaml:"id" json:"id"`
	AppliesTo []string `yaml:"applies_to" json:"applies_to"`
	MaxLevel  int      `yaml:"max_level" json:"max_level"`
}

// Applies reports whether the enchantment can be put on name.
func (e Enchantment) Applies(name string) bool {
	for _, s := range e.AppliesTo {
		if s == loot.AnyEnchantment || strings.Contains(name, s) {
			return true
		}
	}
	return false
}

func (e Enchantment) validate() error {
	if e.ID == "" {
		return loot.ConfigErrorf("enchantment has an empty id")
	}
	if e.MaxLevel < 1 {
		return loot.ConfigErrorf("enchantment %q: max_level must be >= 1, got %d", e.ID, e.MaxLevel)
	}
	if len(e.AppliesTo) == 0 {
		return loot.ConfigErrorf("enchantment %q: applies_to is empty", e.ID)
	}
	return nil
}

// Book is an ordered set of enchantments.
type Book struct {
	entries []Enchantment
}

type bookFile struct {
	Enchantments []Enchantment `yaml:"enchantments"`
}

// NewBook validates entries and returns a Book.
func NewBook(entries ...Enchantment) (*Book, error) {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("enchantments[%d]: %w", i, err)
		}
		if seen[e.ID] {
			return nil, loot.ConfigErrorf("enchantments[%d]: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
	}
	return &Book{entries: entries}, nil
}

// Default returns the built-in enchantment metadata.
func Default() *Book {
	b, err := Parse(bytes.NewReader(defaultEnchantments))
	if err != nil {
		panic(fmt.Sprintf("enchant: embedded metadata: %v", err))
	}
	return b
}

// Parse reads a YAML (or JSON) enchantment file.
func Parse(r io.Reader) (*Book, error) {
	var f bookFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parse enchantments: %w", err)
	}
	return NewBook(f.Enchantments...)
}

// Load reads enchantment metadata from path.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open enchantments: %w", err)
	}
	defer f.Close()
	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Len returns the number of enchantments.
func (b *Book) Len() int { return len(b.entries) }

// Applicable returns the enchantments that apply to name, in book order.
func (b *Book) Applicable(name string) []Enchantment {
	var out []Enchantment
	for _, e := range b.entries {
		if e.Applies(name) {
			out = append(out, e)
		}
	}
	return out
}

// Choose picks an applicable enchantment uniformly and a level uniformly in
// [1, MaxLevel]. It satisfies loot.EnchantChooser.
func (b *Book) Choose(name string, rng loot.RNG) (string, int, error) {
	candidates := b.Applicable(name)
	if len(candidates) == 0 {
		return "", 0, loot.NoEnchantmentError(name)
	}
	e := candidates[rng.Intn(len(candidates))]
	return e.ID, 1 + rng.Intn(e.MaxLevel), nil
}
