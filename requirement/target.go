package requirement

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ashenafi-pixel/lootsim/loot"
)

// TargetSpec is a literal item requirement: the inventory must hold, and
// gives up, Count of Name (with Enchantment and Level when set).
type TargetSpec struct {
	Name        string `yaml:"name" json:"name"`
	Count       int    `yaml:"count,omitempty" json:"count,omitempty"`
	Enchantment string `yaml:"enchantment,omitempty" json:"enchantment,omitempty"`
	Level       int    `yaml:"level,omitempty" json:"level,omitempty"`
}

// Item converts the spec to a match target. Count defaults to 1.
func (t TargetSpec) Item() (loot.Item, error) {
	name := loot.TrimNamespace(strings.TrimSpace(t.Name))
	if name == "" {
		return loot.Item{}, loot.ConfigErrorf("item requirement has an empty name")
	}
	count := t.Count
	if count == 0 {
		count = 1
	}
	if count < 0 {
		return loot.Item{}, loot.ConfigErrorf("item requirement %q: count must be >= 1, got %d", name, count)
	}
	if t.Level < 0 {
		return loot.Item{}, loot.ConfigErrorf("item requirement %q: level must be >= 0, got %d", name, t.Level)
	}
	if t.Enchantment == "" && t.Level != 0 {
		return loot.Item{}, loot.ConfigErrorf("item requirement %q: level given without enchantment", name)
	}
	return loot.Item{Name: name, Count: count, Enchantment: t.Enchantment, Level: t.Level}, nil
}

// ParseTarget parses the command-line item form:
//
//	obsidian              one obsidian
//	obsidian:10           ten obsidian
//	golden_sword@any      a golden sword with any enchantment
//	enchanted_book@mending:1
//
// For enchanted targets the number after the colon is the level (0 or absent
// means any level).
func ParseTarget(s string) (loot.Item, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "minecraft:")
	spec := TargetSpec{}
	name, ench, enchanted := strings.Cut(s, "@")
	if enchanted {
		spec.Name = name
		id, level, hasLevel := strings.Cut(ench, ":")
		spec.Enchantment = id
		if spec.Enchantment == "" {
			return loot.Item{}, loot.ConfigErrorf("item requirement %q: empty enchantment", s)
		}
		if hasLevel {
			n, err := strconv.Atoi(level)
			if err != nil {
				return loot.Item{}, loot.ConfigErrorf("item requirement %q: bad level %q", s, level)
			}
			spec.Level = n
		}
		return spec.Item()
	}
	name, count, hasCount := strings.Cut(s, ":")
	spec.Name = name
	if hasCount {
		n, err := strconv.Atoi(count)
		if err != nil || n < 1 {
			return loot.Item{}, loot.ConfigErrorf("item requirement %q: bad count %q", s, count)
		}
		spec.Count = n
	}
	return spec.Item()
}

// TargetPredicate returns a predicate that consumes target from the inventory.
func TargetPredicate(target loot.Item) Predicate {
	return Predicate{
		Name: targetName(target),
		Check: func(inv *loot.Inventory) bool {
			return inv.Release(target)
		},
	}
}

func targetName(t loot.Item) string {
	if t.Enchanted() {
		name := t.Name + "@" + t.Enchantment
		if t.Level != loot.AnyLevel {
			name += ":" + strconv.Itoa(t.Level)
		}
		return name
	}
	if t.Count != 1 {
		return fmt.Sprintf("%s:%d", t.Name, t.Count)
	}
	return t.Name
}

// Spec is a requirement file: named predicates followed by literal items.
type Spec struct {
	Requirements []string     `yaml:"requirements" json:"requirements"`
	Items        []TargetSpec `yaml:"items" json:"items"`
}

// LoadSpec reads a YAML requirement file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requirement spec: %w", err)
	}
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse requirement spec %s: %w", path, err)
	}
	return &s, nil
}

// MaxPredicates bounds a Spec: the evaluator tests all 2^n combinations.
const MaxPredicates = 16

// Build resolves a Spec into predicates: named requirements first, then items.
func (r *Registry) Build(s *Spec) ([]Predicate, error) {
	if n := len(s.Requirements) + len(s.Items); n > MaxPredicates {
		return nil, loot.ConfigErrorf("too many requirements: %d > %d", n, MaxPredicates)
	}
	preds, err := r.Resolve(s.Requirements)
	if err != nil {
		return nil, err
	}
	for i, ts := range s.Items {
		it, err := ts.Item()
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		preds = append(preds, TargetPredicate(it))
	}
	return preds, nil
}

// ParseArgs splits command-line words into a Spec: words registered in r are
// requirements, anything else is parsed as an item target.
func (r *Registry) ParseArgs(args []string) (*Spec, error) {
	s := &Spec{}
	for _, arg := range args {
		if _, ok := r.checks[arg]; ok {
			s.Requirements = append(s.Requirements, arg)
			continue
		}
		it, err := ParseTarget(arg)
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, TargetSpec{Name: it.Name, Count: it.Count, Enchantment: it.Enchantment, Level: it.Level})
	}
	return s, nil
}
