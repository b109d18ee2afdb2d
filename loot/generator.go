package loot

import "fmt"

// GeneratorKind selects how a Generator produces its reward.
type GeneratorKind int

const (
	KindSimple GeneratorKind = iota
	KindStackable
	KindEnchantable
)

func (k GeneratorKind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindStackable:
		return "stackable"
	case KindEnchantable:
		return "enchantable"
	default:
		return "unknown"
	}
}

// EnchantChooser picks an enchantment and level for a reward name.
type EnchantChooser func(name string, rng RNG) (enchantment string, level int, err error)

// Generator produces one reward per invocation. Weight only affects how often
// a pool selects it.
type Generator struct {
	Kind     GeneratorKind
	Name     string
	Weight   int
	MinCount int
	MaxCount int
	choose   EnchantChooser
}

// NewSimple returns a generator that always yields one unit of name.
func NewSimple(name string, weight int) Generator {
	return Generator{Kind: KindSimple, Name: name, Weight: weight, MinCount: 1, MaxCount: 1}
}

// NewStackable returns a generator yielding name with a count uniform in [min, max].
func NewStackable(name string, weight, min, max int) (Generator, error) {
	if min < 1 {
		return Generator{}, ConfigErrorf("entry %q: min count must be >= 1, got %d", name, min)
	}
	if min > max {
		return Generator{}, ConfigErrorf("entry %q: min count (%d) must be <= max count (%d)", name, min, max)
	}
	return Generator{Kind: KindStackable, Name: name, Weight: weight, MinCount: min, MaxCount: max}, nil
}

// NewEnchantable returns a generator yielding one enchanted name, enchanted by choose.
func NewEnchantable(name string, weight int, choose EnchantChooser) Generator {
	return Generator{Kind: KindEnchantable, Name: name, Weight: weight, MinCount: 1, MaxCount: 1, choose: choose}
}

// Validate checks the generator's own invariants.
func (g Generator) Validate() error {
	if g.Name == "" {
		return ConfigErrorf("entry has an empty name")
	}
	if g.Weight < 0 {
		return ConfigErrorf("entry %q: weight must be >= 0, got %d", g.Name, g.Weight)
	}
	switch g.Kind {
	case KindSimple:
	case KindStackable:
		if g.MinCount < 1 || g.MinCount > g.MaxCount {
			return ConfigErrorf("entry %q: invalid count range [%d, %d]", g.Name, g.MinCount, g.MaxCount)
		}
	case KindEnchantable:
		if g.choose == nil {
			return ConfigErrorf("entry %q: enchantable entry has no enchantment chooser", g.Name)
		}
	default:
		return ConfigErrorf("entry %q: unknown generator kind %d", g.Name, g.Kind)
	}
	return nil
}

// Generate produces one reward.
func (g Generator) Generate(rng RNG) (Item, error) {
	switch g.Kind {
	case KindSimple:
		return NewItem(g.Name, 1), nil
	case KindStackable:
		return NewItem(g.Name, between(rng, g.MinCount, g.MaxCount)), nil
	case KindEnchantable:
		if g.choose == nil {
			return Item{}, ConfigErrorf("entry %q: enchantable entry has no enchantment chooser", g.Name)
		}
		ench, level, err := g.choose(g.Name, rng)
		if err != nil {
			return Item{}, fmt.Errorf("enchant %s: %w", g.Name, err)
		}
		if ench == "" || ench == AnyEnchantment || level < 1 {
			return Item{}, invariantf("chooser returned non-concrete enchantment %q level %d for %s", ench, level, g.Name)
		}
		return NewEnchantedItem(g.Name, ench, level), nil
	default:
		return Item{}, ConfigErrorf("entry %q: unknown generator kind %d", g.Name, g.Kind)
	}
}

func (g Generator) String() string {
	switch g.Kind {
	case KindStackable:
		return fmt.Sprintf("%s (weight %d, count %d-%d)", g.Name, g.Weight, g.MinCount, g.MaxCount)
	case KindEnchantable:
		return fmt.Sprintf("%s (weight %d, enchanted)", g.Name, g.Weight)
	default:
		return fmt.Sprintf("%s (weight %d)", g.Name, g.Weight)
	}
}
