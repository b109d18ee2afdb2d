// Package lootfile reads Minecraft-style loot table JSON and builds loot.Table values from it.
package lootfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/Ashenafi-pixel/lootsim/loot"
)

const (
	FuncSetCount        = "minecraft:set_count"
	FuncEnchantRandomly = "minecraft:enchant_randomly"
)

// Definition is the stored loot table payload.
type Definition struct {
	Type       string    `json:"type,omitempty"`
	ChestCount int       `json:"chest_count,omitempty"`
	Pools      []PoolDef `json:"pools"`
}

// PoolDef is one pool of a Definition.
// Rolls is required; a missing key is a configuration error, not zero rolls.
type PoolDef struct {
	Rolls   *Range     `json:"rolls"`
	Entries []EntryDef `json:"entries"`
}

// EntryDef is one weighted entry of a pool. A nil Weight means 1.
type EntryDef struct {
	Type      string        `json:"type,omitempty"`
	Name      string        `json:"name"`
	Weight    *int          `json:"weight,omitempty"`
	Functions []FunctionDef `json:"functions,omitempty"`
}

// FunctionDef is an item function applied to an entry.
type FunctionDef struct {
	Function string `json:"function"`
	Count    *Range `json:"count,omitempty"`
}

// Range is an inclusive integer range. It decodes from a bare number or an
// object with min and max (the "type" field of uniform providers is ignored).
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// UnmarshalJSON accepts 3, 3.0, {"min": 1, "max": 4} and
// {"type": "minecraft:uniform", "min": 1.0, "max": 4.0}.
func (r *Range) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("range: %w", err)
		}
		v, err := toInt(n)
		if err != nil {
			return err
		}
		r.Min, r.Max = v, v
		return nil
	}
	var raw struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("range: %w", err)
	}
	if raw.Min == nil || raw.Max == nil {
		return fmt.Errorf("range: both min and max are required")
	}
	min, err := toInt(*raw.Min)
	if err != nil {
		return err
	}
	max, err := toInt(*raw.Max)
	if err != nil {
		return err
	}
	r.Min, r.Max = min, max
	return nil
}

func toInt(f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("range: %v is not a whole number", f)
	}
	return int(f), nil
}

// Parse decodes a Definition.
func Parse(r io.Reader) (*Definition, error) {
	var def Definition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("parse loot table: %w", err)
	}
	return &def, nil
}

// ReadFile decodes the Definition stored at path.
func ReadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open loot table: %w", err)
	}
	defer f.Close()
	def, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Build turns the definition into a validated table. choose is used by
// enchant-randomly entries and may be nil when the table has none.
func (d *Definition) Build(choose loot.EnchantChooser) (*loot.Table, error) {
	if len(d.Pools) == 0 {
		return nil, loot.ConfigErrorf("loot table has no pools")
	}
	pools := make([]*loot.Pool, 0, len(d.Pools))
	for i, pd := range d.Pools {
		if pd.Rolls == nil {
			return nil, loot.ConfigErrorf("pool[%d]: rolls is required", i)
		}
		pool := &loot.Pool{MinRolls: pd.Rolls.Min, MaxRolls: pd.Rolls.Max}
		for j, ed := range pd.Entries {
			g, err := buildEntry(ed, choose)
			if err != nil {
				return nil, fmt.Errorf("pool[%d] entry[%d]: %w", i, j, err)
			}
			pool.Add(g)
		}
		if err := pool.Validate(); err != nil {
			return nil, fmt.Errorf("pool[%d]: %w", i, err)
		}
		pools = append(pools, pool)
	}
	return loot.NewTable(d.ChestCount, pools...)
}

func buildEntry(ed EntryDef, choose loot.EnchantChooser) (loot.Generator, error) {
	switch ed.Type {
	case "", "item", "minecraft:item":
	default:
		return loot.Generator{}, loot.ConfigErrorf("entry %q: unsupported entry type %q", ed.Name, ed.Type)
	}
	name := loot.TrimNamespace(strings.TrimSpace(ed.Name))
	if name == "" {
		return loot.Generator{}, loot.ConfigErrorf("entry has an empty name")
	}
	weight := 1
	if ed.Weight != nil {
		weight = *ed.Weight
	}
	// set_count wins over enchant_randomly when both are present.
	for _, fn := range ed.Functions {
		if fn.Function != FuncSetCount {
			continue
		}
		if fn.Count == nil {
			return loot.Generator{}, loot.ConfigErrorf("entry %q: set_count without count", name)
		}
		return loot.NewStackable(name, weight, fn.Count.Min, fn.Count.Max)
	}
	for _, fn := range ed.Functions {
		if fn.Function == FuncEnchantRandomly {
			if choose == nil {
				return loot.Generator{}, loot.ConfigErrorf("entry %q: enchant_randomly needs enchantment metadata", name)
			}
			return loot.NewEnchantable(name, weight, choose), nil
		}
	}
	return loot.NewSimple(name, weight), nil
}
