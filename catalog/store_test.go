package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/lootsim/lootfile"
)

func weight(n int) *int { return &n }

func flintTable() *lootfile.Definition {
	return &lootfile.Definition{
		Pools: []lootfile.PoolDef{{
			Rolls: &lootfile.Range{Min: 1, Max: 2},
			Entries: []lootfile.EntryDef{
				{Name: "minecraft:flint", Weight: weight(3)},
				{Name: "minecraft:obsidian", Functions: []lootfile.FunctionDef{
					{Function: lootfile.FuncSetCount, Count: &lootfile.Range{Min: 1, Max: 4}},
				}},
			},
		}},
	}
}

func TestStore_RegisterGet(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	require.NoError(t, s.Register("flint_only", flintTable()))
	got, err := s.Get("flint_only")
	require.NoError(t, err)
	assert.Len(t, got.Pools[0].Entries, 2)

	_, err = s.Get("nonexistent")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_RegisterOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	require.NoError(t, s.Register("t1", flintTable()))
	second := flintTable()
	second.ChestCount = 3
	require.NoError(t, s.Register("t1", second))

	got, err := s.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.ChestCount)
}

func TestStore_PersistAndReload(t *testing.T) {
	dir := t.TempDir()
	s1 := NewStore(dir)
	require.NoError(t, s1.Register("persisted", flintTable()))

	_, err := os.Stat(filepath.Join(dir, "persisted.json"))
	require.NoError(t, err)

	s2 := NewStore(dir)
	got, err := s2.Get("persisted")
	require.NoError(t, err)
	assert.Equal(t, lootfile.Range{Min: 1, Max: 4}, *got.Pools[0].Entries[1].Functions[0].Count)

	table, err := got.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Pools[0].TotalWeight())
}

func TestStore_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	s := NewStore(dir)
	assert.Empty(t, s.List())
}

func TestStore_ListSorted(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, id := range []string{"village", "bastion", "portal"} {
		require.NoError(t, s.Register(id, flintTable()))
	}
	assert.Equal(t, []string{"bastion", "portal", "village"}, s.List())
}

func TestStore_RejectsBadIDs(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, id := range []string{"", "..", "../escape", `a\b`} {
		assert.Error(t, s.Register(id, flintTable()), "id %q", id)
	}
	assert.Error(t, s.Register("ok", nil))
}

func TestStore_LoadsShippedTables(t *testing.T) {
	s := NewStore(filepath.Join("..", "loot-tables"))
	assert.Contains(t, s.List(), "ruined_portal")
}

func TestStore_LoadFromDBNil(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.LoadFromDB(context.Background(), nil)
	assert.Error(t, err)
}
