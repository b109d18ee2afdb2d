package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/lootsim/catalog"
	"github.com/Ashenafi-pixel/lootsim/config"
	"github.com/Ashenafi-pixel/lootsim/simulate"
)

func testConfig() *config.Config {
	return &config.Config{TablesDir: filepath.Join("..", "..", "loot-tables"), DefaultTable: "ruined_portal", Trials: 100}
}

func TestRun_Report(t *testing.T) {
	var out, errOut bytes.Buffer
	opts := options{table: "ruined_portal", chests: 250, seed: 9, args: []string{"lightable", "obsidian:4"}}
	require.NoError(t, run(testConfig(), opts, &out, &errOut))

	assert.Contains(t, out.String(), "ruined_portal")
	assert.Contains(t, out.String(), "lightable+obsidian:4")
	assert.Contains(t, errOut.String(), "\r\033[K")
}

func TestRun_JSONIsDeterministic(t *testing.T) {
	opts := options{table: "ruined_portal", chests: 200, seed: 5, asJSON: true, args: []string{"completable", "edible"}}

	decode := func() simulate.Result {
		var out bytes.Buffer
		require.NoError(t, run(testConfig(), opts, &out, &bytes.Buffer{}))
		var res simulate.Result
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		return res
	}
	a, b := decode(), decode()
	assert.Equal(t, int64(5), a.Seed)
	assert.Equal(t, a.Combinations, b.Combinations)
	assert.Equal(t, a.Items, b.Items)
}

func TestRun_SpecFileAndPath(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "req.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte("requirements: [nuggets]\nitems:\n  - name: flint\n"), 0644))

	tablePath := filepath.Join(dir, "flint_only.json")
	require.NoError(t, os.WriteFile(tablePath, []byte(`{"pools":[{"rolls":2,"entries":[{"name":"minecraft:flint"}]}]}`), 0644))

	var out bytes.Buffer
	opts := options{table: tablePath, chests: 10, seed: 1, spec: specPath, quiet: true, asJSON: true}
	require.NoError(t, run(testConfig(), opts, &out, &bytes.Buffer{}))

	var res simulate.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "flint_only", res.Table)
	assert.Equal(t, []string{"nuggets", "flint"}, res.Requirements)
	assert.Equal(t, 10, res.Combinations[2].Count)
	assert.Equal(t, 0, res.Combinations[1].Count)
}

func TestRun_Errors(t *testing.T) {
	cfg := testConfig()
	assert.ErrorIs(t, run(cfg, options{table: "stronghold", chests: 1}, &bytes.Buffer{}, &bytes.Buffer{}), catalog.ErrNotFound)
	assert.Error(t, run(cfg, options{table: "ruined_portal", chests: 1, args: []string{"obsidian:zero"}}, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Error(t, run(cfg, options{table: "ruined_portal", chests: 0, quiet: true}, &bytes.Buffer{}, &bytes.Buffer{}))
}
