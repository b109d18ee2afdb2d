package catalog

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Ashenafi-pixel/lootsim/lootfile"
)

// ErrNotFound is returned by Get for an unknown table id.
var ErrNotFound = errors.New("loot table not found")

// Store persists loot table definitions by table id.
type Store struct {
	mu      sync.RWMutex
	tables  map[string]*lootfile.Definition
	dataDir string
}

// NewStore loads every *.json table in dataDir. The table id is the file
// name without its extension. Files that fail to parse are logged and skipped.
func NewStore(dataDir string) *Store {
	if dataDir == "" {
		dataDir = "loot-tables"
	}
	s := &Store{
		tables:  make(map[string]*lootfile.Definition),
		dataDir: dataDir,
	}
	s.load()
	return s
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dataDir, id+".json")
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths, err := filepath.Glob(filepath.Join(s.dataDir, "*.json"))
	if err != nil {
		return
	}
	for _, p := range paths {
		def, err := lootfile.ReadFile(p)
		if err != nil {
			slog.Warn("skipping loot table", "path", p, "error", err)
			continue
		}
		s.tables[strings.TrimSuffix(filepath.Base(p), ".json")] = def
	}
}

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid table id %q", id)
	}
	return nil
}

// Register stores def under id and writes it to disk. Overwrites if exists.
func (s *Store) Register(id string, def *lootfile.Definition) error {
	if err := validID(id); err != nil {
		return err
	}
	if def == nil {
		return fmt.Errorf("table %q: nil definition", id)
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(id), data, 0644); err != nil {
		return err
	}
	s.tables[id] = def
	return nil
}

// Get returns the definition for id.
func (s *Store) Get(id string) (*lootfile.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return def, nil
}

// List returns the known table ids, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tables))
	for id := range s.tables {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadFromDB adds the tables held in the loot_tables relation. A table already
// loaded from disk is replaced by the database copy. It returns how many rows
// were loaded.
func (s *Store) LoadFromDB(ctx context.Context, db *sql.DB) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("no db")
	}
	rows, err := db.QueryContext(ctx, `SELECT table_id, definition FROM loot_tables ORDER BY table_id`)
	if err != nil {
		return 0, fmt.Errorf("query loot_tables: %w", err)
	}
	defer rows.Close()

	loaded := make(map[string]*lootfile.Definition)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return 0, fmt.Errorf("scan loot_tables: %w", err)
		}
		def, err := lootfile.Parse(bytes.NewReader(raw))
		if err != nil {
			slog.Warn("skipping loot table row", "table_id", id, "error", err)
			continue
		}
		loaded[id] = def
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("read loot_tables: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, def := range loaded {
		s.tables[id] = def
	}
	return len(loaded), nil
}
