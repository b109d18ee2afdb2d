package main

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Ashenafi-pixel/lootsim"
	"github.com/Ashenafi-pixel/lootsim/enchant"
	"github.com/Ashenafi-pixel/lootsim/lootfile"
)

// tableFile is one loot table waiting to be imported.
type tableFile struct {
	ID   string
	Data []byte
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	dir := flag.String("dir", "loot-tables", "Directory of loot table JSON files")
	zipPath := flag.String("zip", "", "ZIP of loot table JSON files (overrides -dir)")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	dryRun := flag.Bool("dry-run", false, "Validate tables without writing to the database")
	flag.Parse()

	if err := run(*dir, *zipPath, *dsn, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dir, zipPath, dsn string, dryRun bool) error {
	var files []tableFile
	var err error
	if zipPath != "" {
		files, err = readZip(zipPath)
	} else {
		files, err = readDir(dir)
	}
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no loot tables found")
	}
	if err := validate(files); err != nil {
		return err
	}
	if dryRun {
		fmt.Printf("Validated %d loot tables\n", len(files))
		return nil
	}

	db, err := lootsim.GetDB(dsn)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if db == nil {
		return fmt.Errorf("DATABASE_URL is not set; cannot connect to DB")
	}
	ctx := context.Background()
	for _, f := range files {
		if err := upsertTable(ctx, db, f); err != nil {
			return fmt.Errorf("upsert %s: %w", f.ID, err)
		}
		fmt.Printf("Imported loot table %q\n", f.ID)
	}
	return nil
}

// validate builds every table against the vanilla enchantments so the
// database only receives tables that simulate.
func validate(files []tableFile) error {
	book := enchant.Default()
	for _, f := range files {
		def, err := lootfile.Parse(bytes.NewReader(f.Data))
		if err != nil {
			return fmt.Errorf("%s: %w", f.ID, err)
		}
		if _, err := def.Build(book.Choose); err != nil {
			return fmt.Errorf("%s: %w", f.ID, err)
		}
	}
	return nil
}

func tableID(name string) string {
	return strings.TrimSuffix(filepath.Base(name), ".json")
}

func readDir(dir string) ([]tableFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]tableFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		out = append(out, tableFile{ID: tableID(p), Data: data})
	}
	return out, nil
}

// readZip collects every *.json entry of the archive. Directories inside the
// archive are ignored for naming: chests/ruined_portal.json imports as ruined_portal.
func readZip(zipPath string) ([]tableFile, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var out []tableFile
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		out = append(out, tableFile{ID: tableID(f.Name), Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// upsertTable inserts or updates a loot_tables row.
func upsertTable(ctx context.Context, db *sql.DB, f tableFile) error {
	var existing string
	err := db.QueryRowContext(ctx, `SELECT table_id FROM loot_tables WHERE table_id = $1`, f.ID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err = db.ExecContext(ctx, `
      INSERT INTO loot_tables (table_id, definition) VALUES ($1, $2::jsonb)
    `, f.ID, string(f.Data))
		if err != nil {
			return fmt.Errorf("insert table: %w", err)
		}
	case err != nil:
		return fmt.Errorf("select table: %w", err)
	default:
		_, err = db.ExecContext(ctx, `
      UPDATE loot_tables SET definition = $1::jsonb, updated_at = CURRENT_TIMESTAMP WHERE table_id = $2
    `, string(f.Data), f.ID)
		if err != nil {
			return fmt.Errorf("update table: %w", err)
		}
	}
	return nil
}
