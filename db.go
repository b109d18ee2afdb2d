package lootsim

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// The catalog database is read once at server start and written row by row
// by the importer, so a couple of connections cover both.
const (
	catalogMaxOpenConns = 4
	catalogMaxIdleConns = 1
	catalogIdleTimeout  = 2 * time.Minute
	catalogPingTimeout  = 5 * time.Second
	catalogAppName      = "lootsim"
)

var (
	dbOnce sync.Once
	dbConn *sql.DB
	dbErr  error
)

// catalogConfig parses dsn for the loot table catalog. Statements run with the
// simple protocol so the catalog also works behind transaction-mode poolers,
// which reject named prepared statements.
func catalogConfig(dsn string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse catalog dsn: %w", err)
	}
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	if cfg.RuntimeParams["application_name"] == "" {
		cfg.RuntimeParams["application_name"] = catalogAppName
	}
	return cfg, nil
}

// GetDB opens the loot table catalog database once per process. An empty dsn
// returns a nil *sql.DB and no error; tables then come from disk only.
func GetDB(dsn string) (*sql.DB, error) {
	dbOnce.Do(func() {
		if dsn == "" {
			return
		}
		cfg, err := catalogConfig(dsn)
		if err != nil {
			dbErr = err
			return
		}
		db := stdlib.OpenDB(*cfg)
		db.SetMaxOpenConns(catalogMaxOpenConns)
		db.SetMaxIdleConns(catalogMaxIdleConns)
		db.SetConnMaxIdleTime(catalogIdleTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), catalogPingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			dbErr = fmt.Errorf("ping catalog db: %w", err)
			return
		}
		dbConn = db
	})
	if dbErr != nil {
		return nil, dbErr
	}
	return dbConn, nil
}
