// Package database opens the store the demo runs against.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mickamy/ormjoin/internal/config"
	"github.com/mickamy/ormjoin/orm"
)

// drivers maps a dialect name to its database/sql driver name.
var drivers = map[string]string{
	"sqlite":   "sqlite3",
	"mysql":    "mysql",
	"postgres": "pgx",
}

// sqlitePragmas are applied to every SQLite store after opening.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Open connects to the store described by cfg and verifies the connection.
// SQLite stores are limited to a single connection, so the pragmas above
// hold for every statement. When logger is non-nil every statement is
// logged through it at debug level.
func Open(ctx context.Context, cfg config.Database, logger *slog.Logger) (*orm.DB, error) {
	d, err := orm.DialectByName(cfg.Dialect)
	if err != nil {
		return nil, err //nolint:wrapcheck // already prefixed
	}

	dsn := cfg.DSN
	if d == orm.SQLite && dsn == "" {
		dsn = cfg.Path
	}
	if dsn == "" {
		return nil, fmt.Errorf("database: no dsn configured for %s", d.Name())
	}

	raw, err := sql.Open(drivers[d.Name()], dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", d.Name(), err)
	}
	if d == orm.SQLite {
		raw.SetMaxOpenConns(1)
		raw.SetMaxIdleConns(1)
	}

	db := orm.New(raw, d)
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: connect %s: %w", d.Name(), err)
	}
	if d == orm.SQLite {
		for _, pragma := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("database: %q: %w", pragma, err)
			}
		}
	}

	if logger != nil {
		db = db.Debug(orm.NewSlogLogger(logger))
	}
	return db, nil
}
