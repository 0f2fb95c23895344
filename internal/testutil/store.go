// Package testutil provides store and clock helpers shared by tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/mickamy/ormjoin/internal/config"
	"github.com/mickamy/ormjoin/internal/database"
	"github.com/mickamy/ormjoin/internal/schema"
	"github.com/mickamy/ormjoin/orm"
)

// SQLiteConfig returns a database config pointing at a fresh file in t.TempDir().
func SQLiteConfig(t *testing.T) config.Database {
	t.Helper()
	return config.Database{
		Dialect: "sqlite",
		Path:    filepath.Join(t.TempDir(), "ormjoin.db"),
	}
}

// NewStore opens an empty SQLite store that is closed on test cleanup.
func NewStore(t *testing.T) *orm.DB {
	t.Helper()
	db, err := database.Open(t.Context(), SQLiteConfig(t), nil)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewSchemaStore opens a SQLite store with the users and posts tables created.
func NewSchemaStore(t *testing.T) *orm.DB {
	t.Helper()
	db := NewStore(t)
	if err := schema.Create(t.Context(), db); err != nil {
		t.Fatalf("schema.Create() failed: %v", err)
	}
	return db
}
