// Package schema declares the users and posts tables and materializes
// them in a store.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/mickamy/ormjoin/internal/naming"
	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/query"
)

// ColumnType is a portable column type rendered per dialect.
type ColumnType int

const (
	// Serial is an auto-assigned integer primary key.
	Serial ColumnType = iota
	Integer
	Varchar
	DateTime
)

// Column describes one table column. Size applies to Varchar only.
type Column struct {
	Name string
	Type ColumnType
	Size int
}

// Index describes a single-column index named by naming.IndexName.
type Index struct {
	Column string
	Unique bool
}

// ForeignKey links Column to RefTable.RefColumn.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table is the declaration of one table.
type Table struct {
	Name        string
	Columns     []Column
	Indexes     []Index
	ForeignKeys []ForeignKey
}

// Tables returns the declared tables, parents before children.
func Tables() []Table {
	return []Table{
		{
			Name: query.UsersTable,
			Columns: []Column{
				{Name: "id", Type: Serial},
				{Name: "username", Type: Varchar, Size: 64},
				{Name: "email", Type: Varchar, Size: 120},
				{Name: "password_hash", Type: Varchar, Size: 128},
			},
			Indexes: []Index{
				{Column: "username", Unique: true},
				{Column: "email", Unique: true},
			},
		},
		{
			Name: query.PostsTable,
			Columns: []Column{
				{Name: "id", Type: Serial},
				{Name: "body", Type: Varchar, Size: 140},
				{Name: "timestamp", Type: DateTime},
				{Name: "user_id", Type: Integer},
			},
			Indexes: []Index{
				{Column: "timestamp"},
			},
			ForeignKeys: []ForeignKey{
				{Column: "user_id", RefTable: query.UsersTable, RefColumn: "id"},
			},
		},
	}
}

// Statements renders the DDL that creates every table and index for d.
// Each statement is idempotent.
func Statements(d orm.Dialect) []string {
	var stmts []string
	for _, t := range Tables() {
		stmts = append(stmts, createTable(d, t))
		if inlineIndexes(d) {
			continue
		}
		for _, idx := range t.Indexes {
			stmts = append(stmts, createIndex(d, t.Name, idx))
		}
	}
	return stmts
}

// Create materializes the tables and indexes in db if they are absent.
func Create(ctx context.Context, db orm.Querier) error {
	for _, stmt := range Statements(orm.DialectOf(db)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: create: %w", err)
		}
	}
	return nil
}

// Drop removes the tables, children first.
func Drop(ctx context.Context, db orm.Querier) error {
	d := orm.DialectOf(db)
	tables := Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		stmt := "DROP TABLE IF EXISTS " + d.QuoteIdent(tables[i].Name)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: drop %s: %w", tables[i].Name, err)
		}
	}
	return nil
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so its indexes go inside
// CREATE TABLE.
func inlineIndexes(d orm.Dialect) bool {
	return d.Name() == orm.MySQL.Name()
}

func createTable(d orm.Dialect, t Table) string {
	qi := d.QuoteIdent

	defs := make([]string, 0, len(t.Columns)+len(t.Indexes)+len(t.ForeignKeys))
	for _, c := range t.Columns {
		defs = append(defs, qi(c.Name)+" "+columnType(d, c))
	}
	if inlineIndexes(d) {
		for _, idx := range t.Indexes {
			kind := "INDEX"
			if idx.Unique {
				kind = "UNIQUE INDEX"
			}
			defs = append(defs, fmt.Sprintf("%s %s (%s)", kind, qi(naming.IndexName(t.Name, idx.Column)), qi(idx.Column)))
		}
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)", qi(fk.Column), qi(fk.RefTable), qi(fk.RefColumn)))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", qi(t.Name), strings.Join(defs, ",\n  "))
}

func createIndex(d orm.Dialect, table string, idx Index) string {
	kind := "INDEX"
	if idx.Unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)",
		kind, d.QuoteIdent(naming.IndexName(table, idx.Column)), d.QuoteIdent(table), d.QuoteIdent(idx.Column))
}

func columnType(d orm.Dialect, c Column) string {
	switch c.Type {
	case Serial:
		switch d.Name() {
		case orm.PostgreSQL.Name():
			return "SERIAL PRIMARY KEY"
		case orm.MySQL.Name():
			return "INT NOT NULL AUTO_INCREMENT PRIMARY KEY"
		default:
			return "INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT"
		}
	case Integer:
		return "INTEGER"
	case Varchar:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case DateTime:
		switch d.Name() {
		case orm.PostgreSQL.Name():
			return "TIMESTAMP"
		case orm.MySQL.Name():
			return "DATETIME(6)"
		default:
			return "DATETIME"
		}
	default:
		panic(fmt.Sprintf("schema: unknown column type %d", c.Type))
	}
}
