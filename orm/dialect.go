package orm

import (
	"fmt"
	"strings"
)

// Dialect abstracts SQL differences between database engines.
type Dialect interface {
	// Name returns the engine name, e.g. "sqlite".
	Name() string

	// Placeholder returns the bind parameter placeholder for the given
	// 1-based index. MySQL and SQLite return "?" regardless of index;
	// PostgreSQL returns "$1", "$2", etc.
	Placeholder(index int) string

	// QuoteIdent quotes an identifier (table name, column name) to safely
	// handle SQL reserved words. MySQL uses backticks; PostgreSQL and
	// SQLite use double quotes.
	QuoteIdent(name string) string

	// UseReturning reports whether INSERT should use a RETURNING clause
	// to retrieve the auto-generated primary key (PostgreSQL) rather
	// than relying on LastInsertId (MySQL, SQLite).
	UseReturning() bool

	// ReturningClause returns the RETURNING clause appended to INSERT
	// statements. Returns an empty string for dialects that retrieve the
	// key through LastInsertId.
	ReturningClause(pk string) string
}

// MySQL is the Dialect for MySQL / MariaDB.
var MySQL Dialect = mysqlDialect{}

// PostgreSQL is the Dialect for PostgreSQL.
var PostgreSQL Dialect = postgresDialect{}

// SQLite is the Dialect for SQLite 3.
var SQLite Dialect = sqliteDialect{}

// DialectByName returns the Dialect registered under name.
// "postgresql" and "sqlite3" are accepted as aliases.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return PostgreSQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("orm: unknown dialect %q", name)
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string                    { return "mysql" }
func (mysqlDialect) Placeholder(_ int) string        { return "?" }
func (mysqlDialect) QuoteIdent(name string) string   { return "`" + name + "`" }
func (mysqlDialect) UseReturning() bool              { return false }
func (mysqlDialect) ReturningClause(_ string) string { return "" }

type postgresDialect struct{}

func (postgresDialect) Name() string                     { return "postgres" }
func (postgresDialect) Placeholder(index int) string     { return fmt.Sprintf("$%d", index) }
func (postgresDialect) QuoteIdent(name string) string    { return `"` + name + `"` }
func (postgresDialect) UseReturning() bool               { return true }
func (postgresDialect) ReturningClause(pk string) string { return ` RETURNING "` + pk + `"` }

type sqliteDialect struct{}

func (sqliteDialect) Name() string                    { return "sqlite" }
func (sqliteDialect) Placeholder(_ int) string        { return "?" }
func (sqliteDialect) QuoteIdent(name string) string   { return `"` + name + `"` }
func (sqliteDialect) UseReturning() bool              { return false }
func (sqliteDialect) ReturningClause(_ string) string { return "" }

// maxBindVars returns the largest number of bind parameters one
// statement may carry on d.
func maxBindVars(d Dialect) int {
	switch d.Name() {
	case SQLite.Name():
		return 32766 // SQLITE_MAX_VARIABLE_NUMBER since 3.32
	default:
		return 65535 // MySQL and PostgreSQL wire protocols use uint16 counts
	}
}

// positional reports whether d binds parameters by position ("?") so that
// queries need no placeholder rewriting.
func positional(d Dialect) bool {
	return d.Placeholder(1) == "?"
}

// rewritePlaceholders converts ? to dialect-specific placeholders ($1, $2, …).
func rewritePlaceholders(d Dialect, query string) string {
	if positional(d) {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	idx := 1
	for i := range len(query) {
		if query[i] == '?' {
			b.WriteString(d.Placeholder(idx))
			idx++
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
