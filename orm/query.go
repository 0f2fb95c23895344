package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mickamy/ormjoin/scope"
)

// ScanFunc scans a single row into T.
// Written per model next to its query factory.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

// ColumnValueFunc extracts column names and their values from a *T.
// When includesPK is false the primary key column is excluded (for INSERT
// with auto-increment).
type ColumnValueFunc[T any] func(t *T, includesPK bool) (columns []string, values []any)

// SetPKFunc sets the auto-generated primary key on *T after INSERT.
// May be nil when the primary key is not auto-generated.
type SetPKFunc[T any] func(t *T, id int64)

// SetTimeFunc stamps a time value onto *T before INSERT.
type SetTimeFunc[T any] func(t *T, now time.Time)

// PreloaderFunc executes a preload query and assigns results to the parent slice.
type PreloaderFunc[T any] func(ctx context.Context, db Querier, results []T) error

// JoinConfig holds the metadata needed to build a JOIN clause at runtime.
//
// When SelectColumns is set, joining the relation also selects those
// columns of the target table, aliased as "<relation>__<column>" so a
// ScanFunc can route them into the related struct.
type JoinConfig struct {
	TargetTable   string
	TargetColumn  string
	SourceTable   string
	SourceColumn  string
	SelectColumns []string
}

// JoinAlias returns the result column alias used for column of the named relation.
func JoinAlias(relation, column string) string {
	return relation + "__" + column
}

// Query represents a pending query against a single table.
// All builder methods return a new Query; the receiver is never modified.
type Query[T any] struct {
	db          Querier
	table       string
	columns     []string
	pk          string
	scan        ScanFunc[T]
	colValPairs ColumnValueFunc[T]
	setPK       SetPKFunc[T]
	setCreated  SetTimeFunc[T]

	wheres      []whereClause
	orderBys    []string
	joins       []string
	joinSelects []string
	selects     *string
	limit       *int
	offset      *int
	err         error

	joinDefs   map[string]JoinConfig
	preloaders map[string]PreloaderFunc[T]
	preloads   []string
}

type whereClause struct {
	clause string
	args   []any
}

// NewQuery is called by per-model factory functions.
func NewQuery[T any](
	db Querier,
	table string,
	columns []string,
	pk string,
	scan ScanFunc[T],
	colValPairs ColumnValueFunc[T],
	setPK SetPKFunc[T],
) *Query[T] {
	return &Query[T]{
		db:          db,
		table:       table,
		columns:     columns,
		pk:          pk,
		scan:        scan,
		colValPairs: colValPairs,
		setPK:       setPK,
	}
}

// RegisterJoin registers a named join definition for use with Join/LeftJoin.
func (q *Query[T]) RegisterJoin(name string, cfg JoinConfig) {
	if q.joinDefs == nil {
		q.joinDefs = make(map[string]JoinConfig)
	}
	q.joinDefs[name] = cfg
}

// RegisterPreloader registers a named preloader for use with Preload.
func (q *Query[T]) RegisterPreloader(name string, fn PreloaderFunc[T]) {
	if q.preloaders == nil {
		q.preloaders = make(map[string]PreloaderFunc[T])
	}
	q.preloaders[name] = fn
}

// RegisterCreatedAt registers a hook that stamps creation time onto rows
// passed to Create and CreateAll. The time comes from the Clock in the
// context (see WithClock).
func (q *Query[T]) RegisterCreatedAt(fn SetTimeFunc[T]) {
	q.setCreated = fn
}

// clone returns a shallow copy with slices copied to avoid aliasing.
func (q *Query[T]) clone() *Query[T] {
	q2 := *q
	q2.wheres = append([]whereClause(nil), q.wheres...)
	q2.orderBys = append([]string(nil), q.orderBys...)
	q2.joins = append([]string(nil), q.joins...)
	q2.joinSelects = append([]string(nil), q.joinSelects...)
	q2.preloads = append([]string(nil), q.preloads...)
	return &q2
}

// --- Builder methods ---

func (q *Query[T]) Where(clause string, args ...any) *Query[T] {
	q2 := q.clone()
	q2.wheres = append(q2.wheres, whereClause{clause, args})
	return q2
}

func (q *Query[T]) OrderBy(clause string) *Query[T] {
	q2 := q.clone()
	q2.orderBys = append(q2.orderBys, clause)
	return q2
}

func (q *Query[T]) Limit(n int) *Query[T] {
	q2 := q.clone()
	q2.limit = &n
	return q2
}

func (q *Query[T]) Offset(n int) *Query[T] {
	q2 := q.clone()
	q2.offset = &n
	return q2
}

func (q *Query[T]) Select(columns string) *Query[T] {
	q2 := q.clone()
	q2.selects = &columns
	return q2
}

// Join adds an INNER JOIN for the named relation.
func (q *Query[T]) Join(name string) *Query[T] {
	return q.addJoin("INNER JOIN", name)
}

// LeftJoin adds a LEFT JOIN for the named relation.
func (q *Query[T]) LeftJoin(name string) *Query[T] {
	return q.addJoin("LEFT JOIN", name)
}

func (q *Query[T]) addJoin(joinType, name string) *Query[T] {
	q2 := q.clone()
	cfg, ok := q.joinDefs[name]
	if !ok {
		if q2.err == nil {
			q2.err = fmt.Errorf("%w %q", ErrUnknownRelation, name)
		}
		return q2
	}
	clause := fmt.Sprintf(
		"%s %s ON %s.%s = %s.%s",
		joinType,
		q.qi(cfg.TargetTable),
		q.qi(cfg.TargetTable), q.qi(cfg.TargetColumn),
		q.qi(cfg.SourceTable), q.qi(cfg.SourceColumn),
	)
	q2.joins = append(q2.joins, clause)
	for _, col := range cfg.SelectColumns {
		q2.joinSelects = append(q2.joinSelects, fmt.Sprintf(
			"%s.%s AS %s", q.qi(cfg.TargetTable), q.qi(col), q.qi(JoinAlias(name, col)),
		))
	}
	return q2
}

// Preload registers a relation to be eagerly loaded after the main query.
func (q *Query[T]) Preload(name string) *Query[T] {
	q2 := q.clone()
	q2.preloads = append(q2.preloads, name)
	return q2
}

// Scopes applies the given scope.Scope values to the query.
func (q *Query[T]) Scopes(scopes ...scope.Scope) *Query[T] {
	q2 := q.clone()
	for _, s := range scopes {
		s.Apply(q2)
	}
	return q2
}

// --- scope.Applier implementation ---

func (q *Query[T]) ApplyWhere(clause string, args []any) {
	q.wheres = append(q.wheres, whereClause{clause, args})
}

func (q *Query[T]) ApplyOrderBy(clause string) {
	q.orderBys = append(q.orderBys, clause)
}

func (q *Query[T]) ApplyLimit(n int)  { q.limit = &n }
func (q *Query[T]) ApplyOffset(n int) { q.offset = &n }

func (q *Query[T]) ApplySelect(columns string) {
	q.selects = &columns
}

var _ scope.Applier = (*Query[any])(nil)

// --- Terminal methods ---

// SQL returns the SELECT statement All would execute, rendered for the
// Querier's dialect, together with its bind arguments.
func (q *Query[T]) SQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	query, args := q.buildSelect()
	return rewritePlaceholders(q.db.dialect(), query), args, nil
}

// All executes a SELECT and returns all matching rows.
func (q *Query[T]) All(ctx context.Context) ([]T, error) {
	query, args, err := q.SQL()
	if err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var result []T
	for rows.Next() {
		item, err := q.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	// Release the connection before preloading; SQLite stores hold only one.
	_ = rows.Close()

	for _, name := range q.preloads {
		fn, ok := q.preloaders[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownRelation, name)
		}
		if err := fn(ctx, q.db, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// First executes a SELECT with LIMIT 1 and returns the first row.
// Returns ErrNotFound if no rows match.
func (q *Query[T]) First(ctx context.Context) (T, error) {
	var zero T
	items, err := q.Limit(1).All(ctx)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

// Count returns the number of rows matching the current query conditions.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	query, args := q.buildCount()
	query = rewritePlaceholders(q.db.dialect(), query)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return 0, errors.New("orm: COUNT returned no rows")
	}
	var count int64
	if err := rows.Scan(&count); err != nil {
		return 0, err //nolint:wrapcheck // pass through
	}
	return count, rows.Err() //nolint:wrapcheck // pass through
}

// Exists returns true if at least one row matches the current query conditions.
func (q *Query[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Limit(1).Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new row. If setPK is set, the primary key is populated
// via RETURNING (PostgreSQL) or LastInsertId (MySQL, SQLite).
func (q *Query[T]) Create(ctx context.Context, t *T) error {
	if q.setCreated != nil {
		q.setCreated(t, now(ctx))
	}

	includesPK := q.setPK == nil
	columns, values := q.colValPairs(t, includesPK)

	d := q.db.dialect()
	query := rewritePlaceholders(d, q.buildInsert(columns, 1))

	if d.UseReturning() && q.setPK != nil {
		query += d.ReturningClause(q.pk)
		rows, err := q.db.QueryContext(ctx, query, values...)
		if err != nil {
			return err //nolint:wrapcheck // pass through
		}
		defer func() { _ = rows.Close() }()
		if !rows.Next() {
			return errors.New("orm: INSERT RETURNING returned no rows")
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err //nolint:wrapcheck // pass through
		}
		q.setPK(t, id)
		return rows.Err() //nolint:wrapcheck // pass through
	}

	result, err := q.db.ExecContext(ctx, query, values...)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}

	if q.setPK != nil {
		id, err := result.LastInsertId()
		if err != nil {
			return err //nolint:wrapcheck // pass through
		}
		q.setPK(t, id)
	}
	return nil
}

// CreateAll inserts multiple rows with multi-row INSERT statements,
// split so no statement exceeds the dialect's bind variable limit.
// Chunks are not atomic as a whole unless the Querier is a *Tx.
// If setPK is set, primary keys are populated for each row.
func (q *Query[T]) CreateAll(ctx context.Context, items []*T) error {
	if len(items) == 0 {
		return nil
	}

	if q.setCreated != nil {
		ts := now(ctx)
		for _, item := range items {
			q.setCreated(item, ts)
		}
	}

	columns, _ := q.colValPairs(items[0], q.setPK == nil)
	size := max(1, maxBindVars(q.db.dialect())/max(1, len(columns)))
	for start := 0; start < len(items); start += size {
		if err := q.insertBatch(ctx, items[start:min(start+size, len(items))]); err != nil {
			return err
		}
	}
	return nil
}

func (q *Query[T]) insertBatch(ctx context.Context, items []*T) error {
	includesPK := q.setPK == nil
	var columns []string
	var allValues []any
	for _, item := range items {
		cols, vals := q.colValPairs(item, includesPK)
		if columns == nil {
			columns = cols
		}
		allValues = append(allValues, vals...)
	}

	d := q.db.dialect()
	query := rewritePlaceholders(d, q.buildInsert(columns, len(items)))

	if d.UseReturning() && q.setPK != nil {
		query += d.ReturningClause(q.pk)
		rows, err := q.db.QueryContext(ctx, query, allValues...)
		if err != nil {
			return err //nolint:wrapcheck // pass through
		}
		defer func() { _ = rows.Close() }()
		for i := 0; rows.Next(); i++ {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err //nolint:wrapcheck // pass through
			}
			q.setPK(items[i], id)
		}
		return rows.Err() //nolint:wrapcheck // pass through
	}

	result, err := q.db.ExecContext(ctx, query, allValues...)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}

	if q.setPK != nil {
		id, err := result.LastInsertId()
		if err != nil {
			return err //nolint:wrapcheck // pass through
		}
		// MySQL reports the first generated id of a multi-row INSERT,
		// SQLite the last one.
		firstID := id
		if d.Name() == SQLite.Name() {
			firstID = id - int64(len(items)-1)
		}
		for i, item := range items {
			q.setPK(item, firstID+int64(i))
		}
	}
	return nil
}

// Update updates the row identified by the primary key of t.
// All non-PK columns are SET.
func (q *Query[T]) Update(ctx context.Context, t *T) error {
	allCols, allVals := q.colValPairs(t, true)

	var setCols []string
	var setVals []any
	var pkVal any
	for i, col := range allCols {
		if col == q.pk {
			pkVal = allVals[i]
		} else {
			setCols = append(setCols, col)
			setVals = append(setVals, allVals[i])
		}
	}
	if pkVal == nil {
		return errors.New("orm: primary key value is required for Update")
	}

	setVals = append(setVals, pkVal)
	query := rewritePlaceholders(q.db.dialect(), q.buildUpdate(setCols))

	_, err := q.db.ExecContext(ctx, query, setVals...)
	return err //nolint:wrapcheck // pass through
}

// Delete deletes rows matching the accumulated WHERE clauses.
// Returns an error if no WHERE clauses are set.
func (q *Query[T]) Delete(ctx context.Context) error {
	if len(q.wheres) == 0 {
		return errors.New("orm: Delete without WHERE clause is not allowed")
	}
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(q.qi(q.table))
	args := q.appendWhere(&b)
	query := rewritePlaceholders(q.db.dialect(), b.String())

	_, err := q.db.ExecContext(ctx, query, args...)
	return err //nolint:wrapcheck // pass through
}

// --- SQL building ---

// qi quotes an identifier (table/column name) using the dialect.
func (q *Query[T]) qi(name string) string {
	return q.db.dialect().QuoteIdent(name)
}

// quoteColumns joins column names with dialect-aware quoting. When table
// is non-empty each column is qualified with it.
func (q *Query[T]) quoteColumns(table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		if table != "" {
			quoted[i] = q.qi(table) + "." + q.qi(c)
		} else {
			quoted[i] = q.qi(c)
		}
	}
	return strings.Join(quoted, ", ")
}

func (q *Query[T]) buildSelect() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")

	switch {
	case q.selects != nil:
		b.WriteString(*q.selects)
	case len(q.joins) > 0:
		b.WriteString(q.quoteColumns(q.table, q.columns))
		for _, s := range q.joinSelects {
			b.WriteString(", ")
			b.WriteString(s)
		}
	default:
		b.WriteString(q.quoteColumns("", q.columns))
	}

	b.WriteString(" FROM ")
	b.WriteString(q.qi(q.table))
	q.appendJoins(&b)

	args := q.appendWhere(&b)

	if len(q.orderBys) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orderBys, ", "))
	}
	q.appendLimitOffset(&b)

	return b.String(), args
}

func (q *Query[T]) buildCount() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(q.qi(q.table))
	q.appendJoins(&b)
	args := q.appendWhere(&b)
	q.appendLimitOffset(&b)
	return b.String(), args
}

func (q *Query[T]) buildInsert(columns []string, rowCount int) string {
	ph := make([]string, len(columns))
	for i := range ph {
		ph[i] = "?"
	}
	oneRow := "(" + strings.Join(ph, ", ") + ")"

	rows := make([]string, rowCount)
	for i := range rows {
		rows[i] = oneRow
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		q.qi(q.table),
		q.quoteColumns("", columns),
		strings.Join(rows, ", "),
	)
}

func (q *Query[T]) buildUpdate(setCols []string) string {
	sets := make([]string, len(setCols))
	for i, col := range setCols {
		sets[i] = q.qi(col) + " = ?"
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = ?",
		q.qi(q.table),
		strings.Join(sets, ", "),
		q.qi(q.pk),
	)
}

func (q *Query[T]) appendJoins(b *strings.Builder) {
	for _, j := range q.joins {
		b.WriteByte(' ')
		b.WriteString(j)
	}
}

func (q *Query[T]) appendWhere(b *strings.Builder) []any {
	if len(q.wheres) == 0 {
		return nil
	}

	var args []any
	b.WriteString(" WHERE ")
	for i, w := range q.wheres {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(w.clause)
		args = append(args, w.args...)
	}
	return args
}

func (q *Query[T]) appendLimitOffset(b *strings.Builder) {
	if q.limit != nil {
		fmt.Fprintf(b, " LIMIT %d", *q.limit)
	}
	if q.offset != nil {
		fmt.Fprintf(b, " OFFSET %d", *q.offset)
	}
}
