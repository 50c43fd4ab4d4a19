package pgbridge

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/databridge/pgbridge/internal/sqlbuild"
)

// Store performs row-level CRUD against PostgreSQL through an
// injected Executor. It composes the QueryBuilder and the value
// bridge: every operation builds parameterized SQL, binds Values to
// wire arguments, runs exactly one executor round trip, and decodes
// any returned wire rows.
//
// Stores are lightweight and safe to create per-request. They hold no
// state beyond the executor handle and logger, and operations are
// independent of each other: no transaction spans two calls, nothing
// is retried, and cancellation belongs to the executor via ctx.
type Store struct {
	exec Executor
	log  *slog.Logger
	dec  *decoder
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for unknown-type decode warnings
// and debug output. Defaults to slog.Default().
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a Store over an Executor (*pgxpool.Pool, *pgx.Conn,
// or pgx.Tx).
func NewStore(exec Executor, opts ...StoreOption) *Store {
	s := &Store{exec: exec}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.dec = newDecoder(s.log)
	return s
}

// queryRows binds params, runs one query, and decodes every returned
// wire row. op names the operation for error context.
func (s *Store) queryRows(ctx context.Context, op, sql string, params []Value) ([]Row, error) {
	args, err := bindAll(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("executing query", slog.String("op", op), slog.String("sql", sql), slog.Int("params", len(params)))

	rows, err := s.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		r, err := s.dec.decodeRow(fds, rows.RawValues())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Insert inserts one row and returns it in full, including
// server-assigned columns, via RETURNING *. An empty value list fails
// before any statement is sent.
func (s *Store) Insert(ctx context.Context, table string, values []ColumnValue) (Row, error) {
	qb, err := NewQueryBuilder(table)
	if err != nil {
		return Row{}, err
	}
	sql, params, err := qb.BuildInsert(values)
	if err != nil {
		return Row{}, err
	}

	rows, err := s.queryRows(ctx, "insert", sql, params)
	if err != nil {
		return Row{}, err
	}
	if len(rows) != 1 {
		return Row{}, fmt.Errorf("insert: expected 1 returned row, got %d", len(rows))
	}
	return rows[0], nil
}

// InsertMany inserts rows with a single batched statement: one VALUES
// group per row, placeholders numbered consecutively across the whole
// statement in row-major order, one RETURNING *.
//
// The first row's column set, sorted, becomes the canonical column
// order; every other row must have the identical set or the operation
// fails before any SQL is issued, naming the diverging row index. An
// empty input returns an empty result without touching the executor.
// Returned rows match input order.
func (s *Store) InsertMany(ctx context.Context, table string, rowValues []map[string]Value) ([]Row, error) {
	if len(rowValues) == 0 {
		return nil, nil
	}

	first := rowValues[0]
	if len(first) == 0 {
		return nil, fmt.Errorf("%w: batch insert requires at least one column", ErrEmptyValues)
	}
	columns := make([]string, 0, len(first))
	for col := range first {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	for idx, rv := range rowValues[1:] {
		got := make([]string, 0, len(rv))
		for col := range rv {
			got = append(got, col)
		}
		sort.Strings(got)
		if !equalStrings(columns, got) {
			return nil, fmt.Errorf("%w: row %d expected columns %v, got %v",
				ErrColumnMismatch, idx+1, columns, got)
		}
	}

	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	for _, col := range columns {
		if err := ValidateIdentifier(col); err != nil {
			return nil, err
		}
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	groups := sqlbuild.NewJoiner(", ")
	params := make([]Value, 0, len(rowValues)*len(columns))
	for _, rv := range rowValues {
		holes := sqlbuild.NewJoiner(", ")
		for _, col := range columns {
			params = append(params, rv[col])
			holes.Add(sqlbuild.Placeholder(len(params)))
		}
		groups.Add("(" + holes.String() + ")")
	}
	sb.WriteString(groups.String())
	sb.WriteString(" RETURNING *")

	return s.queryRows(ctx, "batch insert", sb.String(), params)
}

// FindByID fetches the row with id = id. Absence is not an error:
// the second return is false when no row matches.
func (s *Store) FindByID(ctx context.Context, table string, id int64) (Row, bool, error) {
	qb, err := NewQueryBuilder(table)
	if err != nil {
		return Row{}, false, err
	}
	if qb, err = qb.Where("id", OpEq, Int8(id)); err != nil {
		return Row{}, false, err
	}
	sql, params := qb.BuildSelect()

	rows, err := s.queryRows(ctx, "find by id", sql, params)
	if err != nil {
		return Row{}, false, err
	}
	if len(rows) == 0 {
		return Row{}, false, nil
	}
	return rows[0], true, nil
}

// FindMany executes the supplied builder's select, or an unfiltered
// select over table when qb is nil. Rows come back in
// executor-returned order.
func (s *Store) FindMany(ctx context.Context, table string, qb *QueryBuilder) ([]Row, error) {
	if qb == nil {
		var err error
		qb, err = NewQueryBuilder(table)
		if err != nil {
			return nil, err
		}
	}
	sql, params := qb.BuildSelect()
	return s.queryRows(ctx, "find many", sql, params)
}

// Update updates the row with id = id. It returns whether any row
// changed; a missing id yields (false, nil), not an error. An empty
// value list fails before any statement is sent.
func (s *Store) Update(ctx context.Context, table string, id int64, values []ColumnValue) (bool, error) {
	qb, err := NewQueryBuilder(table)
	if err != nil {
		return false, err
	}
	if qb, err = qb.Where("id", OpEq, Int8(id)); err != nil {
		return false, err
	}
	sql, params, err := qb.BuildUpdate(values)
	if err != nil {
		return false, err
	}

	args, err := bindAll(params)
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}

	s.log.Debug("executing update", slog.String("sql", sql), slog.Int("params", len(params)))

	tag, err := s.exec.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete deletes the row with id = id, with the same affected-row
// contract as Update.
func (s *Store) Delete(ctx context.Context, table string, id int64) (bool, error) {
	qb, err := NewQueryBuilder(table)
	if err != nil {
		return false, err
	}
	if qb, err = qb.Where("id", OpEq, Int8(id)); err != nil {
		return false, err
	}
	sql, params := qb.BuildDelete()

	args, err := bindAll(params)
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}

	s.log.Debug("executing delete", slog.String("sql", sql), slog.Int("params", len(params)))

	tag, err := s.exec.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of rows matching the supplied builder's
// conditions, or all rows in table when qb is nil. The count reuses
// the builder's structured WHERE clause; ORDER BY, LIMIT, and OFFSET
// never apply.
func (s *Store) Count(ctx context.Context, table string, qb *QueryBuilder) (int64, error) {
	if qb == nil {
		var err error
		qb, err = NewQueryBuilder(table)
		if err != nil {
			return 0, err
		}
	}
	sql, params := qb.BuildCount()

	args, err := bindAll(params)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	s.log.Debug("executing count", slog.String("sql", sql), slog.Int("params", len(params)))

	var count int64
	if err := s.exec.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
