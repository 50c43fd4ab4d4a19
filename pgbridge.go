// Package pgbridge is a typed intermediary between dynamically-typed
// callers and PostgreSQL. It builds injection-safe, parameterized SQL
// from structured inputs and losslessly marshals values between a
// canonical in-memory representation and the database's wire rows.
//
// # Components
//
// The package has three layers, composed bottom-up:
//
//   - QueryBuilder assembles SELECT, INSERT, UPDATE, and DELETE
//     statements with $n placeholders and an ordered parameter list.
//     Every table and column name passes identifier validation before
//     it can appear in SQL text.
//   - Value is a closed union over the supported PostgreSQL type
//     universe (booleans, integer widths, floats, text, bytea, UUID,
//     date/time variants, JSON, arrays, arbitrary-precision decimals).
//     Values encode to pgx bind arguments and decode from wire rows.
//   - Store wraps an Executor and offers row-level CRUD: insert, batch
//     insert, find, update, delete, and count.
//
// # Basic Usage
//
//	pool, _ := pgbridge.Connect(ctx, dsn, pgbridge.DefaultPoolConfig())
//	store := pgbridge.NewStore(pool)
//
//	row, err := store.Insert(ctx, "users", []pgbridge.ColumnValue{
//	    {Name: "name", Value: pgbridge.Text("Alice")},
//	    {Name: "age", Value: pgbridge.Int4(30)},
//	})
//
// # Query Building
//
//	qb, _ := pgbridge.NewQueryBuilder("users")
//	qb, _ = qb.Where("age", pgbridge.OpGte, pgbridge.Int4(18))
//	qb, _ = qb.OrderBy("name", pgbridge.Asc)
//	qb = qb.Limit(10)
//	rows, err := store.FindMany(ctx, "users", qb)
//
// # Determinism
//
// Building the same logical query from the same inputs always produces
// byte-identical SQL and parameter order: clauses render in the order
// they were added and placeholder numbers are assigned in a single
// left-to-right pass. Executors can therefore reuse prepared
// statements keyed by SQL text.
//
// # Transaction Support
//
// The Store works with *pgxpool.Pool, *pgx.Conn, or pgx.Tx via the
// Executor interface, so CRUD calls inside a transaction see
// uncommitted state. The Store itself never begins, commits, or
// retries anything; each call is a single round trip.
package pgbridge

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor runs SQL against PostgreSQL.
// Implemented by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
//
// The minimal interface lets the Store work in transaction contexts
// without caring which handle type it was given. Pooling, timeouts,
// cancellation, and retry policy all live behind this boundary; the
// Store performs exactly one call per operation.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Translator converts between a host runtime's native representation
// and the canonical Value type. Implementations live outside this
// package; the core never depends on a specific host object model.
//
// FromNative must reject values outside the supported type universe
// rather than coercing them. ToNative must be total: every Value
// variant has a native projection.
type Translator interface {
	FromNative(v any) (Value, error)
	ToNative(v Value) (any, error)
}
