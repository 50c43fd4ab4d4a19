package pgbridge

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of the bridge.
// Validation and binding errors are detected before any statement is
// sent; the caller can correct the input and retry. Decode errors mean
// a wire value could not be mapped to any known variant. Absence is
// never an error: FindByID returns ok=false and Update/Delete return
// false when no row matches.
//
// Use the Is*Err helper functions to classify a wrapped error.
var (
	// ErrInvalidIdentifier is returned when a table or column name
	// fails validation: empty, too long, bad characters, a reserved
	// SQL keyword, or a system-catalog reference.
	ErrInvalidIdentifier = errors.New("pgbridge: invalid identifier")

	// ErrEmptyValues is returned by Insert and Update when the value
	// list is empty. The statement is never built.
	ErrEmptyValues = errors.New("pgbridge: empty value list")

	// ErrColumnMismatch is returned by InsertMany when a row's column
	// set differs from the first row's. The error message names the
	// diverging row index and both column sets.
	ErrColumnMismatch = errors.New("pgbridge: batch rows have mismatched columns")

	// ErrBind is returned when a Value cannot be encoded as a wire
	// bind argument. The statement is never sent.
	ErrBind = errors.New("pgbridge: cannot bind value")

	// ErrDecode is returned when a wire value cannot be decoded into
	// any Value variant. Unrecognized column types do not produce this
	// error; they degrade to text decoding with a logged warning.
	ErrDecode = errors.New("pgbridge: cannot decode wire value")

	// ErrColumnNotFound is returned by Row.Get for a column name the
	// row does not contain.
	ErrColumnNotFound = errors.New("pgbridge: column not found")
)

// IsInvalidIdentifierErr returns true if err is or wraps ErrInvalidIdentifier.
func IsInvalidIdentifierErr(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

// IsEmptyValuesErr returns true if err is or wraps ErrEmptyValues.
func IsEmptyValuesErr(err error) bool {
	return errors.Is(err, ErrEmptyValues)
}

// IsColumnMismatchErr returns true if err is or wraps ErrColumnMismatch.
func IsColumnMismatchErr(err error) bool {
	return errors.Is(err, ErrColumnMismatch)
}

// IsBindErr returns true if err is or wraps ErrBind.
func IsBindErr(err error) bool {
	return errors.Is(err, ErrBind)
}

// IsDecodeErr returns true if err is or wraps ErrDecode.
func IsDecodeErr(err error) bool {
	return errors.Is(err, ErrDecode)
}

// sqlState extracts the SQLSTATE code from a PostgreSQL error.
// Works with multiple drivers via interface detection:
//   - pgx/pgconn: SQLState() string
//   - lib/pq: Code field (via error interface)
//
// Returns empty string if the error doesn't contain a SQLSTATE.
func sqlState(err error) string {
	type sqlStateErr interface{ SQLState() string }
	if e, ok := err.(sqlStateErr); ok {
		return e.SQLState()
	}

	type codeErr interface{ Code() string }
	if e, ok := err.(codeErr); ok {
		return e.Code()
	}

	// Fallback: string matching for known patterns (last resort)
	errStr := err.Error()
	if strings.Contains(errStr, "SQLSTATE") {
		// Format: "... (SQLSTATE 42P01)" or "SQLSTATE: 42P01"
		for _, prefix := range []string{"SQLSTATE ", "SQLSTATE: "} {
			if idx := strings.Index(errStr, prefix); idx >= 0 {
				start := idx + len(prefix)
				if start+5 <= len(errStr) {
					return errStr[start : start+5]
				}
			}
		}
	}

	return ""
}

// PostgreSQL error codes the classifiers below recognize.
const (
	pgUndefinedTable  = "42P01" // undefined_table
	pgUndefinedColumn = "42703" // undefined_column
)

// IsUndefinedTableErr returns true if err carries the server's
// undefined_table SQLSTATE (42P01), i.e. the target table does not
// exist.
func IsUndefinedTableErr(err error) bool {
	return err != nil && sqlState(err) == pgUndefinedTable
}

// IsUndefinedColumnErr returns true if err carries the server's
// undefined_column SQLSTATE (42703).
func IsUndefinedColumnErr(err error) bool {
	return err != nil && sqlState(err) == pgUndefinedColumn
}
