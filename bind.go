package pgbridge

import (
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgtype"
)

// BindArg converts the Value into the argument form handed to the
// Executor for a $n placeholder. Null binds as an untyped NULL.
// Decimals bind as their exact string; the server parses NUMERIC from
// text so no float conversion ever happens. Non-empty arrays bind as
// a JSON array (the universal fallback that tolerates heterogeneous
// elements at the cost of native array semantics); empty arrays bind
// as a typed-nil slice, which the wire protocol sends as a NULL
// array. Array elements are validated here, not at construction.
func (v Value) BindArg() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt2:
		return int16(v.i), nil
	case KindInt4:
		return int32(v.i), nil
	case KindInt8:
		return v.i, nil
	case KindFloat4:
		return float32(v.f), nil
	case KindFloat8:
		return v.f, nil
	case KindText:
		return v.s, nil
	case KindBytes:
		return v.by, nil
	case KindUUID:
		return v.u, nil
	case KindDate:
		return pgtype.Date{Time: v.t, Valid: true}, nil
	case KindTime:
		return pgtype.Time{Microseconds: v.clock.Microseconds(), Valid: true}, nil
	case KindTimestamp:
		return pgtype.Timestamp{Time: v.t, Valid: true}, nil
	case KindTimestamptz:
		return v.t, nil
	case KindJSON:
		return v.j, nil
	case KindArray:
		if len(v.elems) == 0 {
			return []int32(nil), nil
		}
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			if err := e.validateForBind(); err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			out[i] = e.JSONValue()
		}
		return out, nil
	case KindDecimal:
		return v.s, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrBind, v.kind)
}

// validateForBind checks that a value can be represented on the wire.
// Scalars are always bindable; nested arrays are checked recursively.
// Float elements inside a JSON-fallback array must be finite because
// JSON has no NaN/Inf representation.
func (v Value) validateForBind() error {
	switch v.kind {
	case KindFloat4, KindFloat8:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("%w: non-finite %s in array", ErrBind, v.kind)
		}
	case KindArray:
		for i, e := range v.elems {
			if err := e.validateForBind(); err != nil {
				return fmt.Errorf("array element %d: %w", i, err)
			}
		}
	}
	return nil
}

// bindAll converts an ordered parameter list into executor arguments.
// The statement is never sent if any value fails to bind.
func bindAll(params []Value) ([]any, error) {
	if len(params) == 0 {
		return nil, nil
	}
	args := make([]any, len(params))
	for i, p := range params {
		arg, err := p.BindArg()
		if err != nil {
			return nil, fmt.Errorf("parameter $%d: %w", i+1, err)
		}
		args[i] = arg
	}
	return args, nil
}
