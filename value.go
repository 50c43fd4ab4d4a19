package pgbridge

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// The closed set of Value variants, one per supported PostgreSQL type.
const (
	KindNull Kind = iota
	KindBool
	KindInt2
	KindInt4
	KindInt8
	KindFloat4
	KindFloat8
	KindText
	KindBytes
	KindUUID
	KindDate
	KindTime
	KindTimestamp
	KindTimestamptz
	KindJSON
	KindArray
	KindDecimal
)

// String returns the PostgreSQL type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindBool:
		return "BOOLEAN"
	case KindInt2:
		return "SMALLINT"
	case KindInt4:
		return "INTEGER"
	case KindInt8:
		return "BIGINT"
	case KindFloat4:
		return "REAL"
	case KindFloat8:
		return "DOUBLE PRECISION"
	case KindText:
		return "TEXT"
	case KindBytes:
		return "BYTEA"
	case KindUUID:
		return "UUID"
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindTimestamptz:
		return "TIMESTAMPTZ"
	case KindJSON:
		return "JSONB"
	case KindArray:
		return "ARRAY"
	case KindDecimal:
		return "NUMERIC"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is the canonical representation of a database-storable value:
// a closed tagged union over the supported PostgreSQL type universe.
// Values are immutable once constructed. The zero Value is Null.
//
// Decimals are carried as their exact decimal string and are never
// coerced through a binary float, so arbitrary precision survives the
// round trip. Arrays own their elements; element kinds are checked at
// bind time, not at construction.
type Value struct {
	kind Kind

	b      bool
	i      int64
	f      float64
	s      string // text and decimal
	by     []byte
	u      uuid.UUID
	t      time.Time     // date, timestamp, timestamptz
	clock  time.Duration // time-of-day since midnight
	j      any           // decoded JSON document
	elems  []Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Bool returns a BOOLEAN Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int2 returns a SMALLINT Value.
func Int2(v int16) Value { return Value{kind: KindInt2, i: int64(v)} }

// Int4 returns an INTEGER Value.
func Int4(v int32) Value { return Value{kind: KindInt4, i: int64(v)} }

// Int8 returns a BIGINT Value.
func Int8(v int64) Value { return Value{kind: KindInt8, i: v} }

// Float4 returns a REAL Value.
func Float4(v float32) Value { return Value{kind: KindFloat4, f: float64(v)} }

// Float8 returns a DOUBLE PRECISION Value.
func Float8(v float64) Value { return Value{kind: KindFloat8, f: v} }

// Text returns a TEXT Value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bytes returns a BYTEA Value. The slice is not copied; callers must
// not mutate it afterwards.
func Bytes(v []byte) Value { return Value{kind: KindBytes, by: v} }

// UUID returns a UUID Value.
func UUID(v uuid.UUID) Value { return Value{kind: KindUUID, u: v} }

// Date returns a DATE Value. Only the calendar date of t is used.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Time returns a TIME (time-of-day) Value from a duration since
// midnight.
func Time(sinceMidnight time.Duration) Value {
	return Value{kind: KindTime, clock: sinceMidnight}
}

// Timestamp returns a TIMESTAMP (no time zone) Value. The wall-clock
// fields of t are used as-is.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t} }

// Timestamptz returns a TIMESTAMPTZ Value.
func Timestamptz(t time.Time) Value { return Value{kind: KindTimestamptz, t: t} }

// JSON returns a JSON/JSONB Value holding a decoded JSON tree
// (nil, bool, float64, string, []any, map[string]any).
func JSON(doc any) Value { return Value{kind: KindJSON, j: doc} }

// Array returns an ARRAY Value. Elements may be heterogeneous; they
// are validated at bind time.
func Array(elems []Value) Value { return Value{kind: KindArray, elems: elems} }

// Decimal returns a NUMERIC Value from its exact decimal string form,
// e.g. "123456.789000000000000001". The string is stored verbatim and
// never parsed into a binary float.
func Decimal(s string) Value { return Value{kind: KindDecimal, s: s} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload. ok is false for other kinds.
func (v Value) AsBool() (b bool, ok bool) { return v.b, v.kind == KindBool }

// AsInt2 returns the SMALLINT payload.
func (v Value) AsInt2() (int16, bool) { return int16(v.i), v.kind == KindInt2 }

// AsInt4 returns the INTEGER payload.
func (v Value) AsInt4() (int32, bool) { return int32(v.i), v.kind == KindInt4 }

// AsInt8 returns the BIGINT payload.
func (v Value) AsInt8() (int64, bool) { return v.i, v.kind == KindInt8 }

// AsInt returns any integer payload widened to int64, regardless of
// width. ok is false for non-integer kinds.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt2, KindInt4, KindInt8:
		return v.i, true
	}
	return 0, false
}

// AsFloat4 returns the REAL payload.
func (v Value) AsFloat4() (float32, bool) { return float32(v.f), v.kind == KindFloat4 }

// AsFloat8 returns the DOUBLE PRECISION payload.
func (v Value) AsFloat8() (float64, bool) { return v.f, v.kind == KindFloat8 }

// AsText returns the TEXT payload.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// AsBytes returns the BYTEA payload.
func (v Value) AsBytes() ([]byte, bool) { return v.by, v.kind == KindBytes }

// AsUUID returns the UUID payload.
func (v Value) AsUUID() (uuid.UUID, bool) { return v.u, v.kind == KindUUID }

// AsDate returns the DATE payload.
func (v Value) AsDate() (time.Time, bool) { return v.t, v.kind == KindDate }

// AsTime returns the TIME payload as a duration since midnight.
func (v Value) AsTime() (time.Duration, bool) { return v.clock, v.kind == KindTime }

// AsTimestamp returns the TIMESTAMP payload.
func (v Value) AsTimestamp() (time.Time, bool) { return v.t, v.kind == KindTimestamp }

// AsTimestamptz returns the TIMESTAMPTZ payload.
func (v Value) AsTimestamptz() (time.Time, bool) { return v.t, v.kind == KindTimestamptz }

// AsJSON returns the JSON document payload.
func (v Value) AsJSON() (any, bool) { return v.j, v.kind == KindJSON }

// AsArray returns the ARRAY payload.
func (v Value) AsArray() ([]Value, bool) { return v.elems, v.kind == KindArray }

// AsDecimal returns the NUMERIC payload as its exact decimal string.
func (v Value) AsDecimal() (string, bool) { return v.s, v.kind == KindDecimal }

// Equal reports whether two Values hold the same variant and payload.
// Decimals compare by exact string, timestamps by time.Time.Equal,
// JSON documents by structural equality of their trees.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt2, KindInt4, KindInt8:
		return v.i == o.i
	case KindFloat4, KindFloat8:
		return v.f == o.f
	case KindText, KindDecimal:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.by, o.by)
	case KindUUID:
		return v.u == o.u
	case KindDate, KindTimestamp, KindTimestamptz:
		return v.t.Equal(o.t)
	case KindTime:
		return v.clock == o.clock
	case KindJSON:
		return jsonTreeEqual(v.j, o.j)
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// JSONValue projects the Value into a generic JSON tree:
// nil, bool, int64, float64, string, []any, and map[string]any.
//
// Projection rules: bytes become a lowercase hex string; UUID, date,
// time, and naive timestamps use their canonical text form;
// timestamptz uses RFC 3339 with offset; decimals keep their exact
// string; JSON documents pass through unchanged; arrays project
// element-wise; non-finite floats (NaN, ±Inf) have no JSON number
// form and project to nil. The projection is a pure function of the
// Value, so projecting twice yields identical output.
func (v Value) JSONValue() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt2, KindInt4, KindInt8:
		return v.i
	case KindFloat4, KindFloat8:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil
		}
		return v.f
	case KindText:
		return v.s
	case KindBytes:
		return hex.EncodeToString(v.by)
	case KindUUID:
		return v.u.String()
	case KindDate:
		return v.t.Format("2006-01-02")
	case KindTime:
		return formatClock(v.clock)
	case KindTimestamp:
		return v.t.Format("2006-01-02 15:04:05.999999")
	case KindTimestamptz:
		return v.t.Format(time.RFC3339Nano)
	case KindJSON:
		return v.j
	case KindArray:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.JSONValue()
		}
		return out
	case KindDecimal:
		return v.s
	}
	return nil
}

// formatClock renders a time-of-day duration as HH:MM:SS with
// microsecond precision, trailing zeros trimmed.
func formatClock(d time.Duration) string {
	micros := d.Microseconds()
	sec := micros / 1e6
	frac := micros % 1e6
	h, m, s := sec/3600, (sec/60)%60, sec%60
	if frac == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	out := fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, frac)
	for out[len(out)-1] == '0' {
		out = out[:len(out)-1]
	}
	return out
}

// jsonTreeEqual compares two decoded JSON trees structurally.
func jsonTreeEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonTreeEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !jsonTreeEqual(v, bvv) {
				return false
			}
		}
		return true
	}
	return false
}
