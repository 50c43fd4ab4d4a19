package pgbridge

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// decoder turns wire rows into Rows. It owns a pgtype.Map for scan
// planning and a logger for unknown-type warnings. Decoding is a pure
// function of the wire row; the decoder carries no per-row state and
// is safe for concurrent use.
type decoder struct {
	m   *pgtype.Map
	log *slog.Logger
}

func newDecoder(log *slog.Logger) *decoder {
	return &decoder{m: pgtype.NewMap(), log: log}
}

// decodeRow materializes one wire row into a Row: every column is
// decoded, null wire values become the null variant regardless of the
// declared type, and unrecognized type OIDs degrade to text decoding
// with a warning instead of failing the row.
func (d *decoder) decodeRow(fds []pgconn.FieldDescription, raw [][]byte) (Row, error) {
	columns := make(map[string]Value, len(fds))
	for i, fd := range fds {
		v, err := d.decodeColumn(fd, raw[i])
		if err != nil {
			return Row{}, err
		}
		columns[fd.Name] = v
	}
	return Row{columns: columns}, nil
}

// decodeColumn dispatches on the column's declared type OID to the
// matching variant.
func (d *decoder) decodeColumn(fd pgconn.FieldDescription, src []byte) (Value, error) {
	if src == nil {
		return Null(), nil
	}

	switch fd.DataTypeOID {
	case pgtype.BoolOID:
		return scanScalar(d.m, fd, src, Bool)
	case pgtype.Int2OID:
		return scanScalar(d.m, fd, src, Int2)
	case pgtype.Int4OID:
		return scanScalar(d.m, fd, src, Int4)
	case pgtype.Int8OID:
		return scanScalar(d.m, fd, src, Int8)
	case pgtype.Float4OID:
		return scanScalar(d.m, fd, src, Float4)
	case pgtype.Float8OID:
		return scanScalar(d.m, fd, src, Float8)
	case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID, pgtype.NameOID:
		return scanScalar(d.m, fd, src, Text)
	case pgtype.ByteaOID:
		return scanScalar(d.m, fd, src, Bytes)
	case pgtype.UUIDOID:
		return scanScalar(d.m, fd, src, UUID)
	case pgtype.DateOID:
		return scanScalar(d.m, fd, src, Date)
	case pgtype.TimeOID:
		var t pgtype.Time
		if err := d.m.Scan(fd.DataTypeOID, fd.Format, src, &t); err != nil {
			return Value{}, decodeErr(fd, "TIME", err)
		}
		return Time(time.Duration(t.Microseconds) * time.Microsecond), nil
	case pgtype.TimestampOID:
		return scanScalar(d.m, fd, src, Timestamp)
	case pgtype.TimestamptzOID:
		return scanScalar(d.m, fd, src, Timestamptz)
	case pgtype.JSONOID, pgtype.JSONBOID:
		var doc any
		if err := d.m.Scan(fd.DataTypeOID, fd.Format, src, &doc); err != nil {
			return Value{}, decodeErr(fd, "JSON", err)
		}
		return JSON(doc), nil
	case pgtype.NumericOID:
		var n pgtype.Numeric
		if err := d.m.Scan(fd.DataTypeOID, fd.Format, src, &n); err != nil {
			return Value{}, decodeErr(fd, "NUMERIC", err)
		}
		return Decimal(numericString(n)), nil

	case pgtype.BoolArrayOID:
		return scanArray(d.m, fd, src, Bool)
	case pgtype.Int2ArrayOID:
		return scanArray(d.m, fd, src, Int2)
	case pgtype.Int4ArrayOID:
		return scanArray(d.m, fd, src, Int4)
	case pgtype.Int8ArrayOID:
		return scanArray(d.m, fd, src, Int8)
	case pgtype.Float4ArrayOID:
		return scanArray(d.m, fd, src, Float4)
	case pgtype.Float8ArrayOID:
		return scanArray(d.m, fd, src, Float8)
	case pgtype.TextArrayOID, pgtype.VarcharArrayOID:
		return scanArray(d.m, fd, src, Text)
	case pgtype.UUIDArrayOID:
		return scanArray(d.m, fd, src, UUID)
	}

	// Unknown or exotic type: degrade to text decoding rather than
	// failing the whole row. The warning is the observable signal
	// that a type needs a real mapping.
	d.log.Warn("unknown column type, decoding as text",
		slog.String("column", fd.Name),
		slog.String("type", d.typeName(fd.DataTypeOID)),
		slog.Uint64("oid", uint64(fd.DataTypeOID)))

	if fd.Format == pgtype.TextFormatCode {
		return Text(string(src)), nil
	}
	var s string
	if err := d.m.Scan(fd.DataTypeOID, fd.Format, src, &s); err != nil {
		return Value{}, decodeErr(fd, d.typeName(fd.DataTypeOID), err)
	}
	return Text(s), nil
}

// typeName resolves an OID to its type name for log and error text.
func (d *decoder) typeName(oid uint32) string {
	if t, ok := d.m.TypeForOID(oid); ok {
		return t.Name
	}
	return fmt.Sprintf("oid=%d", oid)
}

func decodeErr(fd pgconn.FieldDescription, typeName string, err error) error {
	return fmt.Errorf("%w: column %q (%s): %v", ErrDecode, fd.Name, typeName, err)
}

// scanScalar decodes a single non-null scalar into its Go type and
// wraps it in the matching Value variant.
func scanScalar[T any](m *pgtype.Map, fd pgconn.FieldDescription, src []byte, wrap func(T) Value) (Value, error) {
	var v T
	if err := m.Scan(fd.DataTypeOID, fd.Format, src, &v); err != nil {
		return Value{}, decodeErr(fd, fmt.Sprintf("%T", v), err)
	}
	return wrap(v), nil
}

// scanArray decodes a one-dimensional array column into the Array
// variant, each element decoded via the scalar rule for its type.
func scanArray[T any](m *pgtype.Map, fd pgconn.FieldDescription, src []byte, wrap func(T) Value) (Value, error) {
	var vs []T
	if err := m.Scan(fd.DataTypeOID, fd.Format, src, &vs); err != nil {
		return Value{}, decodeErr(fd, fmt.Sprintf("%T", vs), err)
	}
	elems := make([]Value, len(vs))
	for i, v := range vs {
		elems[i] = wrap(v)
	}
	return Array(elems), nil
}

// numericString renders a wire NUMERIC as its exact decimal string.
// The value is scaled big-integer arithmetic throughout; no binary
// float is ever involved.
func numericString(n pgtype.Numeric) string {
	if n.NaN {
		return "NaN"
	}
	switch n.InfinityModifier {
	case pgtype.Infinity:
		return "Infinity"
	case pgtype.NegativeInfinity:
		return "-Infinity"
	}
	if n.Int == nil {
		return "0"
	}

	s := n.Int.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	exp := int(n.Exp)
	switch {
	case exp > 0:
		s += strings.Repeat("0", exp)
	case exp < 0:
		digits := -exp
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}

	if neg {
		s = "-" + s
	}
	return s
}
