package pgbridge

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.Equal(Null()))
}

func TestValue_Accessors(t *testing.T) {
	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	i16, ok := Int2(7).AsInt2()
	require.True(t, ok)
	assert.Equal(t, int16(7), i16)

	i32, ok := Int4(-40000).AsInt4()
	require.True(t, ok)
	assert.Equal(t, int32(-40000), i32)

	i64, ok := Int8(1 << 40).AsInt8()
	require.True(t, ok)
	assert.Equal(t, int64(1<<40), i64)

	s, ok := Text("hello").AsText()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	d, ok := Decimal("123456.789000000000000001").AsDecimal()
	require.True(t, ok)
	assert.Equal(t, "123456.789000000000000001", d)

	// Wrong-kind access signals via ok, not a zero value the caller
	// might mistake for data.
	_, ok = Text("x").AsBool()
	assert.False(t, ok)
	_, ok = Int8(1).AsText()
	assert.False(t, ok)
}

func TestValue_AsIntWidens(t *testing.T) {
	for _, v := range []Value{Int2(5), Int4(5), Int8(5)} {
		n, ok := v.AsInt()
		require.True(t, ok)
		assert.Equal(t, int64(5), n)
	}
	_, ok := Float8(5).AsInt()
	assert.False(t, ok)
}

func TestValue_Equal(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	assert.True(t, Bool(true).Equal(Bool(true)))
	assert.False(t, Bool(true).Equal(Bool(false)))
	assert.False(t, Int4(1).Equal(Int8(1)), "different widths are different variants")
	assert.True(t, Bytes([]byte{0xde, 0xad}).Equal(Bytes([]byte{0xde, 0xad})))
	assert.True(t, UUID(u).Equal(UUID(u)))
	assert.True(t, Timestamptz(ts).Equal(Timestamptz(ts.In(time.FixedZone("X", 3600)))),
		"same instant in different zones is equal")
	assert.True(t, Decimal("1.50").Equal(Decimal("1.50")))
	assert.False(t, Decimal("1.5").Equal(Decimal("1.50")), "decimals compare by exact string")
	assert.True(t, JSON(map[string]any{"a": []any{1.0, true}}).Equal(JSON(map[string]any{"a": []any{1.0, true}})))
	assert.True(t, Array([]Value{Int8(1), Text("x")}).Equal(Array([]Value{Int8(1), Text("x")})))
	assert.False(t, Array([]Value{Int8(1)}).Equal(Array([]Value{Int8(2)})))
}

func TestJSONValue_Scalars(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	assert.Nil(t, Null().JSONValue())
	assert.Equal(t, true, Bool(true).JSONValue())
	assert.Equal(t, int64(7), Int2(7).JSONValue())
	assert.Equal(t, int64(7), Int4(7).JSONValue())
	assert.Equal(t, int64(7), Int8(7).JSONValue())
	assert.Equal(t, 1.5, Float8(1.5).JSONValue())
	assert.Equal(t, "hi", Text("hi").JSONValue())
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", UUID(u).JSONValue())
	assert.Equal(t, "123456.789000000000000001", Decimal("123456.789000000000000001").JSONValue())
}

func TestJSONValue_BytesHexLowercase(t *testing.T) {
	v := Bytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	assert.Equal(t, "deadbeef", v.JSONValue())
	assert.Equal(t, "", Bytes(nil).JSONValue())
}

func TestJSONValue_NonFiniteFloats(t *testing.T) {
	assert.Nil(t, Float8(math.NaN()).JSONValue())
	assert.Nil(t, Float8(math.Inf(1)).JSONValue())
	assert.Nil(t, Float8(math.Inf(-1)).JSONValue())
	assert.Nil(t, Float4(float32(math.Inf(1))).JSONValue())
}

func TestJSONValue_Temporal(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", Date(d).JSONValue())

	clock := 10*time.Hour + 30*time.Minute + 15*time.Second
	assert.Equal(t, "10:30:15", Time(clock).JSONValue())
	assert.Equal(t, "10:30:15.5", Time(clock+500*time.Millisecond).JSONValue())
	assert.Equal(t, "10:30:15.000001", Time(clock+time.Microsecond).JSONValue())
	assert.Equal(t, "00:00:00", Time(0).JSONValue())

	naive := time.Date(2024, 3, 15, 10, 30, 15, 123456000, time.UTC)
	assert.Equal(t, "2024-03-15 10:30:15.123456", Timestamp(naive).JSONValue())

	zoned := time.Date(2024, 3, 15, 10, 30, 15, 0, time.FixedZone("", 2*3600))
	assert.Equal(t, "2024-03-15T10:30:15+02:00", Timestamptz(zoned).JSONValue())
	utc := time.Date(2024, 3, 15, 10, 30, 15, 0, time.UTC)
	assert.Equal(t, "2024-03-15T10:30:15Z", Timestamptz(utc).JSONValue())
}

func TestJSONValue_Array(t *testing.T) {
	v := Array([]Value{Int8(1), Text("a"), Null(), Bytes([]byte{0x01})})
	got := v.JSONValue()
	assert.Equal(t, []any{int64(1), "a", nil, "01"}, got)
}

func TestJSONValue_JSONPassthrough(t *testing.T) {
	doc := map[string]any{"k": []any{1.0, "two", nil}}
	assert.Equal(t, doc, JSON(doc).JSONValue())
}

func TestJSONValue_Idempotent(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	values := []Value{
		Null(),
		Bool(false),
		Int8(42),
		Float8(3.25),
		Float8(math.NaN()),
		Text("x"),
		Bytes([]byte{0xab, 0xcd}),
		UUID(u),
		Date(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)),
		Time(3 * time.Hour),
		Timestamp(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)),
		Timestamptz(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)),
		JSON(map[string]any{"a": 1.0}),
		Array([]Value{Int8(1), Decimal("0.1")}),
		Decimal("99999999999999999999.00000000000000000001"),
	}
	for _, v := range values {
		first, err := json.Marshal(v.JSONValue())
		require.NoError(t, err)
		second, err := json.Marshal(v.JSONValue())
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second), "kind %s", v.Kind())
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "NULL", KindNull.String())
	assert.Equal(t, "BIGINT", KindInt8.String())
	assert.Equal(t, "DOUBLE PRECISION", KindFloat8.String())
	assert.Equal(t, "TIMESTAMPTZ", KindTimestamptz.String())
	assert.Equal(t, "NUMERIC", KindDecimal.String())
}

func TestBindArg_Scalars(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	arg, err := Null().BindArg()
	require.NoError(t, err)
	assert.Nil(t, arg)

	arg, err = Bool(true).BindArg()
	require.NoError(t, err)
	assert.Equal(t, true, arg)

	arg, err = Int2(7).BindArg()
	require.NoError(t, err)
	assert.Equal(t, int16(7), arg)

	arg, err = Int4(7).BindArg()
	require.NoError(t, err)
	assert.Equal(t, int32(7), arg)

	arg, err = Int8(7).BindArg()
	require.NoError(t, err)
	assert.Equal(t, int64(7), arg)

	arg, err = Float4(1.5).BindArg()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), arg)

	arg, err = Float8(1.5).BindArg()
	require.NoError(t, err)
	assert.Equal(t, 1.5, arg)

	arg, err = Text("x").BindArg()
	require.NoError(t, err)
	assert.Equal(t, "x", arg)

	arg, err = Bytes([]byte{1, 2}).BindArg()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, arg)

	arg, err = UUID(u).BindArg()
	require.NoError(t, err)
	assert.Equal(t, u, arg)

	arg, err = Decimal("1.23").BindArg()
	require.NoError(t, err)
	assert.Equal(t, "1.23", arg, "numeric binds as exact text")
}

func TestBindArg_Temporal(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	arg, err := Date(d).BindArg()
	require.NoError(t, err)
	assert.Equal(t, pgtype.Date{Time: d, Valid: true}, arg)

	arg, err = Time(90 * time.Minute).BindArg()
	require.NoError(t, err)
	assert.Equal(t, pgtype.Time{Microseconds: 5400000000, Valid: true}, arg)

	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	arg, err = Timestamp(ts).BindArg()
	require.NoError(t, err)
	assert.Equal(t, pgtype.Timestamp{Time: ts, Valid: true}, arg)

	arg, err = Timestamptz(ts).BindArg()
	require.NoError(t, err)
	assert.Equal(t, ts, arg)
}

func TestBindArg_Arrays(t *testing.T) {
	arg, err := Array(nil).BindArg()
	require.NoError(t, err)
	assert.Equal(t, []int32(nil), arg, "empty array binds as a typed nil slice")

	arg, err = Array([]Value{Int8(1), Text("a")}).BindArg()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "a"}, arg)

	_, err = Array([]Value{Float8(math.NaN())}).BindArg()
	require.Error(t, err)
	assert.True(t, IsBindErr(err))

	_, err = Array([]Value{Array([]Value{Float8(math.Inf(1))})}).BindArg()
	require.Error(t, err)
	assert.True(t, IsBindErr(err))
}

func TestBindAll(t *testing.T) {
	args, err := bindAll(nil)
	require.NoError(t, err)
	assert.Nil(t, args)

	args, err = bindAll([]Value{Int8(1), Text("x"), Null()})
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, int64(1), args[0])
	assert.Equal(t, "x", args[1])
	assert.Nil(t, args[2])

	_, err = bindAll([]Value{Int8(1), Array([]Value{Float8(math.NaN())})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter $2")
}

func TestJSONValue_TreeTypesAreGeneric(t *testing.T) {
	// The projection only emits JSON-tree Go types so callers can
	// marshal it without custom encoders.
	got := Array([]Value{JSON(map[string]any{"n": 1.0}), Int8(2)}).JSONValue()
	list, ok := got.([]any)
	require.True(t, ok)
	assert.Equal(t, reflect.Map, reflect.ValueOf(list[0]).Kind())
}
