package pgbridge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Get(t *testing.T) {
	r := Row{columns: map[string]Value{
		"id":   Int8(1),
		"note": Null(),
	}}

	v, err := r.Get("id")
	require.NoError(t, err)
	assert.True(t, v.Equal(Int8(1)))

	v, err = r.Get("note")
	require.NoError(t, err)
	assert.True(t, v.IsNull(), "present NULL column is not an error")

	_, err = r.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	assert.True(t, r.Has("note"))
	assert.False(t, r.Has("missing"))
}

func TestRow_ColumnsSorted(t *testing.T) {
	r := Row{columns: map[string]Value{
		"zeta": Null(), "alpha": Null(), "mid": Null(),
	}}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Columns())
	assert.Equal(t, 3, r.Len())
}

func TestRow_MarshalJSON(t *testing.T) {
	r := Row{columns: map[string]Value{
		"id":      Int8(42),
		"data":    Bytes([]byte{0xca, 0xfe}),
		"balance": Decimal("10.50"),
		"seen_at": Timestamptz(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)),
		"note":    Null(),
	}}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":42,"data":"cafe","balance":"10.50","seen_at":"2024-03-15T10:30:00Z","note":null}`,
		string(out))

	again, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again), "marshaling is deterministic")
}

func TestRow_JSONValue(t *testing.T) {
	r := Row{columns: map[string]Value{
		"tags": Array([]Value{Text("a"), Text("b")}),
	}}
	got := r.JSONValue()
	assert.Equal(t, map[string]any{"tags": []any{"a", "b"}}, got)
}
