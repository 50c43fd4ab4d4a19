package sqlbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", Placeholder(1))
	assert.Equal(t, "$42", Placeholder(42))
}

func TestJoiner(t *testing.T) {
	j := NewJoiner(" AND ")
	assert.True(t, j.Empty())

	j.Add("a = $1", "", "b = $2")
	j.AddIf(true, "c = $3")
	j.AddIf(false, "d = $4")
	j.AddIf(true, "")

	assert.False(t, j.Empty())
	assert.Equal(t, 3, j.Count())
	assert.Equal(t, "a = $1 AND b = $2 AND c = $3", j.String())
}

func TestJoiner_Empty(t *testing.T) {
	j := NewJoiner(", ")
	assert.Equal(t, "", j.String())
	assert.Equal(t, 0, j.Count())
}
