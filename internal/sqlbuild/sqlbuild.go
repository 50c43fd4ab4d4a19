// Package sqlbuild provides small helpers for assembling SQL text.
package sqlbuild

import (
	"strconv"
	"strings"
)

// Placeholder returns the positional parameter marker for a 1-based
// position, e.g. Placeholder(3) == "$3".
func Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// Joiner accumulates clause fragments and joins them with a
// separator, filtering out empty strings. It keeps clause assembly
// order explicit: fragments render in the order they were added.
type Joiner struct {
	sep   string
	parts []string
}

// NewJoiner creates a Joiner with the given separator.
func NewJoiner(sep string) *Joiner {
	return &Joiner{sep: sep}
}

// Add adds parts to the joiner, skipping empty strings.
func (j *Joiner) Add(parts ...string) *Joiner {
	for _, p := range parts {
		if p != "" {
			j.parts = append(j.parts, p)
		}
	}
	return j
}

// AddIf adds a part only if the condition is true.
func (j *Joiner) AddIf(cond bool, part string) *Joiner {
	if cond && part != "" {
		j.parts = append(j.parts, part)
	}
	return j
}

// Empty returns true if no parts have been added.
func (j *Joiner) Empty() bool {
	return len(j.parts) == 0
}

// Count returns the number of parts.
func (j *Joiner) Count() int {
	return len(j.parts)
}

// String joins all parts with the separator.
func (j *Joiner) String() string {
	return strings.Join(j.parts, j.sep)
}
