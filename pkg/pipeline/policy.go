// Package pipeline turns an unordered set of steps into an immutable,
// contract-validated, deterministically ordered pipeline.
package pipeline

import (
	"strings"

	"github.com/systemstart/steptick/pkg/step"
)

// Policy is a deterministic total order over steps. Compare returns a
// negative number when a sorts before b, zero when they are equivalent and a
// positive number otherwise. Implementations must not depend on identity,
// insertion order, time or hashing.
type Policy interface {
	Compare(a, b step.Step) int
}

// Lexicographic orders steps by ID (byte-wise), then by concrete type name.
// Nil steps sort before any real step.
type Lexicographic struct{}

// Compare implements Policy.
func (Lexicographic) Compare(a, b step.Step) int {
	aNil, bNil := step.IsNil(a), step.IsNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	}
	if c := strings.Compare(a.ID(), b.ID()); c != 0 {
		return c
	}
	return strings.Compare(step.TypeName(a), step.TypeName(b))
}

// PolicyFunc adapts a comparison function to Policy.
type PolicyFunc func(a, b step.Step) int

// Compare implements Policy.
func (f PolicyFunc) Compare(a, b step.Step) int { return f(a, b) }
