// Package rng provides the deterministic randomness primitives for the idle
// simulation engine.
//
// Every stochastic decision in the engine is derived from a string key built
// from stable simulation coordinates (save id, activity reference, tick index,
// purpose tag). The same key always yields the same draw, independent of call
// order or wall-clock time, so no RNG state is threaded through the engine.
package rng

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRange is returned when an integer draw is requested with max < min.
var ErrInvalidRange = errors.New("rng: max must be >= min")

// ErrEmptyPick is returned when Pick is called with no candidates.
var ErrEmptyPick = errors.New("rng: cannot pick from an empty sequence")

// Source is the minimal randomness provider used by callers that only need
// bounded integers.
type Source interface {
	// Intn returns a non-negative int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Key joins simulation coordinates into a deterministic key, e.g.
// Key("save-1", "hunt", "forest", 42, "pick") == "save-1:hunt:forest:42:pick".
//
// Postcondition: equal inputs always produce equal keys.
func Key(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		switch v := p.(type) {
		case string:
			b.WriteString(v)
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
