package rng

// Stream is a seedable mulberry32 generator for cases that need several draws
// from one logical random source.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	state uint32
}

// NewStream creates a Stream seeded from Hash32(seed).
//
// Postcondition: two Streams created from the same seed produce identical sequences.
func NewStream(seed string) *Stream {
	return &Stream{state: Hash32(seed)}
}

func (s *Stream) next() uint32 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float returns the next draw in [0, 1).
func (s *Stream) Float() float64 {
	return float64(s.next()) / twoPow32
}

// Int returns the next draw in the closed range [min, max].
//
// Postcondition: returns ErrInvalidRange when max < min without advancing the stream.
func (s *Stream) Int(min, max int) (int, error) {
	if max < min {
		return 0, ErrInvalidRange
	}
	return scale(s.Float(), min, max), nil
}

// Intn returns the next draw in [0, n). Satisfies Source.
//
// Precondition: n > 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return scale(s.Float(), 0, n-1)
}

// Pick returns one element of items chosen by the next draw of s.
//
// Postcondition: returns ErrEmptyPick when items is empty.
func Pick[T any](s *Stream, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyPick
	}
	return items[s.Intn(len(items))], nil
}
