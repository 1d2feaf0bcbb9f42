package rng

import (
	"math"
	"unicode/utf16"
)

const twoPow32 = 4294967296.0

// Hash32 folds key into a 32-bit integer using a four-lane multiply-xor
// avalanche (cyrb128) over the UTF-16 code units of the key.
//
// Postcondition: the result depends only on key.
func Hash32(key string) uint32 {
	h1 := uint32(1779033703)
	h2 := uint32(3144134277)
	h3 := uint32(1013904242)
	h4 := uint32(2773480762)

	for _, unit := range utf16.Encode([]rune(key)) {
		k := uint32(unit)
		h1 = h2 ^ ((h1 ^ k) * 597399067)
		h2 = h3 ^ ((h2 ^ k) * 2869860233)
		h3 = h4 ^ ((h3 ^ k) * 951274213)
		h4 = h1 ^ ((h4 ^ k) * 2716044813)
	}

	h1 = (h3 ^ (h1 >> 18)) * 597399067
	h2 = (h4 ^ (h2 >> 22)) * 2869860233
	h3 = (h1 ^ (h3 >> 17)) * 951274213
	h4 = (h2 ^ (h4 >> 19)) * 2716044813
	h1 ^= h2 ^ h3 ^ h4

	return h1
}

// HashFloat returns a reproducible float in [0, 1) for key.
//
// Postcondition: 0 <= result < 1.
func HashFloat(key string) float64 {
	return float64(Hash32(key)) / twoPow32
}

// HashInt returns a reproducible integer in the closed range [min, max].
//
// Precondition: max >= min.
// Postcondition: returns ErrInvalidRange when max < min; otherwise min <= result <= max.
func HashInt(key string, min, max int) (int, error) {
	if max < min {
		return 0, ErrInvalidRange
	}
	return scale(HashFloat(key), min, max), nil
}

func scale(f float64, min, max int) int {
	span := float64(max-min) + 1
	v := min + int(math.Floor(f*span))
	if v > max {
		v = max
	}
	return v
}

// Offset returns -1, 0 or 1 derived from key. It is HashInt(key, -1, 1)
// without the error path.
func Offset(key string) int {
	return scale(HashFloat(key), -1, 1)
}
