package rng

// WeightedIndex selects an index from weights using the single draw r in [0, 1).
//
// The draw is scaled by the total weight and each weight is subtracted in
// order; the first entry whose remainder drops below zero is chosen. If
// floating point drift leaves no match, the last index is returned.
//
// Postcondition: returns -1 iff weights is empty; otherwise 0 <= result < len(weights).
func WeightedIndex(weights []float64, r float64) int {
	if len(weights) == 0 {
		return -1
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	roll := r * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		roll -= w
		if roll < 0 {
			return i
		}
	}
	return len(weights) - 1
}
