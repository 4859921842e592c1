package features

import "gonum.org/v1/gonum/floats"

// NormalizedVector is a FeatureVector rescaled so its elements sum to one.
// If the source vector summed to zero it holds zeros instead.
type NormalizedVector []float64

// Normalize divides every count by the total count. A vector whose total is
// zero is returned unchanged (as zeros). Normalize never fails and the
// result always has the same length as vector.
func Normalize(vector FeatureVector) NormalizedVector {
	return NormalizedVector(NormalizeFloat(vector.Floats()))
}

// NormalizeFloat applies the same rule as Normalize to float values. The
// input slice is not modified.
func NormalizeFloat(vector []float64) []float64 {
	out := make([]float64, len(vector))
	copy(out, vector)

	total := floats.Sum(out)
	if total > 0 {
		floats.Scale(1/total, out)
	}
	return out
}

// Sum returns the total of all elements.
func (v NormalizedVector) Sum() float64 {
	return floats.Sum(v)
}
