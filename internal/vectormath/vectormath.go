// Package vectormath provides the small amount of vector arithmetic
// the index adapters share: L2 normalisation and cosine scoring.
package vectormath

import "math"

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged since it has no direction to preserve.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Dot returns the dot product of a and b. Mismatched lengths score
// zero rather than panicking; the caller stores fixed-dimension
// vectors, so a mismatch means the model changed.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// CosineScore computes the similarity of two unit vectors, clamped to
// [0, 1] so callers can treat it as a relevance score.
func CosineScore(a, b []float32) float64 {
	score := Dot(a, b)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
