package vectormath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})

	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
	assert.InDelta(t, 1.0, Dot(v, v), 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	assert.Equal(t, v, Normalize(v))
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	v := []float32{1, 1}
	Normalize(v)
	assert.Equal(t, []float32{1, 1}, v)
}

func TestDot_MismatchedLengths(t *testing.T) {
	assert.Equal(t, 0.0, Dot([]float32{1, 0}, []float32{1}))
}

func TestCosineScore(t *testing.T) {
	a := Normalize([]float32{1, 0})
	diag := Normalize([]float32{1, 1})

	assert.InDelta(t, 1.0, CosineScore(a, a), 1e-6)
	assert.InDelta(t, 1/math.Sqrt2, CosineScore(a, diag), 1e-6)

	// Opposing vectors clamp to zero.
	assert.Equal(t, 0.0, CosineScore(a, []float32{-1, 0}))
}
