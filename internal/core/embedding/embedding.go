// Package embedding holds the vector math behind face verification:
// normalization, cosine similarity against a unit-norm centroid and the threshold decision
package embedding

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is added to the norm before dividing so a zero vector never divides by zero
const Epsilon = 1e-12

// DefaultThreshold is the minimum similarity accepted as the authorized identity
const DefaultThreshold = 0.45

// ErrEmpty is returned when no samples are supplied
var ErrEmpty = errors.New("embedding: no samples")

// Norm returns the euclidean length of v
func Norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// Normalize returns v / (|v| + Epsilon) as a new slice; v is never mutated
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	n := Norm(v)
	if n == 0 {
		copy(out, v)
		return out
	}
	d := n + Epsilon
	for i, x := range v {
		out[i] = x / d
	}
	return out
}

// Dot returns the dot product of a and b, or NaN when their lengths differ
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// Similarity normalizes live and returns its dot product with the unit-norm centroid.
// Mismatched lengths yield NaN, which Decide never authorizes
func Similarity(live, centroid []float64) float64 {
	return Dot(Normalize(live), centroid)
}

// Decide reports whether sim clears threshold
func Decide(sim, threshold float64) bool { return sim >= threshold }

// Centroid normalizes each sample, averages them and re-normalizes the mean
func Centroid(samples [][]float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	dim := len(samples[0])
	if dim == 0 {
		return nil, errors.New("embedding: zero-length sample")
	}
	sum := make([]float64, dim)
	for i, s := range samples {
		if len(s) != dim {
			return nil, fmt.Errorf("embedding: sample %d has dim %d, want %d", i, len(s), dim)
		}
		for j, x := range Normalize(s) {
			sum[j] += x
		}
	}
	k := float64(len(samples))
	for j := range sum {
		sum[j] /= k
	}
	return Normalize(sum), nil
}
