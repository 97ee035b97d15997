package vectors

import (
	"fmt"
	"math"
)

// Dot returns the sum of element-wise products of a and b. The vectors must
// have the same length.
func Dot(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: got %d and %d", ErrDimensionMismatch, len(a), len(b))
	}

	sum := float64(0)
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum, nil
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v Vector) float64 {
	sum := float64(0)
	for _, x := range v {
		sum += x * x
	}

	return math.Sqrt(sum)
}

// EuclideanDistance returns the straight-line distance between a and b.
func EuclideanDistance(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: got %d and %d", ErrDimensionMismatch, len(a), len(b))
	}

	sum := float64(0)
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum), nil
}

// CosineSimilarity returns dot(a, b) / (|a| * |b|), in [-1, 1]. If either
// vector has magnitude zero the similarity is 0 by definition, not an error:
// there is no direction to compare against.
func CosineSimilarity(a, b Vector) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}

	return combineCosine(dot, Magnitude(a), Magnitude(b)), nil
}

// combineCosine folds the three independently computed parts into the final
// score. Float noise can push the ratio a hair outside [-1, 1], so clamp.
func combineCosine(dot, magA, magB float64) float64 {
	if magA == 0 || magB == 0 {
		return 0
	}

	cos := dot / (magA * magB)
	if cos > 1 {
		return 1
	}
	if cos < -1 {
		return -1
	}

	return cos
}
