package vector

import (
	"fmt"
	"math"
)

func dot(a, b []float32) float32 {
	var product float32
	for i := range a {
		product += a[i] * b[i]
	}
	return product
}

func magnitude(v []float32) float32 {
	var sumOfSquares float32
	for _, val := range v {
		sumOfSquares += val * val
	}
	return float32(math.Sqrt(float64(sumOfSquares)))
}

// Cosine computes the cosine similarity between two vectors. A zero-magnitude
// vector compares as 0 similarity to everything.
func Cosine(a, b []float32) (float32, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("vectors cannot be empty")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same dimension (%d != %d)", len(a), len(b))
	}

	magA := magnitude(a)
	magB := magnitude(b)
	if magA == 0 || magB == 0 {
		return 0, nil
	}

	return dot(a, b) / (magA * magB), nil
}
