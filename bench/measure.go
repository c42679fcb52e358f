package bench

import (
	"fmt"
	"math"
	"time"
)

// DefaultBudget is the nominal amount of work per size, in N·(log2 N + 1)
// units, that IterationCount spreads over the transform applications.
const DefaultBudget = 1e8

// IterationCount returns the number of transform applications for size n:
// budget / n / (log2 n + 1), rounded down to an even number. Sizes below one
// get zero iterations.
func IterationCount(n int, budget float64) int {
	if n <= 0 || budget <= 0 {
		return 0
	}

	k := int(budget / float64(n) / (math.Log2(float64(n)) + 1))

	return k &^ 1
}

// RoundTrip runs one forward and one inverse transform of original, each
// followed by 1/sqrt(N) normalization, and returns the largest pointwise
// distance between original and reconstructed.
func RoundTrip[T Complex](e Engine[T], original, working, reconstructed []T) (float64, error) {
	n := len(original)
	if len(working) != n || len(reconstructed) != n {
		return 0, fmt.Errorf("%w: original %d, working %d, reconstructed %d",
			ErrBufferLength, n, len(working), len(reconstructed))
	}

	factor := normFactor[T](n)

	if err := e.Forward(working, original); err != nil {
		return 0, fmt.Errorf("forward: %w", err)
	}
	normalize(working, factor)

	if err := e.Inverse(reconstructed, working); err != nil {
		return 0, fmt.Errorf("inverse: %w", err)
	}
	normalize(reconstructed, factor)

	return MaxError(original, reconstructed), nil
}

// Chain applies iterations/2 normalized forward+inverse cycles, each cycle
// starting from the previous cycle's output in current. working is scratch.
func Chain[T Complex](e Engine[T], current, working []T, iterations int) error {
	if len(working) != len(current) {
		return fmt.Errorf("%w: current %d, working %d", ErrBufferLength, len(current), len(working))
	}

	factor := normFactor[T](len(current))

	for i := 0; i < iterations; i += 2 {
		if err := e.Forward(working, current); err != nil {
			return fmt.Errorf("forward (iteration %d): %w", i, err)
		}
		normalize(working, factor)

		if err := e.Inverse(current, working); err != nil {
			return fmt.Errorf("inverse (iteration %d): %w", i+1, err)
		}
		normalize(current, factor)
	}

	return nil
}

// TimeChain runs Chain under a wall clock and returns the average time of a
// single transform application in microseconds.
func TimeChain[T Complex](e Engine[T], current, working []T, iterations int) (float64, error) {
	start := time.Now()

	if err := Chain(e, current, working, iterations); err != nil {
		return 0, err
	}

	elapsed := time.Since(start)
	if iterations == 0 {
		return 0, nil
	}

	return float64(elapsed.Nanoseconds()) / 1e3 / float64(iterations), nil
}
