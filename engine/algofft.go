// Package engine adapts third-party FFT libraries to bench.Engine.
package engine

import (
	"fmt"
	"log/slog"

	algofft "github.com/MeKo-Christian/algo-fft"

	"fft-contest/bench"
)

// AlgoFFTName is the registry name of the algo-fft adapter.
const AlgoFFTName = "algo-fft"

// algoFFTDefectiveSizes are the sizes at which algo-fft v0.6.6 plans compute
// a wrong forward transform. They are still measured; construction logs a
// warning.
var algoFFTDefectiveSizes = map[int]bool{
	40: true, 80: true, 160: true, 640: true, 1280: true, 1920: true,
}

// AlgoFFT wraps an algo-fft plan.
type AlgoFFT[T bench.Complex] struct {
	n       int
	scale   T // algo-fft scales the inverse by 1/N; multiply it back
	forward func(dst, src []T) error
	inverse func(dst, src []T) error
}

// NewAlgoFFT creates an algo-fft plan of size n for T. A size-1 transform is
// the identity and runs without a plan.
func NewAlgoFFT[T bench.Complex](n int) (bench.Engine[T], error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	e := &AlgoFFT[T]{
		n:     n,
		scale: T(complex(float64(n), 0)),
	}

	if algoFFTDefectiveSizes[n] {
		slog.Warn("algo-fft computes an incorrect transform at this size", "size", n)
	}

	if n == 1 {
		identity := func(dst, src []T) error {
			copy(dst, src)
			return nil
		}
		e.forward, e.inverse = identity, identity

		return e, nil
	}

	var zero T
	switch any(zero).(type) {
	case complex64:
		plan, err := algofft.NewPlan32(n)
		if err != nil {
			return nil, fmt.Errorf("failed to create FFT plan for size %d: %w", n, err)
		}

		e.forward = func(dst, src []T) error {
			return plan.Forward(any(dst).([]complex64), any(src).([]complex64))
		}
		e.inverse = func(dst, src []T) error {
			return plan.Inverse(any(dst).([]complex64), any(src).([]complex64))
		}
	case complex128:
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("failed to create FFT plan for size %d: %w", n, err)
		}

		e.forward = func(dst, src []T) error {
			return plan.Forward(any(dst).([]complex128), any(src).([]complex128))
		}
		e.inverse = func(dst, src []T) error {
			return plan.Inverse(any(dst).([]complex128), any(src).([]complex128))
		}
	}

	return e, nil
}

// Forward computes the unnormalized forward DFT of src into dst.
func (e *AlgoFFT[T]) Forward(dst, src []T) error {
	if err := checkLen(e.n, len(dst), len(src)); err != nil {
		return err
	}

	return e.forward(dst, src)
}

// Inverse computes the unnormalized inverse DFT of src into dst.
func (e *AlgoFFT[T]) Inverse(dst, src []T) error {
	if err := checkLen(e.n, len(dst), len(src)); err != nil {
		return err
	}

	if err := e.inverse(dst, src); err != nil {
		return err
	}

	if e.n > 1 {
		for i := range dst {
			dst[i] *= e.scale
		}
	}

	return nil
}
