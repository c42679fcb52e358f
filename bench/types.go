// Package bench measures complex DFT engines: round-trip error, error
// drift under chained forward/inverse application, and time per transform.
package bench

import (
	"errors"
	"math"
	"math/cmplx"
)

// Complex is the set of complex sample types the harness runs over.
type Complex interface {
	complex64 | complex128
}

// Engine computes unnormalized forward and inverse DFTs of a fixed size.
// dst and src must both have the length the engine was built for and must
// not alias.
type Engine[T Complex] interface {
	Forward(dst, src []T) error
	Inverse(dst, src []T) error
}

// Factory builds an Engine for a given transform size.
type Factory[T Complex] struct {
	Name string
	New  func(n int) (Engine[T], error)
}

// Result holds one engine's measurements at one size.
type Result struct {
	Engine         string  `json:"engine"`
	RoundTripError float64 `json:"roundTripError"`
	DriftError     float64 `json:"driftError"`
	MicrosPerOp    float64 `json:"microsPerOp"`
	MicrosLo       float64 `json:"microsLo"`
	MicrosHi       float64 `json:"microsHi"`
}

// Record is the comparative output for one transform size.
type Record struct {
	Size       int      `json:"size"`
	Iterations int      `json:"iterations"`
	Results    []Result `json:"results"`
}

// Listener receives every finished Record.
type Listener interface {
	OnRecord(rec Record)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(rec Record)

// OnRecord calls f(rec).
func (f ListenerFunc) OnRecord(rec Record) { f(rec) }

var (
	// ErrStimulusModified is returned when the pristine stimulus changed
	// between two engine measurements of the same size.
	ErrStimulusModified = errors.New("bench: stimulus modified during measurement")

	// ErrNoEngines is returned by NewDriver when no factory is given.
	ErrNoEngines = errors.New("bench: no engines registered")

	// ErrBufferLength is returned when the buffers of a measurement differ in length.
	ErrBufferLength = errors.New("bench: buffer length mismatch")
)

// MaxError returns max |a[i] - b[i]|.
func MaxError[T Complex](a, b []T) float64 {
	maxErr := 0.0
	for i := range a {
		if d := cmplx.Abs(complex128(a[i] - b[i])); d > maxErr {
			maxErr = d
		}
	}

	return maxErr
}

// normalize multiplies every sample of buf by factor.
func normalize[T Complex](buf []T, factor T) {
	for i := range buf {
		buf[i] *= factor
	}
}

// normFactor returns 1/sqrt(n) as a sample value.
func normFactor[T Complex](n int) T {
	if n <= 0 {
		return T(complex(1, 0))
	}

	return T(complex(1/math.Sqrt(float64(n)), 0))
}
