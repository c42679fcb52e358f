package engine

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"

	"fft-contest/bench"
)

// GoDSPName is the registry name of the go-dsp adapter.
const GoDSPName = "go-dsp"

// GoDSP wraps go-dsp's allocating FFT functions. go-dsp keeps its twiddle
// factors in a package-level cache, so construction only fixes the size.
type GoDSP struct {
	n     int
	scale complex128
}

// NewGoDSP returns a go-dsp adapter of size n. The go-dsp worker pool is
// limited to one worker so all engines run single-threaded.
func NewGoDSP(n int) (bench.Engine[complex128], error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	fft.SetWorkerPoolSize(1)

	return &GoDSP{n: n, scale: complex(float64(n), 0)}, nil
}

// Forward computes the unnormalized forward DFT of src into dst.
func (g *GoDSP) Forward(dst, src []complex128) error {
	if err := checkLen(g.n, len(dst), len(src)); err != nil {
		return err
	}

	copy(dst, fft.FFT(src))

	return nil
}

// Inverse computes the unnormalized inverse DFT of src into dst. go-dsp
// divides by N, which is undone here.
func (g *GoDSP) Inverse(dst, src []complex128) error {
	if err := checkLen(g.n, len(dst), len(src)); err != nil {
		return err
	}

	out := fft.IFFT(src)
	for i, v := range out {
		dst[i] = v * g.scale
	}

	return nil
}
