package engine

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"fft-contest/bench"
)

// GonumName is the registry name of the gonum adapter.
const GonumName = "gonum"

// Gonum wraps gonum's FFTPACK-based complex transform.
type Gonum struct {
	n   int
	fft *fourier.CmplxFFT
}

// NewGonum builds gonum's work tables for size n.
func NewGonum(n int) (bench.Engine[complex128], error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	return &Gonum{n: n, fft: fourier.NewCmplxFFT(n)}, nil
}

// Forward computes the unnormalized forward DFT of src into dst.
func (g *Gonum) Forward(dst, src []complex128) error {
	if err := checkLen(g.n, len(dst), len(src)); err != nil {
		return err
	}

	g.fft.Coefficients(dst, src)

	return nil
}

// Inverse computes the unnormalized inverse DFT of src into dst.
func (g *Gonum) Inverse(dst, src []complex128) error {
	if err := checkLen(g.n, len(dst), len(src)); err != nil {
		return err
	}

	g.fft.Sequence(dst, src)

	return nil
}
