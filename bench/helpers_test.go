package bench

import (
	"errors"
	"math"
	"math/cmplx"
)

// naiveEngine is the O(N^2) textbook DFT.
type naiveEngine[T Complex] struct {
	n       int
	twiddle []complex128
}

func newNaive[T Complex](n int) (Engine[T], error) {
	tw := make([]complex128, n)
	for k := range tw {
		tw[k] = cmplx.Rect(1, -2*math.Pi*float64(k)/float64(n))
	}
	return &naiveEngine[T]{n: n, twiddle: tw}, nil
}

func (e *naiveEngine[T]) transform(dst, src []T, inverse bool) error {
	if len(dst) != e.n || len(src) != e.n {
		return errLen
	}

	for k := range e.n {
		var sum complex128
		for j := range e.n {
			w := e.twiddle[(j*k)%e.n]
			if inverse {
				w = cmplx.Conj(w)
			}
			sum += complex128(src[j]) * w
		}
		dst[k] = T(sum)
	}

	return nil
}

func (e *naiveEngine[T]) Forward(dst, src []T) error { return e.transform(dst, src, false) }
func (e *naiveEngine[T]) Inverse(dst, src []T) error { return e.transform(dst, src, true) }

var (
	errLen    = errors.New("test: length")
	errBroken = errors.New("test: broken engine")
)

// failingEngine fails on the given call number.
type failingEngine[T Complex] struct {
	failAt int
	calls  int
}

func (e *failingEngine[T]) step() error {
	e.calls++
	if e.calls == e.failAt {
		return errBroken
	}
	return nil
}

func (e *failingEngine[T]) Forward(dst, src []T) error {
	copy(dst, src)
	return e.step()
}

func (e *failingEngine[T]) Inverse(dst, src []T) error {
	copy(dst, src)
	return e.step()
}

// vandalEngine is correct except that it scribbles over its input after
// every forward transform.
type vandalEngine[T Complex] struct {
	Engine[T]
}

func (e vandalEngine[T]) Forward(dst, src []T) error {
	if err := e.Engine.Forward(dst, src); err != nil {
		return err
	}
	for i := range src {
		src[i] = T(complex(42, -42))
	}
	return nil
}

// probeEngine wraps an engine and records the checksum of the first forward input.
type probeEngine[T Complex] struct {
	Engine[T]
	first *uint64
	seen  bool
}

func (e *probeEngine[T]) Forward(dst, src []T) error {
	if !e.seen {
		*e.first = Checksum(src)
		e.seen = true
	}
	return e.Engine.Forward(dst, src)
}

func naiveFactory[T Complex](name string) Factory[T] {
	return Factory[T]{Name: name, New: newNaive[T]}
}
