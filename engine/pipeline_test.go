package engine

import (
	"context"
	"fmt"
	"testing"

	"fft-contest/bench"
)

func TestPipelineWithRealEngines(t *testing.T) {
	factories, err := Lookup[complex128](Names[complex128]())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	d, err := bench.NewDriver(factories, bench.NewGenerator(1), bench.Config{Budget: 1e6, Repeats: 1}, nil)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	rec, err := d.Run(context.Background(), 1024)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rec.Iterations != bench.IterationCount(1024, 1e6) {
		t.Errorf("iterations = %d", rec.Iterations)
	}

	for _, r := range rec.Results {
		if r.RoundTripError >= 1e-9 {
			t.Errorf("%s: round-trip error %g", r.Engine, r.RoundTripError)
		}
		if r.DriftError >= 1e-9 {
			t.Errorf("%s: drift error %g", r.Engine, r.DriftError)
		}
		if r.MicrosPerOp <= 0 {
			t.Errorf("%s: micros per op %g", r.Engine, r.MicrosPerOp)
		}
	}
}

func TestDriftGrowsSlowly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long drift run in short mode")
	}

	const n = 64

	for _, c := range complex128Engines {
		t.Run(c.name, func(t *testing.T) {
			e, _ := c.new(n)

			original := make([]complex128, n)
			bench.Fill(bench.NewGenerator(3), original)
			working := make([]complex128, n)
			current := make([]complex128, n)

			rt, err := bench.RoundTrip(e, original, working, current)
			if err != nil {
				t.Fatalf("RoundTrip: %v", err)
			}

			if err := bench.Chain(e, current, working, 20000); err != nil {
				t.Fatalf("Chain: %v", err)
			}

			drift := bench.MaxError(original, current)
			if bound := max(1e4*rt, 1e-9); drift > bound {
				t.Errorf("drift %g after 10000 cycles exceeds %g", drift, bound)
			}
		})
	}
}

// BenchmarkEngines benchmarks a forward plus inverse transform per engine
// and size.
func BenchmarkEngines(b *testing.B) {
	sizes := []int{64, 480, 1024, 4096, 65536}

	for _, c := range complex128Engines {
		for _, n := range sizes {
			b.Run(fmt.Sprintf("%s/%d", c.name, n), func(b *testing.B) {
				benchmarkRoundtrip(b, c.new, n)
			})
		}
	}
}

// BenchmarkAlgoFFTComplex64 benchmarks the single-precision plan.
func BenchmarkAlgoFFTComplex64(b *testing.B) {
	for _, n := range []int{64, 1024, 65536} {
		b.Run(fmt.Sprintf("Roundtrip_%d", n), func(b *testing.B) {
			benchmarkRoundtrip(b, NewAlgoFFT[complex64], n)
		})
	}
}

func benchmarkRoundtrip[T bench.Complex](b *testing.B, newEngine func(int) (bench.Engine[T], error), n int) {
	b.Helper()

	e, err := newEngine(n)
	if err != nil {
		b.Fatalf("construct: %v", err)
	}

	src := make([]T, n)
	bench.Fill(bench.NewGenerator(1), src)
	work := make([]T, n)
	out := make([]T, n)

	var zero T
	b.SetBytes(int64(n) * int64(2*sizeOf(zero)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Forward(work, src)
		_ = e.Inverse(out, work)
	}
}

func sizeOf(v any) int {
	if _, ok := v.(complex64); ok {
		return 8
	}
	return 16
}
