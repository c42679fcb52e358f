package bench

import (
	"math"
	"slices"

	"golang.org/x/perf/benchmath"
)

// timingConfidence is the confidence level of the reported timing interval.
const timingConfidence = 0.95

// Timing summarizes one or more microseconds-per-op samples.
type Timing struct {
	Center float64
	Lo     float64
	Hi     float64
}

// SummarizeTiming reduces timing samples to a center value and a
// distribution-free confidence interval. A single sample is its own interval.
func SummarizeTiming(samples []float64) Timing {
	switch len(samples) {
	case 0:
		return Timing{}
	case 1:
		return Timing{Center: samples[0], Lo: samples[0], Hi: samples[0]}
	}

	values := make([]float64, len(samples))
	copy(values, samples)

	sample := benchmath.NewSample(values, &benchmath.DefaultThresholds)
	summary := benchmath.AssumeNothing.Summary(sample, timingConfidence)

	// Small samples can yield an unbounded interval; keep it within the data.
	lo, hi := slices.Min(samples), slices.Max(samples)
	t := Timing{Center: summary.Center, Lo: summary.Lo, Hi: summary.Hi}
	if math.IsNaN(t.Lo) || t.Lo < lo {
		t.Lo = lo
	}
	if math.IsNaN(t.Hi) || t.Hi > hi {
		t.Hi = hi
	}

	return t
}
