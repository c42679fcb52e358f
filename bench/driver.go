package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Config holds the tunable knobs of a benchmark run.
type Config struct {
	// Budget sets the iteration count per size, see IterationCount.
	Budget float64
	// Repeats is the number of timed chains per engine and size.
	Repeats int
}

// DefaultConfig returns the configuration of a standard sweep.
func DefaultConfig() Config {
	return Config{
		Budget:  DefaultBudget,
		Repeats: 1,
	}
}

// Driver measures an ordered list of engines at one size at a time.
type Driver[T Complex] struct {
	factories []Factory[T]
	gen       *Generator
	cfg       Config
	logger    *slog.Logger

	mu        sync.RWMutex
	listeners []Listener
}

// NewDriver creates a driver for the given engines. Engines are measured and
// reported in the order given.
func NewDriver[T Complex](factories []Factory[T], gen *Generator, cfg Config, logger *slog.Logger) (*Driver[T], error) {
	if len(factories) == 0 {
		return nil, ErrNoEngines
	}

	if cfg.Repeats < 1 {
		cfg.Repeats = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Driver[T]{
		factories: factories,
		gen:       gen,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// AddListener registers l to receive every record produced by Run.
func (d *Driver[T]) AddListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// EngineNames returns the engine names in measurement order.
func (d *Driver[T]) EngineNames() []string {
	names := make([]string, len(d.factories))
	for i, f := range d.factories {
		names[i] = f.Name
	}

	return names
}

// Sweep runs every size in order and stops at the first failure. The context
// is only checked between sizes.
func (d *Driver[T]) Sweep(ctx context.Context, sizes []int) error {
	for _, n := range sizes {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := d.Run(ctx, n); err != nil {
			return err
		}
	}

	return nil
}

// Run measures every engine at size n, notifies the listeners and returns
// the record.
func (d *Driver[T]) Run(ctx context.Context, n int) (Record, error) {
	k := IterationCount(n, d.cfg.Budget)
	rec := Record{
		Size:       n,
		Iterations: k,
		Results:    make([]Result, 0, len(d.factories)),
	}

	if n <= 0 {
		for _, f := range d.factories {
			rec.Results = append(rec.Results, Result{Engine: f.Name})
		}
		d.notify(rec)

		return rec, nil
	}

	d.logger.DebugContext(ctx, "measuring size", slog.Int("size", n), slog.Int("iterations", k))

	stimulus := make([]T, n)
	Fill(d.gen, stimulus)
	sum := Checksum(stimulus)

	original := make([]T, n)
	working := make([]T, n)
	reconstructed := make([]T, n)

	for _, f := range d.factories {
		if Checksum(stimulus) != sum {
			return rec, fmt.Errorf("size %d, before engine %s: %w", n, f.Name, ErrStimulusModified)
		}
		copy(original, stimulus)

		res, err := d.measure(ctx, f, k, original, working, reconstructed)
		if err != nil {
			return rec, fmt.Errorf("size %d, engine %s: %w", n, f.Name, err)
		}

		rec.Results = append(rec.Results, res)
	}

	d.notify(rec)

	return rec, nil
}

func (d *Driver[T]) measure(ctx context.Context, f Factory[T], k int, original, working, reconstructed []T) (Result, error) {
	n := len(original)

	eng, err := f.New(n)
	if err != nil {
		return Result{}, fmt.Errorf("construct: %w", err)
	}

	if c, ok := eng.(io.Closer); ok {
		defer c.Close()
	}

	d.logger.DebugContext(ctx, "engine ready", slog.String("engine", f.Name), slog.Int("size", n))

	res := Result{Engine: f.Name}

	res.RoundTripError, err = RoundTrip(eng, original, working, reconstructed)
	if err != nil {
		return Result{}, fmt.Errorf("round trip: %w", err)
	}

	samples := make([]float64, 0, d.cfg.Repeats)
	for r := range d.cfg.Repeats {
		us, err := TimeChain(eng, reconstructed, working, k)
		if err != nil {
			return Result{}, fmt.Errorf("chain: %w", err)
		}

		if r == 0 {
			res.DriftError = MaxError(original, reconstructed)
		}

		samples = append(samples, us)
	}

	timing := SummarizeTiming(samples)
	res.MicrosPerOp = timing.Center
	res.MicrosLo = timing.Lo
	res.MicrosHi = timing.Hi

	return res, nil
}

func (d *Driver[T]) notify(rec Record) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, l := range d.listeners {
		results := make([]Result, len(rec.Results))
		copy(results, rec.Results)
		l.OnRecord(Record{Size: rec.Size, Iterations: rec.Iterations, Results: results})
	}
}
