package engine

import (
	"fmt"

	"fft-contest/bench"
)

type entry struct {
	name string
	c64  func(n int) (bench.Engine[complex64], error)
	c128 func(n int) (bench.Engine[complex128], error)
}

// registry lists the engines in default measurement order.
var registry = []entry{
	{name: AlgoFFTName, c64: NewAlgoFFT[complex64], c128: NewAlgoFFT[complex128]},
	{name: GonumName, c128: NewGonum},
	{name: GoDSPName, c128: NewGoDSP},
}

func (e entry) constructor(zero any) any {
	switch zero.(type) {
	case complex64:
		if e.c64 != nil {
			return e.c64
		}
	case complex128:
		if e.c128 != nil {
			return e.c128
		}
	}

	return nil
}

// Names returns the names of all engines available for T, in default order.
func Names[T bench.Complex]() []string {
	var zero T

	names := make([]string, 0, len(registry))
	for _, e := range registry {
		if e.constructor(zero) != nil {
			names = append(names, e.name)
		}
	}

	return names
}

// Lookup resolves engine names to factories, keeping the given order.
func Lookup[T bench.Complex](names []string) ([]bench.Factory[T], error) {
	var zero T

	factories := make([]bench.Factory[T], 0, len(names))
	for _, name := range names {
		e, ok := find(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
		}

		newEngine, ok := e.constructor(zero).(func(int) (bench.Engine[T], error))
		if !ok {
			return nil, fmt.Errorf("%w: %s has no %T implementation", ErrUnsupportedPrecision, name, zero)
		}

		factories = append(factories, bench.Factory[T]{Name: name, New: newEngine})
	}

	return factories, nil
}

func find(name string) (entry, bool) {
	for _, e := range registry {
		if e.name == name {
			return e, true
		}
	}

	return entry{}, false
}
