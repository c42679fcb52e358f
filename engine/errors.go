package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine adapters.
var (
	// ErrInvalidSize is returned when an engine is requested for a size below one.
	ErrInvalidSize = errors.New("engine: invalid transform size")

	// ErrLengthMismatch is returned when a buffer does not have the engine's size.
	ErrLengthMismatch = errors.New("engine: buffer length mismatch")

	// ErrUnknownEngine is returned by Lookup for names that are not registered.
	ErrUnknownEngine = errors.New("engine: unknown engine")

	// ErrUnsupportedPrecision is returned by Lookup when an engine has no
	// implementation for the requested sample type.
	ErrUnsupportedPrecision = errors.New("engine: unsupported precision")
)

func checkLen(n, dst, src int) error {
	if dst != n || src != n {
		return fmt.Errorf("%w: want %d, got dst %d src %d", ErrLengthMismatch, n, dst, src)
	}

	return nil
}
