package distmat

import (
	"errors"
	"fmt"

	"github.com/hupe1980/distmat/internal/resource"
)

var (
	// ErrInvalidArgument is returned for negative or mismatched dimensions,
	// undersized buffers, and outputs that overlap an input. Every shape
	// failure satisfies errors.Is(err, ErrInvalidArgument).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMemoryLimitExceeded is returned when allocating an output would
	// exceed the configured ResourceController limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ShapeError describes a dimension or buffer size that failed validation.
//
// It unwraps to ErrInvalidArgument.
type ShapeError struct {
	// Op is the operation that rejected the input (e.g. "cityblock").
	Op string
	// Field names the offending value (e.g. "numRows", "len(out)", "b.Cols").
	Field string
	Got   int
	Want  int
	// Exact is true when Got had to equal Want rather than reach it.
	Exact bool
}

func (e *ShapeError) Error() string {
	switch {
	case e.Exact:
		return fmt.Sprintf("%s: %v: %s is %d, want %d", e.Op, ErrInvalidArgument, e.Field, e.Got, e.Want)
	case e.Got < 0 && e.Want == 0:
		return fmt.Sprintf("%s: %v: %s is negative (%d)", e.Op, ErrInvalidArgument, e.Field, e.Got)
	default:
		return fmt.Sprintf("%s: %v: %s is %d, want at least %d", e.Op, ErrInvalidArgument, e.Field, e.Got, e.Want)
	}
}

func (e *ShapeError) Unwrap() error { return ErrInvalidArgument }

func errAliased(op, input string) error {
	return fmt.Errorf("%s: %w: output overlaps %s", op, ErrInvalidArgument, input)
}

func errOverflow(op, field string) error {
	return fmt.Errorf("%s: %w: %s overflows int", op, ErrInvalidArgument, field)
}
