package tuples

import "errors"

var (
	// ErrInvalidRange indicates a range whose low bound exceeds its high bound.
	ErrInvalidRange = errors.New("tuples: range low must not exceed high")
	// ErrInvalidCount indicates a negative number of samples.
	ErrInvalidCount = errors.New("tuples: sample count must be non-negative")
	// ErrInvalidStep indicates a grid step that is zero or negative.
	ErrInvalidStep = errors.New("tuples: step must be positive")
	// ErrEmptyValues indicates an empty list of candidate values.
	ErrEmptyValues = errors.New("tuples: value list must not be empty")
	// ErrNilSource indicates a missing random source.
	ErrNilSource = errors.New("tuples: random source is nil")
)
