package tuples

import "fmt"

// Range is a half-open integer interval [Low, High) used for uniform draws.
// Low == High is allowed and always yields Low.
type Range struct {
	Low  int
	High int
}

// Validate reports ErrInvalidRange when Low > High. axis names the range in
// the error message.
func (r Range) Validate(axis string) error {
	if r.Low > r.High {
		return fmt.Errorf("%w: %s range [%d, %d)", ErrInvalidRange, axis, r.Low, r.High)
	}
	return nil
}

// Sample is one raw generated triple. X is the 0-based draw index.
type Sample struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// NormalizedSample is a Sample whose z value was replaced by its category id.
type NormalizedSample struct {
	X   int `json:"x"`
	Y   int `json:"y"`
	ZID int `json:"zid"`
}

// Category maps a dense identifier back to the raw z value it stands for.
type Category struct {
	ZID int `json:"zid"`
	Z   int `json:"z"`
}

func validateCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	return nil
}
