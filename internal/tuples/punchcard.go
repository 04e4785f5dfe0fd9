package tuples

import "fmt"

// PunchcardOptions configures GeneratePunchcard.
type PunchcardOptions struct {
	// YStart, YStop and YStep define the y grid YStart, YStart+YStep, ... <= YStop.
	YStart int
	YStop  int
	YStep  int
	// ZLow and ZHigh bound the continuous z draw before truncation.
	ZLow  float64
	ZHigh float64
}

// DefaultPunchcardOptions returns a 100..600 y grid in steps of 50 and a
// 0.1..1000 z draw.
func DefaultPunchcardOptions() PunchcardOptions {
	return PunchcardOptions{YStart: 100, YStop: 600, YStep: 50, ZLow: 0.1, ZHigh: 1000}
}

// GeneratePunchcard draws n samples whose y lies on a fixed grid and whose z
// is a truncated uniform draw. Each sample draws y then z.
func GeneratePunchcard(src Source, n int, opt PunchcardOptions) ([]Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	ys, err := gridValues(opt.YStart, opt.YStop, opt.YStep, "y")
	if err != nil {
		return nil, err
	}
	if err := validateFloatRange(opt.ZLow, opt.ZHigh, "z"); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}
	out := make([]Sample, n)
	for x := range out {
		y := choice(src, ys)
		z := uniformTrunc(src, opt.ZLow, opt.ZHigh)
		out[x] = Sample{X: x, Y: y, Z: z}
	}
	return out, nil
}

// maxGridValues caps the number of values a grid may hold.
const maxGridValues = 1 << 20

// gridValues lists start, start+step, ... up to and including stop.
func gridValues(start, stop, step int, axis string) ([]int, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: %s step %d", ErrInvalidStep, axis, step)
	}
	if start > stop {
		return nil, fmt.Errorf("%w: %s grid [%d, %d]", ErrInvalidRange, axis, start, stop)
	}
	// Unsigned arithmetic keeps the span exact across the whole int range.
	count := (uint64(stop)-uint64(start))/uint64(step) + 1
	if count > maxGridValues {
		return nil, fmt.Errorf("%w: %s grid [%d, %d] step %d has %d values, max %d",
			ErrInvalidRange, axis, start, stop, step, count, maxGridValues)
	}
	vals := make([]int, count)
	for i := range vals {
		vals[i] = int(uint64(start) + uint64(i)*uint64(step))
	}
	return vals, nil
}

func validateFloatRange(low, high float64, axis string) error {
	if low > high {
		return fmt.Errorf("%w: %s range [%g, %g)", ErrInvalidRange, axis, low, high)
	}
	return nil
}
