package tuples

// GenerateNested draws n samples whose y is picked uniformly from yValues and
// whose z is a truncated uniform draw over [zLow, zHigh).
func GenerateNested(src Source, n int, yValues []int, zLow, zHigh float64) ([]Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	if len(yValues) == 0 {
		return nil, ErrEmptyValues
	}
	if err := validateFloatRange(zLow, zHigh, "z"); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}
	ys := append([]int(nil), yValues...)
	out := make([]Sample, n)
	for x := range out {
		y := choice(src, ys)
		z := uniformTrunc(src, zLow, zHigh)
		out[x] = Sample{X: x, Y: y, Z: z}
	}
	return out, nil
}
