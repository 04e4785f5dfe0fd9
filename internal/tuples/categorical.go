package tuples

// GenerateCategorical draws numSamples (x, y, z) samples and normalizes z into
// dense category ids assigned in order of first appearance.
//
// All y values are drawn first, then all z values, each as a truncated
// continuous uniform draw over its range. x is the draw index.
//
// The returned samples keep draw order. The category table lists each distinct
// z once, ordered by zid, and every zid in the table is referenced by at least
// one sample.
func GenerateCategorical(src Source, numSamples int, yRange, zRange Range) ([]NormalizedSample, []Category, error) {
	if err := validateCount(numSamples); err != nil {
		return nil, nil, err
	}
	if err := yRange.Validate("y"); err != nil {
		return nil, nil, err
	}
	if err := zRange.Validate("z"); err != nil {
		return nil, nil, err
	}
	if src == nil {
		return nil, nil, ErrNilSource
	}

	ys := drawTrunc(src, numSamples, float64(yRange.Low), float64(yRange.High))
	zs := drawTrunc(src, numSamples, float64(zRange.Low), float64(zRange.High))

	samples := make([]Sample, numSamples)
	for x := range samples {
		samples[x] = Sample{X: x, Y: ys[x], Z: zs[x]}
	}
	normalized, table := Normalize(samples)
	return normalized, table, nil
}

// Normalize replaces each sample's z with a dense id. Ids start at 0 and are
// handed out in the order each z value is first seen in samples.
func Normalize(samples []Sample) ([]NormalizedSample, []Category) {
	table := make([]Category, 0)
	zids := make(map[int]int)
	normalized := make([]NormalizedSample, len(samples))
	for i, s := range samples {
		zid, ok := zids[s.Z]
		if !ok {
			zid = len(table)
			zids[s.Z] = zid
			table = append(table, Category{ZID: zid, Z: s.Z})
		}
		normalized[i] = NormalizedSample{X: s.X, Y: s.Y, ZID: zid}
	}
	return normalized, table
}

func drawTrunc(src Source, n int, low, high float64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = uniformTrunc(src, low, high)
	}
	return out
}
