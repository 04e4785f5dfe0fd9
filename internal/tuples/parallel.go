package tuples

// ParallelOptions configures GenerateParallelCoord.
type ParallelOptions struct {
	// Step is the spacing of the y and z grids.
	Step int
	// YRepeat and ZRepeat are how many copies of each grid value seed the pools.
	YRepeat int
	ZRepeat int
}

// DefaultParallelOptions returns a step of 50 with 4 copies of each y value
// and 6 copies of each z value.
func DefaultParallelOptions() ParallelOptions {
	return ParallelOptions{Step: 50, YRepeat: 4, ZRepeat: 6}
}

// GenerateParallelCoord draws n samples for parallel-coordinate demos.
//
// The y and z ranges are inclusive grids here. Each pool starts with every
// grid value repeated, so each value appears at least a few times once n
// covers the pool. A pool shorter than n is topped up with uniform choices
// from the grid. Both pools are shuffled and sample x takes pool[x].
func GenerateParallelCoord(src Source, n int, yRange, zRange Range, opt ParallelOptions) ([]Sample, error) {
	if err := validateCount(n); err != nil {
		return nil, err
	}
	yVals, err := gridValues(yRange.Low, yRange.High, opt.Step, "y")
	if err != nil {
		return nil, err
	}
	zVals, err := gridValues(zRange.Low, zRange.High, opt.Step, "z")
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}

	yPool := repeatPool(yVals, opt.YRepeat)
	zPool := repeatPool(zVals, opt.ZRepeat)
	for len(yPool) < n {
		yPool = append(yPool, choice(src, yVals))
	}
	for len(zPool) < n {
		zPool = append(zPool, choice(src, zVals))
	}
	shuffle(src, yPool)
	shuffle(src, zPool)

	out := make([]Sample, n)
	for x := range out {
		out[x] = Sample{X: x, Y: yPool[x], Z: zPool[x]}
	}
	return out, nil
}

func repeatPool(vals []int, times int) []int {
	if times < 0 {
		times = 0
	}
	pool := make([]int, 0, len(vals)*times)
	for _, v := range vals {
		for i := 0; i < times; i++ {
			pool = append(pool, v)
		}
	}
	return pool
}
