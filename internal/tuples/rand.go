package tuples

// Source is the random source consumed by every generator.
// *math/rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// LCG is a 64-bit linear congruential generator using Knuth MMIX parameters.
// It is the pinned algorithm behind reproducible runs: the same seed yields
// the same stream on every platform and Go release.
//
//	Multiplier: 6364136223846793005
//	Increment:  1442695040888963407
//	Modulus:    2^64 (implicit via uint64 overflow)
type LCG struct {
	state uint64
}

// NewLCG returns an LCG whose state starts at seed.
func NewLCG(seed uint64) *LCG {
	return &LCG{state: seed}
}

// Next advances the state and returns it.
func (l *LCG) Next() uint64 {
	l.state = l.state*6364136223846793005 + 1442695040888963407
	return l.state
}

// Float64 returns a value in [0.0, 1.0) built from the top 53 bits.
func (l *LCG) Float64() float64 {
	return float64(l.Next()>>11) / (1 << 53)
}

// Intn returns a value in [0, n). Returns 0 if n <= 0.
// The low bits of an LCG cycle quickly, so only the top 53 bits are used.
func (l *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int((l.Next() >> 11) % uint64(n))
}

// uniformTrunc draws a continuous uniform value in [low, high) and truncates
// it toward zero.
func uniformTrunc(src Source, low, high float64) int {
	return int(low + (high-low)*src.Float64())
}

// choice returns a uniformly chosen element of values. values must be non-empty.
func choice(src Source, values []int) int {
	return values[src.Intn(len(values))]
}

// shuffle permutes values in place with Fisher-Yates.
func shuffle(src Source, values []int) {
	for i := len(values) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
