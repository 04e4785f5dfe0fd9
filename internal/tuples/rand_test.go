package tuples_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tuplegen/internal/tuples"
)

var _ tuples.Source = rand.New(rand.NewSource(1))

func TestLCG_KnownStream(t *testing.T) {
	l := tuples.NewLCG(42)
	assert.Equal(t, uint64(10481999410520546993), l.Next())
	assert.Equal(t, uint64(4159066171780167020), l.Next())
	assert.Equal(t, uint64(7615522811268512075), l.Next())

	f := tuples.NewLCG(42)
	assert.InDelta(t, 0.5682303266439076, f.Float64(), 1e-15)
	assert.InDelta(t, 0.2254634289477513, f.Float64(), 1e-15)
	assert.InDelta(t, 0.41283831882951183, f.Float64(), 1e-15)
}

func TestLCG_Bounds(t *testing.T) {
	l := tuples.NewLCG(7)
	for i := 0; i < 10000; i++ {
		f := l.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
		n := l.Intn(7)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 7)
	}
	assert.Equal(t, 0, l.Intn(0))
	assert.Equal(t, 0, l.Intn(-3))
}

func TestLCG_SameSeedSameStream(t *testing.T) {
	a, b := tuples.NewLCG(99), tuples.NewLCG(99)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}
