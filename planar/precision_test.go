package planar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecisionModel(t *testing.T) {
	floating := FloatingPrecision()
	assert.True(t, floating.IsFloating())
	c := Coordinate{1.23456789, -9.87654321}
	assert.Equal(t, c, floating.MakePrecise(c))

	fixed := FixedPrecision(100)
	assert.False(t, fixed.IsFloating())
	assert.InDelta(t, 0.01, fixed.GridSize(), 1e-15)
	p := fixed.MakePrecise(c)
	assert.InDelta(t, 1.23, p.X, 1e-12)
	assert.InDelta(t, -9.88, p.Y, 1e-12)

	// Halves round up on both sides of zero
	assert.Equal(t, 3.0, FixedPrecision(1).MakePreciseValue(2.5))
	assert.Equal(t, -2.0, FixedPrecision(1).MakePreciseValue(-2.5))
}

func TestPrecisionModel_Idempotent(t *testing.T) {
	fixed := FixedPrecision(1e3)
	for _, v := range []float64{0.0005, 123.4567, -0.3333333, 1e6 + 0.0004} {
		once := fixed.MakePreciseValue(v)
		assert.Equal(t, once, fixed.MakePreciseValue(once))
	}
}
