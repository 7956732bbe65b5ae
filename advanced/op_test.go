package advanced

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/osuushi/buffer/planar"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func buffer(t *testing.T, g geom.T, distance float64, modify func(*Params)) geom.T {
	t.Helper()
	params := DefaultParams()
	if modify != nil {
		modify(&params)
	}
	op, err := NewOp(params)
	require.NoError(t, err)
	result, err := op.Buffer(context.Background(), g, distance)
	require.NoError(t, err)
	AssertWellFormed(t, result)
	return result
}

func point(x, y float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{x, y})
}

func TestBuffer_Point(t *testing.T) {
	result := buffer(t, point(0, 0), 500, nil)
	polygons := planar.Polygons(result)
	require.Len(t, polygons, 1)
	assert.Empty(t, polygons[0].Holes)

	// The circle is a 32-gon inscribed in the true circle
	area := Area(result)
	assert.InDelta(t, 16*500*500*math.Sin(math.Pi/16), area, 1e-3)
	assert.InEpsilon(t, math.Pi*500*500, area, 0.01)

	centroid := Centroid(polygons[0].Shell)
	assert.InDelta(t, 0, centroid.X, 1e-9)
	assert.InDelta(t, 0, centroid.Y, 1e-9)
}

func TestBuffer_FlatCapLine(t *testing.T) {
	line := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 100, 0})
	result := buffer(t, line, 10, func(p *Params) { p.EndCapStyle = CapFlat })
	polygons := planar.Polygons(result)
	require.Len(t, polygons, 1)
	shell := polygons[0].Shell
	require.Len(t, shell, 5)
	assert.ElementsMatch(t, []planar.Coordinate{{X: 0, Y: 10}, {X: 100, Y: 10}, {X: 100, Y: -10}, {X: 0, Y: -10}}, shell[:4])
	assert.Equal(t, 2000.0, Area(result))
}

func TestBuffer_InwardSquare(t *testing.T) {
	square := geom.NewPolygonFlat(geom.XY, Square(0, 0, 10), []int{10})
	result := buffer(t, square, -2, nil)
	polygons := planar.Polygons(result)
	require.Len(t, polygons, 1)
	assert.InDelta(t, 36, Area(result), 1e-9)
	env := planar.Envelope(polygons[0].Shell)
	assert.InDelta(t, 2, env.X.Lo, 1e-9)
	assert.InDelta(t, 8, env.X.Hi, 1e-9)
	assert.InDelta(t, 2, env.Y.Lo, 1e-9)
	assert.InDelta(t, 8, env.Y.Hi, 1e-9)
}

func TestBuffer_Needle(t *testing.T) {
	needle := LoadFixture("needle")
	for _, distance := range []float64{0.5, 5, -0.5, -5} {
		result := buffer(t, needle, distance, nil)
		validateBufferBySampling(t, needle, distance, result)
	}
}

func TestBuffer_Fixtures(t *testing.T) {
	for _, name := range []string{"star", "comb"} {
		input := LoadFixture(name)
		for _, distance := range []float64{0.3, 1, 3, -0.3, -1, -3} {
			result := buffer(t, input, distance, nil)
			validateBufferBySampling(t, input, distance, result)
		}
	}
}

func TestBuffer_CombGapsFill(t *testing.T) {
	// The gaps between the teeth are 10 wide, so a buffer of 6 closes them
	result := buffer(t, LoadFixture("comb"), 6, nil)
	polygons := planar.Polygons(result)
	require.Len(t, polygons, 1)
	assert.Empty(t, polygons[0].Holes)
}

func TestBuffer_NonArealIsEmpty(t *testing.T) {
	line := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 10, 0})
	for _, g := range []geom.T{point(0, 0), line, geom.NewMultiPointFlat(geom.XY, []float64{0, 0, 1, 1})} {
		for _, distance := range []float64{0, -1} {
			result := buffer(t, g, distance, nil)
			assert.IsType(t, &geom.Polygon{}, result)
			assert.True(t, planar.IsEmpty(result))
		}
	}

	result := buffer(t, geom.NewPolygon(geom.XY), 1, nil)
	assert.True(t, planar.IsEmpty(result))
}

func TestBuffer_ErodedAway(t *testing.T) {
	square := geom.NewPolygonFlat(geom.XY, Square(0, 0, 10), []int{10})
	result := buffer(t, square, -6, nil)
	assert.True(t, planar.IsEmpty(result))

	// One component of a multipolygon vanishes, and the other remains
	flat := append(Square(0, 0, 10), Square(20, 0, 2)...)
	multi := geom.NewMultiPolygonFlat(geom.XY, flat, [][]int{{10}, {20}})
	result = buffer(t, multi, -2, nil)
	assert.IsType(t, &geom.Polygon{}, result)
	assert.InDelta(t, 36, Area(result), 1e-9)
}

func TestBuffer_Monotonic(t *testing.T) {
	input := Zigzag()
	var previous []planar.Polygon
	for _, distance := range []float64{0.5, 1, 2, 4} {
		result := buffer(t, input, distance, nil)
		polygons := planar.Polygons(result)
		rings := allRings(polygons)
		for _, polygon := range previous {
			for _, p := range polygon.Shell {
				assert.True(t, planar.ContainsPointByEvenOdd(p, rings), "%s at distance %v", p, distance)
			}
		}
		previous = polygons
	}
}

func TestBuffer_QuadrantSegmentsConverge(t *testing.T) {
	const r = 100
	coarse := Area(buffer(t, point(0, 0), r, nil))
	fine := Area(buffer(t, point(0, 0), r, func(p *Params) { p.QuadrantSegments = 32 }))
	bound := 2 * math.Pi * r * r * (1 - math.Cos(math.Pi/2/8))
	assert.Less(t, fine-coarse, bound)
	assert.Greater(t, fine, coarse)
	assert.InEpsilon(t, math.Pi*r*r, fine, 0.001)
}

func TestBuffer_LineArea(t *testing.T) {
	const d, length = 10.0, 100.0
	line := geom.NewLineStringFlat(geom.XY, []float64{0, 0, length, 0})
	result := buffer(t, line, d, nil)
	assert.InEpsilon(t, 2*d*length+math.Pi*d*d, Area(result), 0.01)
	validateBufferBySampling(t, line, d, result)
}

func TestBuffer_OverlappingPoints(t *testing.T) {
	overlapping := geom.NewMultiPointFlat(geom.XY, []float64{0, 0, 1, 0})
	result := buffer(t, overlapping, 1, nil)
	require.Len(t, planar.Polygons(result), 1)
	area := Area(result)
	assert.Greater(t, area, math.Pi*0.99)
	assert.Less(t, area, 2*math.Pi)
	validateBufferBySampling(t, overlapping, 1, result)

	apart := geom.NewMultiPointFlat(geom.XY, []float64{0, 0, 10, 0})
	result = buffer(t, apart, 1, nil)
	assert.IsType(t, &geom.MultiPolygon{}, result)
	assert.Len(t, planar.Polygons(result), 2)
}

func TestBuffer_Holes(t *testing.T) {
	input := SquareWithHole()
	result := buffer(t, input, 0.5, nil)
	polygons := planar.Polygons(result)
	require.Len(t, polygons, 1)
	require.Len(t, polygons[0].Holes, 1)
	// The hole's corners are reflex corners of the polygon, so they stay sharp
	assert.InDelta(t, 1, planar.SignedArea(polygons[0].Holes[0]), 1e-9)
	validateBufferBySampling(t, input, 0.5, result)

	// A larger buffer fills the hole
	result = buffer(t, input, 1.5, nil)
	polygons = planar.Polygons(result)
	require.Len(t, polygons, 1)
	assert.Empty(t, polygons[0].Holes)

	// Eroding widens it
	result = buffer(t, input, -1, nil)
	validateBufferBySampling(t, input, -1, result)
}

func TestBuffer_ZeroDistanceCleansPolygon(t *testing.T) {
	// A bow tie crosses itself; the cleaning buffer keeps its positively wound
	// lobe only
	bowTie := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 10, 10, 10, 0, 0, 10, 0, 0}, []int{10})
	result := buffer(t, bowTie, 0, nil)
	assert.InDelta(t, 25, Area(result), 1e-9)

	square := geom.NewPolygonFlat(geom.XY, Square(0, 0, 10), []int{10})
	assert.InDelta(t, 100, Area(buffer(t, square, 0, nil)), 1e-9)
}

func TestBuffer_SingleSided(t *testing.T) {
	line := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 10, 0})
	single := func(p *Params) { p.SingleSided = true }

	left := buffer(t, line, 2, single)
	assert.InDelta(t, 20, Area(left), 1e-9)
	assert.InDelta(t, 2, planar.GeometryEnvelope(left).Y.Hi, 1e-9)

	right := buffer(t, line, -2, single)
	assert.InDelta(t, 20, Area(right), 1e-9)
	assert.InDelta(t, -2, planar.GeometryEnvelope(right).Y.Lo, 1e-9)
}

func TestBuffer_JoinStyles(t *testing.T) {
	square := geom.NewPolygonFlat(geom.XY, Square(0, 0, 10), []int{10})
	mitre := buffer(t, square, 1, func(p *Params) { p.JoinStyle = JoinMitre })
	assert.InDelta(t, 144, Area(mitre), 1e-9)
	bevel := buffer(t, square, 1, func(p *Params) { p.JoinStyle = JoinBevel })
	assert.InDelta(t, 142, Area(bevel), 1e-9)
}

func TestBuffer_GeometryCollection(t *testing.T) {
	collection := geom.NewGeometryCollection()
	require.NoError(t, collection.Push(
		point(0, 0),
		geom.NewLineStringFlat(geom.XY, []float64{20, 0, 30, 0}),
		geom.NewPolygonFlat(geom.XY, Square(40, 0, 5), []int{10}),
	))
	result := buffer(t, collection, 1, nil)
	assert.Len(t, planar.Polygons(result), 3)
	validateBufferBySampling(t, collection, 1, result)
}

func TestBuffer_SRID(t *testing.T) {
	result := buffer(t, point(1, 1).SetSRID(4326), 1, nil)
	assert.Equal(t, 4326, result.SRID())
}

func TestBuffer_InvalidInput(t *testing.T) {
	op, err := NewOp(DefaultParams())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = op.Buffer(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = op.Buffer(ctx, point(0, 0), math.NaN())
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = op.Buffer(ctx, point(math.Inf(1), 0), 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewOp(Params{})
	assert.ErrorIs(t, err, ErrInvalidParams)

	op.Params.QuadrantSegments = -1
	_, err = op.Buffer(ctx, point(0, 0), 1)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestBuffer_Cancelled(t *testing.T) {
	op, err := NewOp(DefaultParams())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = op.Buffer(ctx, point(0, 0), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuffer_Concurrent(t *testing.T) {
	op, err := NewOp(DefaultParams())
	require.NoError(t, err)
	input := LoadFixture("star")

	var wg sync.WaitGroup
	areas := make([]float64, 8)
	for i := range areas {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := op.Buffer(context.Background(), input, 1)
			if assert.NoError(t, err) {
				areas[i] = Area(result)
			}
		}(i)
	}
	wg.Wait()
	for _, area := range areas {
		assert.InDelta(t, areas[0], area, 1e-9)
	}
}

func topologyError(msg string) (err error) {
	defer func() { err = planar.RecoverTopology(recover()) }()
	planar.Fatalf(msg)
	return nil
}

func TestBuffer_PrecisionFallback(t *testing.T) {
	op, err := NewOp(DefaultParams())
	require.NoError(t, err)

	var models []planar.PrecisionModel
	op.attempt = func(ctx context.Context, g geom.T, distance float64, params Params, pm planar.PrecisionModel) (geom.T, error) {
		models = append(models, pm)
		if len(models) < 3 {
			return nil, topologyError("found non-noded intersection")
		}
		return BufferAtPrecision(ctx, g, distance, params, pm)
	}

	result, err := op.Buffer(context.Background(), point(0, 0), 500)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Pi*500*500, Area(result), 0.01)

	require.Len(t, models, 3)
	assert.True(t, models[0].IsFloating())
	env := r2.RectFromPoints(r2.Point{}, r2.Point{})
	assert.Equal(t, precisionScaleFactor(env, 500, 12), models[1].Scale)
	assert.Equal(t, precisionScaleFactor(env, 500, 11), models[2].Scale)
}

func TestBuffer_PrecisionExhausted(t *testing.T) {
	op, err := NewOp(DefaultParams())
	require.NoError(t, err)

	attempts := 0
	op.attempt = func(ctx context.Context, g geom.T, distance float64, params Params, pm planar.PrecisionModel) (geom.T, error) {
		attempts++
		if pm.IsFloating() {
			return nil, topologyError("original failure")
		}
		return nil, topologyError("reduced failure")
	}

	_, err = op.Buffer(context.Background(), point(0, 0), 1)
	require.Error(t, err)
	assert.Equal(t, MaxPrecisionDigits+2, attempts)
	assert.ErrorIs(t, err, ErrBufferFailed)
	assert.True(t, planar.IsTopologyError(err))
	assert.Contains(t, err.Error(), "original failure")
	assert.Contains(t, err.Error(), "reduced failure")

	var failed *FailedError
	require.True(t, errors.As(err, &failed))
	assert.Contains(t, failed.Original.Error(), "original failure")
}

func TestBuffer_NonTopologyErrorIsNotRetried(t *testing.T) {
	op, err := NewOp(DefaultParams())
	require.NoError(t, err)

	attempts := 0
	boom := errors.New("boom")
	op.attempt = func(context.Context, geom.T, float64, Params, planar.PrecisionModel) (geom.T, error) {
		attempts++
		return nil, boom
	}
	_, err = op.Buffer(context.Background(), point(0, 0), 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestPrecisionScaleFactor(t *testing.T) {
	env := r2.RectFromPoints(r2.Point{X: -500, Y: -20}, r2.Point{X: 300, Y: 40})
	// The buffer reaches 1500, which has 4 digits before the point
	assert.Equal(t, 1e8, precisionScaleFactor(env, 500, 12))
	assert.Equal(t, 1e-4, precisionScaleFactor(env, 500, 0))
	// Negative distances do not shrink the envelope
	assert.Equal(t, 1e9, precisionScaleFactor(env, -100, 12))
	// A geometry at the origin is treated as having one digit
	assert.Equal(t, 1e11, precisionScaleFactor(r2.EmptyRect().AddPoint(r2.Point{}), 0, 12))
}

func TestBufferAtPrecision_SnapRounding(t *testing.T) {
	square := geom.NewPolygonFlat(geom.XY, Square(0, 0, 10), []int{10})
	result, err := BufferAtPrecision(context.Background(), square, 2, DefaultParams(), planar.FixedPrecision(1))
	require.NoError(t, err)
	AssertWellFormed(t, result)
	for _, p := range planar.Coordinates(result) {
		assert.Equal(t, math.Round(p.X), p.X)
		assert.Equal(t, math.Round(p.Y), p.Y)
	}
	area := Area(result)
	assert.Greater(t, area, 180.0)
	assert.LessOrEqual(t, area, 196.0)
}

func lineString(flat ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, flat)
}

func TestBufferAtPrecision_CoincidentOffsets(t *testing.T) {
	// The line turns back on itself, so both passes of its offset curve run
	// over the same segments and must be noded where they share vertices
	line := lineString(0, 0, 5, 1, 9, 0, 5, 1)
	for _, scale := range []float64{1e6, 1e4, 1e2} {
		result, err := BufferAtPrecision(context.Background(), line, 1, DefaultParams(), planar.FixedPrecision(scale))
		require.NoError(t, err, "scale %g", scale)
		AssertWellFormed(t, result)
		validateBufferBySampling(t, line, 1, result)
	}
}

func TestBuffer_FallbackResultIsValid(t *testing.T) {
	line := lineString(6, 1, 2, 9, 1, 1, 1, 6, 1, 6, 4, 6, 2, 5, 0, 8, 5, 9, 9, 8, 5, 9)
	distance := 2.484

	result := buffer(t, line, distance, nil)
	validateBufferBySampling(t, line, distance, result)

	// The same input computed entirely on reduced precision grids
	op, err := NewOp(DefaultParams())
	require.NoError(t, err)
	op.attempt = func(ctx context.Context, g geom.T, distance float64, params Params, pm planar.PrecisionModel) (geom.T, error) {
		if pm.IsFloating() {
			return nil, topologyError("found non-noded intersection")
		}
		return BufferAtPrecision(ctx, g, distance, params, pm)
	}
	result, err = op.Buffer(context.Background(), line, distance)
	require.NoError(t, err)
	AssertWellFormed(t, result)
	validateBufferBySampling(t, line, distance, result)
}

func star(rng *rand.Rand, points int) *geom.Polygon {
	var flat []float64
	for i := 0; i < 2*points; i++ {
		angle := math.Pi * float64(i) / float64(points)
		radius := 100.0
		if i%2 == 1 {
			radius = 20 + 40*rng.Float64()
		}
		flat = append(flat, radius*math.Cos(angle), radius*math.Sin(angle))
	}
	flat = append(flat, flat[0], flat[1])
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

func TestBufferAtPrecision_CoarseGridRingsDoNotTouchThemselves(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		polygon := star(rng, 5+rng.Intn(6))
		distance := 5 + 20*rng.Float64()
		for _, scale := range []float64{0.1, 1} {
			result, err := BufferAtPrecision(context.Background(), polygon, distance, DefaultParams(), planar.FixedPrecision(scale))
			if err != nil {
				// Coarse grids may fail outright, but must not produce bad rings
				assert.True(t, planar.IsTopologyError(err), "%v", err)
				continue
			}
			AssertWellFormed(t, result)
		}
	}
}
