package noding

import (
	"testing"

	"github.com/osuushi/buffer/internal/topo"
	"github.com/osuushi/buffer/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type C = planar.Coordinate

func segString(pts ...C) *SegmentString {
	return NewSegmentString(pts, topo.NewAreaLabel(0, planar.Boundary, planar.Exterior, planar.Interior))
}

func TestIntersector(t *testing.T) {
	li := NewIntersector(planar.FloatingPrecision())

	proper := li.Compute(C{X: 0, Y: 0}, C{X: 10, Y: 10}, C{X: 0, Y: 10}, C{X: 10, Y: 0})
	require.True(t, proper.HasIntersection())
	assert.True(t, proper.Proper)
	assert.InDelta(t, 5, proper.Points[0].X, 1e-12)
	assert.InDelta(t, 5, proper.Points[0].Y, 1e-12)
	assert.True(t, proper.IsInteriorOf(0))
	assert.True(t, proper.IsInteriorOf(1))

	touching := li.Compute(C{X: 0, Y: 0}, C{X: 10, Y: 0}, C{X: 5, Y: 0}, C{X: 5, Y: 5})
	require.True(t, touching.HasIntersection())
	assert.False(t, touching.Proper)
	assert.Equal(t, []C{{X: 5, Y: 0}}, touching.Points)
	assert.True(t, touching.IsInteriorOf(0))
	assert.False(t, touching.IsInteriorOf(1))

	sharedEnd := li.Compute(C{X: 0, Y: 0}, C{X: 10, Y: 0}, C{X: 10, Y: 0}, C{X: 10, Y: 5})
	assert.Equal(t, []C{{X: 10, Y: 0}}, sharedEnd.Points)
	assert.False(t, sharedEnd.IsInterior())

	overlap := li.Compute(C{X: 0, Y: 0}, C{X: 10, Y: 0}, C{X: 5, Y: 0}, C{X: 15, Y: 0})
	assert.True(t, overlap.IsCollinear())
	assert.ElementsMatch(t, []C{{X: 5, Y: 0}, {X: 10, Y: 0}}, overlap.Points)

	disjoint := li.Compute(C{X: 0, Y: 0}, C{X: 10, Y: 0}, C{X: 0, Y: 1}, C{X: 10, Y: 1})
	assert.False(t, disjoint.HasIntersection())

	nearMiss := li.Compute(C{X: 0, Y: 0}, C{X: 10, Y: 0}, C{X: 5, Y: 1e-300}, C{X: 5, Y: 5})
	assert.False(t, nearMiss.HasIntersection())
}

func TestIntersector_FixedPrecision(t *testing.T) {
	li := NewIntersector(planar.FixedPrecision(1))
	result := li.Compute(C{X: 0, Y: 0}, C{X: 10, Y: 3}, C{X: 0, Y: 3}, C{X: 10, Y: 0})
	require.True(t, result.Proper)
	assert.Equal(t, C{X: 5, Y: 2}, result.Points[0])
}

func TestFindChainEnd(t *testing.T) {
	square := []C{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	// East and north are both in the first quadrant
	assert.Equal(t, 2, findChainEnd(square, 0))
	assert.Equal(t, 3, findChainEnd(square, 2))
	assert.Equal(t, 4, findChainEnd(square, 3))

	chains := buildChains(segString(square...), 7)
	require.Len(t, chains, 3)
	assert.Equal(t, 7, chains[0].id)
	assert.Equal(t, 9, chains[2].id)

	repeated := []C{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 3}}
	assert.Equal(t, 3, findChainEnd(repeated, 0))
}

func collectEnds(strings []*SegmentString) []C {
	var ends []C
	for _, ss := range strings {
		ends = append(ends, ss.Pts[0], ss.Pts[len(ss.Pts)-1])
	}
	return ends
}

func TestMCIndexNoder_Crossing(t *testing.T) {
	a := segString(C{X: 0, Y: 0}, C{X: 10, Y: 10})
	b := segString(C{X: 0, Y: 10}, C{X: 10, Y: 0})
	noded := NewMCIndexNoder(planar.FloatingPrecision()).Node([]*SegmentString{a, b})
	require.Len(t, noded, 4)
	count := 0
	for _, end := range collectEnds(noded) {
		if end.Distance(C{X: 5, Y: 5}) < 1e-9 {
			count++
		}
	}
	assert.Equal(t, 4, count)
	assert.NotPanics(t, func() { ValidateNoding(noded, planar.FloatingPrecision()) })
}

func TestMCIndexNoder_SelfIntersection(t *testing.T) {
	// A bow tie crosses itself once
	bowTie := segString(C{X: 0, Y: 0}, C{X: 10, Y: 10}, C{X: 10, Y: 0}, C{X: 0, Y: 10}, C{X: 0, Y: 0})
	noded := NewMCIndexNoder(planar.FloatingPrecision()).Node([]*SegmentString{bowTie})
	assert.Len(t, noded, 3)
	for _, ss := range noded {
		assert.Equal(t, bowTie.Label, ss.Label)
	}
}

func TestMCIndexNoder_TJunction(t *testing.T) {
	a := segString(C{X: 0, Y: 0}, C{X: 10, Y: 0})
	b := segString(C{X: 5, Y: 0}, C{X: 5, Y: 5})
	noded := NewMCIndexNoder(planar.FloatingPrecision()).Node([]*SegmentString{a, b})
	require.Len(t, noded, 3)
	assert.Equal(t, []C{{X: 0, Y: 0}, {X: 5, Y: 0}}, noded[0].Pts)
	assert.Equal(t, []C{{X: 5, Y: 0}, {X: 10, Y: 0}}, noded[1].Pts)
	assert.Equal(t, []C{{X: 5, Y: 0}, {X: 5, Y: 5}}, noded[2].Pts)
}

func TestSplitEdges_Collapse(t *testing.T) {
	spike := segString(C{X: 0, Y: 0}, C{X: 5, Y: 0}, C{X: 0, Y: 0})
	split := spike.SplitEdges()
	require.Len(t, split, 2)
	assert.Equal(t, []C{{X: 0, Y: 0}, {X: 5, Y: 0}}, split[0].Pts)
	assert.Equal(t, []C{{X: 5, Y: 0}, {X: 0, Y: 0}}, split[1].Pts)
}

func TestAddIntersection_NormalizesToVertex(t *testing.T) {
	ss := segString(C{X: 0, Y: 0}, C{X: 5, Y: 0}, C{X: 10, Y: 0})
	ss.AddIntersection(C{X: 5, Y: 0}, 0)
	ss.AddIntersection(C{X: 5, Y: 0}, 1)
	assert.Equal(t, 1, ss.NumNodes())
	split := ss.SplitEdges()
	require.Len(t, split, 2)
	assert.Equal(t, []C{{X: 0, Y: 0}, {X: 5, Y: 0}}, split[0].Pts)
}

func TestSnapRounder(t *testing.T) {
	a := segString(C{X: 0, Y: 0}, C{X: 10, Y: 3})
	b := segString(C{X: 0, Y: 3}, C{X: 10, Y: 0})
	pm := planar.FixedPrecision(1)
	noded := NewSnapRounder(pm).Node([]*SegmentString{a, b})
	require.Len(t, noded, 4)
	for _, ss := range noded {
		for _, p := range ss.Pts {
			assert.Equal(t, pm.MakePrecise(p), p, "vertices are on the grid")
		}
	}
	assert.Contains(t, collectEnds(noded), C{X: 5, Y: 2})
	assert.NotPanics(t, func() { ValidateNoding(noded, pm) })
}

func TestSnapRounder_SnapsToNearbyVertex(t *testing.T) {
	// b starts within half a cell of a and is pulled onto it
	a := segString(C{X: 0, Y: 0}, C{X: 10, Y: 0})
	b := segString(C{X: 4, Y: 0.3}, C{X: 4, Y: 6})
	noded := NewSnapRounder(planar.FixedPrecision(1)).Node([]*SegmentString{a, b})
	assert.Len(t, noded, 3)
	assert.Contains(t, collectEnds(noded), C{X: 4, Y: 0})
}

func TestSegmentIntersectsPixel(t *testing.T) {
	center := C{X: 5, Y: 5}
	assert.True(t, segmentIntersectsPixel(C{X: 0, Y: 5.2}, C{X: 10, Y: 5.2}, center, 0.5))
	assert.False(t, segmentIntersectsPixel(C{X: 0, Y: 5.6}, C{X: 10, Y: 5.6}, center, 0.5))
	assert.True(t, segmentIntersectsPixel(C{X: 5, Y: 5}, C{X: 7, Y: 9}, center, 0.5))
	assert.True(t, segmentIntersectsPixel(C{X: 4, Y: 4}, C{X: 6, Y: 6.5}, center, 0.5))
	assert.False(t, segmentIntersectsPixel(C{X: 0, Y: 0}, C{X: 3, Y: 10}, center, 0.5))
}

func TestValidateNoding_Unnoded(t *testing.T) {
	a := segString(C{X: 0, Y: 0}, C{X: 10, Y: 10})
	b := segString(C{X: 0, Y: 10}, C{X: 10, Y: 0})
	var err error
	func() {
		defer func() { err = planar.RecoverTopology(recover()) }()
		ValidateNoding([]*SegmentString{a, b}, planar.FloatingPrecision())
	}()
	require.Error(t, err)
	assert.True(t, planar.IsTopologyError(err))
}

func TestSnapRounder_SharedVertex(t *testing.T) {
	// The strings cross at a vertex of each, which no segment passes through
	a := segString(C{X: 0, Y: 0}, C{X: 5, Y: 5}, C{X: 10, Y: 10})
	b := segString(C{X: 0, Y: 10}, C{X: 5, Y: 5}, C{X: 10, Y: 0})
	pm := planar.FixedPrecision(1)
	noded := NewSnapRounder(pm).Node([]*SegmentString{a, b})
	require.Len(t, noded, 4)
	count := 0
	for _, end := range collectEnds(noded) {
		if end == (C{X: 5, Y: 5}) {
			count++
		}
	}
	assert.Equal(t, 4, count)
	assert.NotPanics(t, func() { ValidateNoding(noded, pm) })
}

func TestSnapRounder_Coincident(t *testing.T) {
	a := segString(C{X: 0, Y: 0}, C{X: 5, Y: 0}, C{X: 10, Y: 0})
	b := segString(C{X: 10, Y: 0}, C{X: 5, Y: 0}, C{X: 0, Y: 0}, C{X: 0, Y: 5})
	pm := planar.FixedPrecision(1)
	noded := NewSnapRounder(pm).Node([]*SegmentString{a, b})
	require.Len(t, noded, 5)
	for _, ss := range noded {
		assert.Len(t, ss.Pts, 2)
	}
	assert.NotPanics(t, func() { ValidateNoding(noded, pm) })
}

func TestSnapRounder_RevisitedVertex(t *testing.T) {
	loop := segString(C{X: 0, Y: 0}, C{X: 5, Y: 0}, C{X: 5, Y: 5}, C{X: 0, Y: 5}, C{X: 5, Y: 0}, C{X: 10, Y: 0})
	pm := planar.FixedPrecision(1)
	noded := NewSnapRounder(pm).Node([]*SegmentString{loop})
	assert.Contains(t, collectEnds(noded), C{X: 5, Y: 0})
	assert.NotPanics(t, func() { ValidateNoding(noded, pm) })
}

func validationError(segStrings ...*SegmentString) (err error) {
	defer func() { err = planar.RecoverTopology(recover()) }()
	ValidateNoding(segStrings, planar.FloatingPrecision())
	return nil
}

func TestValidateNoding_SharedInteriorVertex(t *testing.T) {
	crossing := validationError(
		segString(C{X: 0, Y: 0}, C{X: 5, Y: 5}, C{X: 10, Y: 10}),
		segString(C{X: 0, Y: 10}, C{X: 5, Y: 5}, C{X: 10, Y: 0}),
	)
	require.Error(t, crossing)
	assert.True(t, planar.IsTopologyError(crossing))

	// b overlaps a's first segment, then leaves it at a vertex interior to a
	overlap := validationError(
		segString(C{X: 0, Y: 0}, C{X: 5, Y: 0}, C{X: 10, Y: 0}),
		segString(C{X: 0, Y: 0}, C{X: 5, Y: 0}, C{X: 5, Y: 5}),
	)
	assert.True(t, planar.IsTopologyError(overlap))

	assert.NoError(t, validationError(
		segString(C{X: 0, Y: 0}, C{X: 5, Y: 0}, C{X: 10, Y: 0}),
		segString(C{X: 10, Y: 0}, C{X: 5, Y: 0}, C{X: 0, Y: 0}),
	), "coincident strings")
	assert.NoError(t, validationError(
		segString(C{X: 0, Y: 0}, C{X: 5, Y: 5}),
		segString(C{X: 5, Y: 5}, C{X: 10, Y: 10}, C{X: 10, Y: 0}),
		segString(C{X: 0, Y: 10}, C{X: 5, Y: 5}),
	), "strings meeting at their ends")
}
