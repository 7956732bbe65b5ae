package advanced

// This contains no actual tests. It holds helpers for checking buffer results.

import (
	"math"
	"testing"

	"github.com/osuushi/buffer/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func allRings(polygons []planar.Polygon) [][]planar.Coordinate {
	var rings [][]planar.Coordinate
	for _, polygon := range polygons {
		rings = append(rings, polygon.Rings()...)
	}
	return rings
}

// Area of a buffer result. Shells are clockwise and holes counter-clockwise,
// so every ring's signed area has the opposite sign to its contribution.
func Area(g geom.T) float64 {
	var area float64
	for _, ring := range allRings(planar.Polygons(g)) {
		area -= planar.SignedArea(ring)
	}
	return area
}

func Centroid(ring []planar.Coordinate) planar.Coordinate {
	var cx, cy, a float64
	for i := 0; i < len(ring)-1; i++ {
		p, q := ring[i], ring[i+1]
		cross := p.X*q.Y - q.X*p.Y
		a += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	return planar.Coordinate{X: cx / (3 * a), Y: cy / (3 * a)}
}

// Checks the structural rules every result obeys: closed rings, clockwise
// shells, counter-clockwise holes, and no ring touching itself.
func AssertWellFormed(t *testing.T, result geom.T) {
	t.Helper()
	require.NotNil(t, result)
	for _, polygon := range planar.Polygons(result) {
		require.True(t, planar.IsRing(polygon.Shell), "shell is not a closed ring: %v", polygon.Shell)
		assert.False(t, planar.IsCCW(polygon.Shell), "shell is counter-clockwise")
		for _, hole := range polygon.Holes {
			require.True(t, planar.IsRing(hole), "hole is not a closed ring: %v", hole)
			assert.True(t, planar.IsCCW(hole), "hole is clockwise")
		}
		for _, ring := range polygon.Rings() {
			seen := make(map[planar.Coordinate]bool)
			for _, p := range ring[:len(ring)-1] {
				assert.False(t, seen[p], "ring revisits %s", p)
				seen[p] = true
			}
		}
	}
}

// Distance from p to the boundary of g, negated inside its areas.
func signedDistance(p planar.Coordinate, g geom.T) float64 {
	minDist := math.Inf(1)
	var areaRings [][]planar.Coordinate
	var visit func(g geom.T)
	visitPath := func(pts []planar.Coordinate) {
		if len(pts) == 1 {
			minDist = math.Min(minDist, p.Distance(pts[0]))
		}
		for i := 0; i+1 < len(pts); i++ {
			minDist = math.Min(minDist, planar.DistancePointSegment(p, pts[i], pts[i+1]))
		}
	}
	visit = func(g geom.T) {
		switch g := g.(type) {
		case *geom.Polygon:
			for _, ring := range planar.PolygonRings(g) {
				visitPath(ring)
				areaRings = append(areaRings, ring)
			}
		case *geom.MultiPolygon:
			for i := 0; i < g.NumPolygons(); i++ {
				visit(g.Polygon(i))
			}
		case *geom.MultiPoint:
			for i := 0; i < g.NumPoints(); i++ {
				visit(g.Point(i))
			}
		case *geom.MultiLineString:
			for i := 0; i < g.NumLineStrings(); i++ {
				visit(g.LineString(i))
			}
		case *geom.GeometryCollection:
			for _, child := range g.Geoms() {
				visit(child)
			}
		default:
			visitPath(planar.Coordinates(g))
		}
	}
	visit(g)
	if planar.ContainsPointByEvenOdd(p, areaRings) {
		return -minDist
	}
	return minDist
}

// Samples a grid over the result and checks each point against the exact
// buffer: a point is in the buffer iff its signed distance to the input is at
// most the buffer distance. Points within the tolerance of the exact boundary
// are skipped, since the arcs are approximated and the input simplified.
func validateBufferBySampling(t *testing.T, input geom.T, distance float64, result geom.T) {
	t.Helper()
	tolerance := 0.02*math.Abs(distance) + 1e-9
	resultRings := allRings(planar.Polygons(result))

	env := planar.GeometryEnvelope(input).ExpandedByMargin(math.Max(distance, 0))
	// Pad the bounding box by 10%
	env = env.ExpandedByMargin(0.1 * math.Max(env.X.Length(), env.Y.Length()))
	step := math.Max(env.X.Length(), env.Y.Length()) / 50

	failures := 0
	for y := env.Y.Lo; y <= env.Y.Hi; y += step {
		for x := env.X.Lo; x <= env.X.Hi; x += step {
			p := planar.Coordinate{X: x, Y: y}
			margin := distance - signedDistance(p, input)
			actual := planar.ContainsPointByEvenOdd(p, resultRings)
			if margin > tolerance && !actual {
				failures++
				assert.True(t, actual, "point %s should be in the buffer", p)
			} else if margin < -tolerance && actual {
				failures++
				assert.False(t, actual, "point %s should not be in the buffer", p)
			}
			if failures > 10 {
				t.FailNow()
			}
		}
	}
}
