package offset

import (
	"math"

	"github.com/osuushi/buffer/internal/noding"
	"github.com/osuushi/buffer/internal/topo"
	"github.com/osuushi/buffer/planar"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// CurveSetBuilder builds the labelled raw offset curves for every component
// of a geometry. Each curve is labelled with the location of the source
// geometry on its left and right, which seeds the depth computation.
type CurveSetBuilder struct {
	curveBuilder *CurveBuilder
	distance     float64
	curves       []*noding.SegmentString

	// Rings skipped because the buffer certainly erodes or fills them
	ErodedRings int
}

func NewCurveSetBuilder(params Params, pm planar.PrecisionModel, distance float64) *CurveSetBuilder {
	return &CurveSetBuilder{
		curveBuilder: NewCurveBuilder(params, pm),
		distance:     distance,
	}
}

// Curves returns the offset curves of g. The result may be empty, in which
// case the buffer is empty.
func (b *CurveSetBuilder) Curves(g geom.T) ([]*noding.SegmentString, error) {
	b.curves = nil
	b.ErodedRings = 0
	if err := b.add(g); err != nil {
		return nil, err
	}
	return b.curves, nil
}

func (b *CurveSetBuilder) add(g geom.T) error {
	switch g := g.(type) {
	case nil:
		return nil
	case *geom.Point:
		if !g.Empty() {
			b.addPoint(planar.Coordinate{X: g.X(), Y: g.Y()})
		}
	case *geom.LineString:
		b.addLineString(planar.FromGeomCoords(g.Coords()))
	case *geom.LinearRing:
		b.addLineString(planar.FromGeomCoords(g.Coords()))
	case *geom.Polygon:
		b.addPolygon(g)
	case *geom.MultiPoint:
		for i := 0; i < g.NumPoints(); i++ {
			if err := b.add(g.Point(i)); err != nil {
				return err
			}
		}
	case *geom.MultiLineString:
		for i := 0; i < g.NumLineStrings(); i++ {
			b.addLineString(planar.FromGeomCoords(g.LineString(i).Coords()))
		}
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			b.addPolygon(g.Polygon(i))
		}
	case *geom.GeometryCollection:
		for _, child := range g.Geoms() {
			if err := b.add(child); err != nil {
				return err
			}
		}
	default:
		return errors.Errorf("cannot buffer geometry of type %T", g)
	}
	return nil
}

func (b *CurveSetBuilder) addCurve(pts []planar.Coordinate, leftLoc, rightLoc planar.Location) {
	if len(pts) < 2 {
		return
	}
	label := topo.NewAreaLabel(0, planar.Boundary, leftLoc, rightLoc)
	b.curves = append(b.curves, noding.NewSegmentString(pts, label))
}

func (b *CurveSetBuilder) addPoint(p planar.Coordinate) {
	// A point has no interior to erode
	if b.distance <= 0 {
		return
	}
	curve := b.curveBuilder.LineCurve([]planar.Coordinate{p}, b.distance)
	b.addCurve(curve, planar.Exterior, planar.Interior)
}

func (b *CurveSetBuilder) addLineString(pts []planar.Coordinate) {
	if b.curveBuilder.IsLineOffsetEmpty(b.distance) {
		return
	}
	pts = planar.RemoveRepeatedPoints(pts)
	if len(pts) == 0 {
		return
	}
	if planar.IsRing(pts) && !b.curveBuilder.Params.SingleSided {
		b.addRingSide(pts, b.distance, topo.Left, planar.Exterior, planar.Interior)
		b.addRingSide(pts, b.distance, topo.Right, planar.Interior, planar.Exterior)
		return
	}
	curve := b.curveBuilder.LineCurve(pts, b.distance)
	b.addCurve(curve, planar.Exterior, planar.Interior)
}

// Shells are offset outward for positive distances and inward for negative
// ones. Holes are offset the opposite way, since the outside of a hole is
// inside the polygon.
func (b *CurveSetBuilder) addPolygon(p *geom.Polygon) {
	if p.Empty() {
		return
	}
	offsetDistance := b.distance
	offsetSide := topo.Left
	if b.distance < 0 {
		offsetDistance = -b.distance
		offsetSide = topo.Right
	}

	rings := planar.PolygonRings(p)
	shell := planar.RemoveRepeatedPoints(rings[0])
	if b.distance < 0 && isErodedCompletely(shell, b.distance) {
		b.ErodedRings++
		return
	}
	if b.distance <= 0 && len(shell) < 3 {
		return
	}
	b.addRingSide(shell, offsetDistance, offsetSide, planar.Exterior, planar.Interior)

	for _, ring := range rings[1:] {
		hole := planar.RemoveRepeatedPoints(ring)
		// A hole filled in by the buffer contributes nothing
		if b.distance > 0 && isErodedCompletely(hole, -b.distance) {
			b.ErodedRings++
			continue
		}
		b.addRingSide(hole, offsetDistance, offsetSide.Opposite(), planar.Interior, planar.Exterior)
	}
}

// Adds the offset of a ring on one side. The locations are those for a
// clockwise ring, and are swapped along with the side for a counter-clockwise
// one.
func (b *CurveSetBuilder) addRingSide(pts []planar.Coordinate, offsetDistance float64, side topo.Position, cwLeftLoc, cwRightLoc planar.Location) {
	if offsetDistance == 0 && len(pts) < 4 {
		return
	}
	leftLoc, rightLoc := cwLeftLoc, cwRightLoc
	if len(pts) >= 4 && planar.IsCCW(pts) {
		leftLoc, rightLoc = cwRightLoc, cwLeftLoc
		side = side.Opposite()
	}
	curve := b.curveBuilder.RingCurve(pts, side, offsetDistance)
	b.addCurve(curve, leftLoc, rightLoc)
}

// Whether a negative buffer distance certainly erodes the ring away. The test
// is conservative: a ring it keeps may still vanish in the full computation.
func isErodedCompletely(ring []planar.Coordinate, distance float64) bool {
	if len(ring) < 4 {
		return distance < 0
	}
	if len(ring) == 4 {
		return isTriangleErodedCompletely(ring, distance)
	}
	env := planar.Envelope(ring)
	minDimension := math.Min(env.X.Length(), env.Y.Length())
	return distance < 0 && 2*math.Abs(distance) > minDimension
}

// A triangle erodes completely when the distance exceeds the radius of its
// incircle.
func isTriangleErodedCompletely(triangle []planar.Coordinate, distance float64) bool {
	p0, p1, p2 := triangle[0], triangle[1], triangle[2]
	len0 := p1.Distance(p2)
	len1 := p0.Distance(p2)
	len2 := p0.Distance(p1)
	circumference := len0 + len1 + len2
	inCentre := planar.Coordinate{
		X: (len0*p0.X + len1*p1.X + len2*p2.X) / circumference,
		Y: (len0*p0.Y + len1*p1.Y + len2*p2.Y) / circumference,
	}
	return planar.DistancePointSegment(inCentre, p0, p1) < math.Abs(distance)
}
