// Package noding splits a set of segment strings at every point where they
// intersect, so that the result meets only at shared endpoints.
package noding

import (
	"github.com/osuushi/buffer/planar"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy/lineintersector"
)

// Intersection of two segments p1-p2 and q1-q2.
type Intersection struct {
	// Zero points, one point, or the two ends of a collinear overlap
	Points []planar.Coordinate
	// A single point interior to both segments
	Proper bool

	segments [2][2]planar.Coordinate
}

func (r Intersection) HasIntersection() bool {
	return len(r.Points) > 0
}

func (r Intersection) IsCollinear() bool {
	return len(r.Points) == 2
}

// Whether some intersection point is not an endpoint of segment 0 (p) or 1 (q).
func (r Intersection) IsInteriorOf(segment int) bool {
	for _, pt := range r.Points {
		if !pt.Equals(r.segments[segment][0]) && !pt.Equals(r.segments[segment][1]) {
			return true
		}
	}
	return false
}

// Whether some intersection point is interior to either segment.
func (r Intersection) IsInterior() bool {
	return r.IsInteriorOf(0) || r.IsInteriorOf(1)
}

// Intersector computes segment intersections. Side tests are exact, so the
// kind of intersection is always classified correctly; only the location of a
// proper crossing is subject to rounding. Under a fixed precision model that
// location is snapped to the grid.
type Intersector struct {
	Precision planar.PrecisionModel
	strategy  lineintersector.Strategy
}

func NewIntersector(pm planar.PrecisionModel) *Intersector {
	return &Intersector{Precision: pm, strategy: &lineintersector.RobustLineIntersector{}}
}

func (li *Intersector) Compute(p1, p2, q1, q2 planar.Coordinate) Intersection {
	result := Intersection{segments: [2][2]planar.Coordinate{{p1, p2}, {q1, q2}}}

	if !planar.SegmentEnvelope(p1, p2).Intersects(planar.SegmentEnvelope(q1, q2)) {
		return result
	}

	pq1 := planar.OrientationIndex(p1, p2, q1)
	pq2 := planar.OrientationIndex(p1, p2, q2)
	if (pq1 > 0 && pq2 > 0) || (pq1 < 0 && pq2 < 0) {
		return result
	}
	qp1 := planar.OrientationIndex(q1, q2, p1)
	qp2 := planar.OrientationIndex(q1, q2, p2)
	if (qp1 > 0 && qp2 > 0) || (qp1 < 0 && qp2 < 0) {
		return result
	}

	if pq1 == 0 && pq2 == 0 && qp1 == 0 && qp2 == 0 {
		result.Points = collinearIntersection(p1, p2, q1, q2)
		return result
	}

	// An endpoint of one segment touches the other
	if pq1 == 0 || pq2 == 0 || qp1 == 0 || qp2 == 0 {
		var pt planar.Coordinate
		switch {
		case p1.Equals(q1) || p1.Equals(q2):
			pt = p1
		case p2.Equals(q1) || p2.Equals(q2):
			pt = p2
		case pq1 == 0:
			pt = q1
		case pq2 == 0:
			pt = q2
		case qp1 == 0:
			pt = p1
		default:
			pt = p2
		}
		result.Points = []planar.Coordinate{pt}
		return result
	}

	result.Proper = true
	result.Points = []planar.Coordinate{li.Precision.MakePrecise(li.properIntersection(p1, p2, q1, q2))}
	return result
}

// The crossing point of two segments known to cross properly. When rounding
// pushes the computed point outside either segment's envelope, the nearest
// endpoint is used instead.
func (li *Intersector) properIntersection(p1, p2, q1, q2 planar.Coordinate) planar.Coordinate {
	var pt planar.Coordinate
	found := false
	intersection := lineintersector.LineIntersectsLine(li.strategy, toCoord(p1), toCoord(p2), toCoord(q1), toCoord(q2))
	if intersection.HasIntersection() {
		if coords := intersection.Intersection(); len(coords) > 0 {
			pt = planar.Coordinate{X: coords[0].X(), Y: coords[0].Y()}
			found = pt.IsFinite()
		}
	}
	if !found {
		pt, found = planar.LineIntersection(p1, p2, q1, q2)
	}
	if !found || !inEnvelope(pt, p1, p2) || !inEnvelope(pt, q1, q2) {
		pt = nearestEndpoint(p1, p2, q1, q2)
	}
	return pt
}

func toCoord(c planar.Coordinate) geom.Coord {
	return geom.Coord{c.X, c.Y}
}

func inEnvelope(pt, a, b planar.Coordinate) bool {
	return planar.SegmentEnvelope(a, b).ContainsPoint(pt.Vec())
}

// The endpoint of either segment which is closest to the other segment.
func nearestEndpoint(p1, p2, q1, q2 planar.Coordinate) planar.Coordinate {
	nearest := p1
	minDist := planar.DistancePointSegment(p1, q1, q2)
	candidates := []struct {
		pt   planar.Coordinate
		dist float64
	}{
		{p2, planar.DistancePointSegment(p2, q1, q2)},
		{q1, planar.DistancePointSegment(q1, p1, p2)},
		{q2, planar.DistancePointSegment(q2, p1, p2)},
	}
	for _, c := range candidates {
		if c.dist < minDist {
			nearest = c.pt
			minDist = c.dist
		}
	}
	return nearest
}

// Overlap of two collinear segments: the endpoints of each which lie within
// the other. Returns no points if they are disjoint.
func collinearIntersection(p1, p2, q1, q2 planar.Coordinate) []planar.Coordinate {
	var pts []planar.Coordinate
	add := func(pt planar.Coordinate) {
		for _, existing := range pts {
			if existing.Equals(pt) {
				return
			}
		}
		pts = append(pts, pt)
	}
	if inEnvelope(q1, p1, p2) {
		add(q1)
	}
	if inEnvelope(q2, p1, p2) {
		add(q2)
	}
	if inEnvelope(p1, q1, q2) {
		add(p1)
	}
	if inEnvelope(p2, q1, q2) {
		add(p2)
	}
	if len(pts) > 2 {
		pts = pts[:2]
	}
	return pts
}
