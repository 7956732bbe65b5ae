package offset

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/osuushi/buffer/internal/noding"
	"github.com/osuushi/buffer/internal/topo"
	"github.com/osuushi/buffer/planar"
)

const (
	// Points closer than distance*curveVertexSnapFactor to the previous point
	// are dropped
	curveVertexSnapFactor = 1e-6
	// At an outside turn whose offset endpoints are closer than
	// distance*outsideTurnSnapFactor, no join is added
	outsideTurnSnapFactor = 1e-3
)

type segment struct {
	p0, p1 planar.Coordinate
}

// Accumulates the points of one offset curve, rounding each through the
// precision model and dropping near duplicates.
type curvePoints struct {
	precision   planar.PrecisionModel
	minDistance float64
	pts         []planar.Coordinate
}

func (c *curvePoints) add(pt planar.Coordinate) {
	pt = c.precision.MakePrecise(pt)
	if len(c.pts) > 0 && c.pts[len(c.pts)-1].Distance(pt) < c.minDistance {
		return
	}
	c.pts = append(c.pts, pt)
}

func (c *curvePoints) addAll(pts []planar.Coordinate, forward bool) {
	for i := range pts {
		if forward {
			c.add(pts[i])
		} else {
			c.add(pts[len(pts)-1-i])
		}
	}
}

func (c *curvePoints) closeRing() {
	if len(c.pts) < 1 {
		return
	}
	if start := c.pts[0]; !start.Equals(c.pts[len(c.pts)-1]) {
		c.pts = append(c.pts, start)
	}
}

// segmentGenerator walks a line vertex by vertex on one side, emitting the
// offset of each segment and the join at each vertex. s0, s1 and s2 are the
// last three vertices seen.
type segmentGenerator struct {
	params             Params
	distance           float64
	filletAngleQuantum float64

	curve curvePoints
	li    *noding.Intersector

	s0, s1, s2       planar.Coordinate
	offset0, offset1 segment
	side             topo.Position
}

func newSegmentGenerator(params Params, precision planar.PrecisionModel, distance float64) *segmentGenerator {
	return &segmentGenerator{
		params:             params,
		distance:           distance,
		filletAngleQuantum: math.Pi / 2 / float64(params.QuadrantSegments),
		curve: curvePoints{
			precision:   precision,
			minDistance: distance * curveVertexSnapFactor,
		},
		// The curve rounds points as they are added
		li: noding.NewIntersector(planar.FloatingPrecision()),
	}
}

func (g *segmentGenerator) points() []planar.Coordinate {
	return g.curve.pts
}

func (g *segmentGenerator) initSideSegments(s1, s2 planar.Coordinate, side topo.Position) {
	g.s1 = s1
	g.s2 = s2
	g.side = side
	g.offset1 = offsetSegment(s1, s2, side, g.distance)
}

func (g *segmentGenerator) addFirstSegment() {
	g.curve.add(g.offset1.p0)
}

func (g *segmentGenerator) addLastSegment() {
	g.curve.add(g.offset1.p1)
}

// The segment p0-p1 displaced perpendicularly by distance to the given side.
func offsetSegment(p0, p1 planar.Coordinate, side topo.Position, distance float64) segment {
	sideSign := 1.0
	if side == topo.Right {
		sideSign = -1
	}
	d := p1.Vec().Sub(p0.Vec())
	normal := d.Mul(sideSign * distance / d.Norm()).Ortho()
	return segment{
		p0: planar.FromVec(p0.Vec().Add(normal)),
		p1: planar.FromVec(p1.Vec().Add(normal)),
	}
}

func (g *segmentGenerator) addNextSegment(p planar.Coordinate, addStartPoint bool) {
	g.s0 = g.s1
	g.s1 = g.s2
	g.s2 = p
	g.offset0 = offsetSegment(g.s0, g.s1, g.side, g.distance)
	g.offset1 = offsetSegment(g.s1, g.s2, g.side, g.distance)

	if g.s1.Equals(g.s2) {
		return
	}

	orientation := planar.OrientationIndex(g.s0, g.s1, g.s2)
	outsideTurn := (orientation == planar.Clockwise && g.side == topo.Left) ||
		(orientation == planar.CounterClockwise && g.side == topo.Right)

	switch {
	case orientation == planar.Collinear:
		g.addCollinear(addStartPoint)
	case outsideTurn:
		g.addOutsideTurn(orientation, addStartPoint)
	default:
		g.addInsideTurn()
	}
}

func (g *segmentGenerator) addCollinear(addStartPoint bool) {
	// Continuing straight on needs no join. Only a reversal does.
	if g.s1.Vec().Sub(g.s0.Vec()).Dot(g.s2.Vec().Sub(g.s1.Vec())) >= 0 {
		return
	}
	if g.params.JoinStyle == JoinRound {
		// The fillet goes around the far side of the vertex
		direction := planar.Clockwise
		if g.side == topo.Right {
			direction = planar.CounterClockwise
		}
		g.addCornerFillet(g.s1, g.offset0.p1, g.offset1.p0, direction, g.distance)
		return
	}
	if addStartPoint {
		g.curve.add(g.offset0.p1)
	}
	g.curve.add(g.offset1.p0)
}

func (g *segmentGenerator) addOutsideTurn(orientation int, addStartPoint bool) {
	if g.offset0.p1.Distance(g.offset1.p0) < g.distance*outsideTurnSnapFactor {
		g.curve.add(g.offset0.p1)
		return
	}

	switch g.params.JoinStyle {
	case JoinMitre:
		g.addMitreJoin(g.s1, g.offset0, g.offset1, g.distance)
	case JoinBevel:
		g.addBevelJoin(g.offset0, g.offset1)
	default:
		if addStartPoint {
			g.curve.add(g.offset0.p1)
		}
		g.addCornerFillet(g.s1, g.offset0.p1, g.offset1.p0, orientation, g.distance)
		g.curve.add(g.offset1.p0)
	}
}

// At an inside turn the two offset segments normally cross, and the crossing
// replaces both of their ends. When they do not cross (a very sharp turn
// relative to the distance), the curve detours through the input vertex. The
// detour lies inside the buffer, so it is removed by the depth computation.
func (g *segmentGenerator) addInsideTurn() {
	intersection := g.li.Compute(g.offset0.p0, g.offset0.p1, g.offset1.p0, g.offset1.p1)
	if intersection.HasIntersection() {
		g.curve.add(intersection.Points[0])
		return
	}
	if g.offset0.p1.Distance(g.offset1.p0) < g.distance*g.params.InsideTurnSnapFactor {
		g.curve.add(g.offset0.p1)
		return
	}
	g.curve.add(g.offset0.p1)
	g.curve.add(g.s1)
	g.curve.add(g.offset1.p0)
}

// A mitre join extends both offset segments to their intersection, unless
// that point is more than MitreLimit distances from the vertex.
func (g *segmentGenerator) addMitreJoin(p planar.Coordinate, offset0, offset1 segment, distance float64) {
	if pt, ok := planar.LineIntersection(offset0.p0, offset0.p1, offset1.p0, offset1.p1); ok {
		mitreRatio := 1.0
		if distance > 0 {
			mitreRatio = pt.Distance(p) / math.Abs(distance)
		}
		if mitreRatio <= g.params.MitreLimit {
			g.curve.add(pt)
			return
		}
	}
	g.addBevelJoin(offset0, offset1)
}

func (g *segmentGenerator) addBevelJoin(offset0, offset1 segment) {
	g.curve.add(offset0.p1)
	g.curve.add(offset1.p0)
}

// Adds the arc around p from p0 to p1, turning in the given orientation.
func (g *segmentGenerator) addCornerFillet(p, p0, p1 planar.Coordinate, direction int, radius float64) {
	startAngle := math.Atan2(p0.Y-p.Y, p0.X-p.X)
	endAngle := math.Atan2(p1.Y-p.Y, p1.X-p.X)

	if direction == planar.Clockwise {
		if startAngle <= endAngle {
			startAngle += 2 * math.Pi
		}
	} else if startAngle >= endAngle {
		startAngle -= 2 * math.Pi
	}

	g.curve.add(p0)
	g.addDirectedFillet(p, startAngle, endAngle, direction, radius)
	g.curve.add(p1)
}

// Adds points on the arc around p from startAngle towards endAngle. The end
// point itself is left to the caller.
func (g *segmentGenerator) addDirectedFillet(p planar.Coordinate, startAngle, endAngle float64, direction int, radius float64) {
	directionFactor := 1.0
	if direction == planar.Clockwise {
		directionFactor = -1
	}
	totalAngle := math.Abs(startAngle - endAngle)
	nSegs := int(totalAngle/g.filletAngleQuantum + 0.5)
	if nSegs < 1 {
		return
	}
	angleInc := totalAngle / float64(nSegs)
	center := p.Vec()
	for i := 0; i < nSegs; i++ {
		angle := startAngle + directionFactor*float64(i)*angleInc
		g.curve.add(planar.FromVec(center.Add(r2.Point{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(radius))))
	}
}

// Adds the cap at p1, the end of the segment p0-p1.
func (g *segmentGenerator) addLineEndCap(p0, p1 planar.Coordinate) {
	offsetL := offsetSegment(p0, p1, topo.Left, g.distance)
	offsetR := offsetSegment(p0, p1, topo.Right, g.distance)
	angle := math.Atan2(p1.Y-p0.Y, p1.X-p0.X)

	switch g.params.EndCapStyle {
	case CapRound:
		g.curve.add(offsetL.p1)
		g.addDirectedFillet(p1, angle+math.Pi/2, angle-math.Pi/2, planar.Clockwise, g.distance)
		g.curve.add(offsetR.p1)
	case CapFlat:
		g.curve.add(offsetL.p1)
		g.curve.add(offsetR.p1)
	case CapSquare:
		extension := r2.Point{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(math.Abs(g.distance))
		g.curve.add(planar.FromVec(offsetL.p1.Vec().Add(extension)))
		g.curve.add(planar.FromVec(offsetR.p1.Vec().Add(extension)))
	}
}

func (g *segmentGenerator) createCircle(p planar.Coordinate) {
	g.curve.add(planar.Coordinate{X: p.X + g.distance, Y: p.Y})
	g.addDirectedFillet(p, 0, 2*math.Pi, planar.Clockwise, g.distance)
	g.curve.closeRing()
}

func (g *segmentGenerator) createSquare(p planar.Coordinate) {
	d := g.distance
	g.curve.add(planar.Coordinate{X: p.X + d, Y: p.Y + d})
	g.curve.add(planar.Coordinate{X: p.X + d, Y: p.Y - d})
	g.curve.add(planar.Coordinate{X: p.X - d, Y: p.Y - d})
	g.curve.add(planar.Coordinate{X: p.X - d, Y: p.Y + d})
	g.curve.closeRing()
}
