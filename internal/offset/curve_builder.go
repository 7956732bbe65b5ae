package offset

import (
	"math"

	"github.com/osuushi/buffer/internal/topo"
	"github.com/osuushi/buffer/planar"
)

// CurveBuilder computes the raw offset curve of a single line or ring.
type CurveBuilder struct {
	Params    Params
	Precision planar.PrecisionModel
}

func NewCurveBuilder(params Params, pm planar.PrecisionModel) *CurveBuilder {
	return &CurveBuilder{Params: params, Precision: pm}
}

// Whether a line buffered by distance has no area.
func (b *CurveBuilder) IsLineOffsetEmpty(distance float64) bool {
	if distance == 0 {
		return true
	}
	return distance < 0 && !b.Params.SingleSided
}

// LineCurve returns the closed curve around a line, or a point if pts has a
// single element. It returns nil if the buffer has no area.
func (b *CurveBuilder) LineCurve(pts []planar.Coordinate, distance float64) []planar.Coordinate {
	if len(pts) == 0 || b.IsLineOffsetEmpty(distance) {
		return nil
	}
	posDistance := math.Abs(distance)
	gen := newSegmentGenerator(b.Params, b.Precision, posDistance)
	switch {
	case len(pts) == 1:
		b.pointCurve(gen, pts[0])
	case b.Params.SingleSided:
		b.singleSidedCurve(gen, pts, distance < 0)
	default:
		b.lineCurve(gen, pts)
	}
	return gen.points()
}

// RingCurve returns the offset of a closed ring on one side. A zero distance
// returns a copy of the ring, and a degenerate ring is treated as a line.
func (b *CurveBuilder) RingCurve(pts []planar.Coordinate, side topo.Position, distance float64) []planar.Coordinate {
	if len(pts) <= 2 {
		return b.LineCurve(pts, distance)
	}
	if distance == 0 {
		return append([]planar.Coordinate(nil), pts...)
	}
	gen := newSegmentGenerator(b.Params, b.Precision, distance)
	b.ringCurve(gen, pts, side)
	return gen.points()
}

func (b *CurveBuilder) simplifyTolerance(distance float64) float64 {
	return distance * b.Params.SimplifyFactor
}

func (b *CurveBuilder) pointCurve(gen *segmentGenerator, p planar.Coordinate) {
	switch b.Params.EndCapStyle {
	case CapRound:
		gen.createCircle(p)
	case CapSquare:
		gen.createSquare(p)
	}
	// A flat cap on a point has no area
}

// The left side is walked forward and the right side backward (as the left
// side of the reversed line), joined by the end caps.
func (b *CurveBuilder) lineCurve(gen *segmentGenerator, pts []planar.Coordinate) {
	tolerance := b.simplifyTolerance(gen.distance)

	forward := simplifyLine(pts, tolerance)
	n1 := len(forward) - 1
	gen.initSideSegments(forward[0], forward[1], topo.Left)
	for i := 2; i <= n1; i++ {
		gen.addNextSegment(forward[i], true)
	}
	gen.addLastSegment()
	gen.addLineEndCap(forward[n1-1], forward[n1])

	backward := simplifyLine(pts, -tolerance)
	n2 := len(backward) - 1
	gen.initSideSegments(backward[n2], backward[n2-1], topo.Left)
	for i := n2 - 2; i >= 0; i-- {
		gen.addNextSegment(backward[i], true)
	}
	gen.addLastSegment()
	gen.addLineEndCap(backward[1], backward[0])

	gen.curve.closeRing()
}

// A single-sided curve runs along the line itself and returns along the
// offset, with no caps.
func (b *CurveBuilder) singleSidedCurve(gen *segmentGenerator, pts []planar.Coordinate, rightSide bool) {
	tolerance := b.simplifyTolerance(gen.distance)

	if rightSide {
		gen.curve.addAll(pts, true)

		simplified := simplifyLine(pts, -tolerance)
		n := len(simplified) - 1
		gen.initSideSegments(simplified[n], simplified[n-1], topo.Left)
		gen.addFirstSegment()
		for i := n - 2; i >= 0; i-- {
			gen.addNextSegment(simplified[i], true)
		}
	} else {
		gen.curve.addAll(pts, false)

		simplified := simplifyLine(pts, tolerance)
		n := len(simplified) - 1
		gen.initSideSegments(simplified[0], simplified[1], topo.Left)
		gen.addFirstSegment()
		for i := 2; i <= n; i++ {
			gen.addNextSegment(simplified[i], true)
		}
	}
	gen.addLastSegment()
	gen.curve.closeRing()
}

func (b *CurveBuilder) ringCurve(gen *segmentGenerator, pts []planar.Coordinate, side topo.Position) {
	tolerance := b.simplifyTolerance(gen.distance)
	if side == topo.Right {
		tolerance = -tolerance
	}
	simplified := simplifyLine(pts, tolerance)
	n := len(simplified) - 1
	gen.initSideSegments(simplified[n-1], simplified[0], side)
	for i := 1; i <= n; i++ {
		gen.addNextSegment(simplified[i], i != 1)
	}
	gen.curve.closeRing()
}
