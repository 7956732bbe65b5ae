package planar

import (
	"math"
	"math/big"

	"github.com/golang/geo/r2"
)

const (
	Clockwise        = -1
	Collinear        = 0
	CounterClockwise = 1
)

// Relative error bound for the floating point determinant. Results inside the
// bound are recomputed exactly.
const orientationFilterEpsilon = 1e-15

// OrientationIndex reports which side of the directed line p1->p2 the point q
// lies on: CounterClockwise for the left, Clockwise for the right and
// Collinear when it is on the line. The answer is exact.
func OrientationIndex(p1, p2, q Coordinate) int {
	if index, ok := orientationIndexFilter(p1, p2, q); ok {
		return index
	}
	return orientationIndexExact(p1, p2, q)
}

// Fast path. Only returns ok when the sign of the determinant is certain.
func orientationIndexFilter(pa, pb, pc Coordinate) (int, bool) {
	detLeft := (pa.X - pc.X) * (pb.Y - pc.Y)
	detRight := (pa.Y - pc.Y) * (pb.X - pc.X)
	det := detLeft - detRight

	var detSum float64
	switch {
	case detLeft > 0:
		if detRight <= 0 {
			return signum(det), true
		}
		detSum = detLeft + detRight
	case detLeft < 0:
		if detRight >= 0 {
			return signum(det), true
		}
		detSum = -detLeft - detRight
	default:
		return signum(det), true
	}

	errBound := orientationFilterEpsilon * detSum
	if det >= errBound || -det >= errBound {
		return signum(det), true
	}
	return 0, false
}

// Float64 values convert to rationals without loss, so this is the true sign.
func orientationIndexExact(p1, p2, q Coordinate) int {
	rat := func(v float64) *big.Rat {
		return new(big.Rat).SetFloat64(v)
	}
	dx1 := new(big.Rat).Sub(rat(p2.X), rat(p1.X))
	dy1 := new(big.Rat).Sub(rat(p2.Y), rat(p1.Y))
	dx2 := new(big.Rat).Sub(rat(q.X), rat(p2.X))
	dy2 := new(big.Rat).Sub(rat(q.Y), rat(p2.Y))

	left := new(big.Rat).Mul(dx1, dy2)
	right := new(big.Rat).Mul(dy1, dx2)
	return left.Cmp(right)
}

func signum(v float64) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// IsCCW reports whether a closed ring is counterclockwise. It looks at the
// highest point of the ring, which is robust even when the ring contains
// collapsed spikes or repeated points. Rings with fewer than three distinct
// points are reported as not CCW.
func IsCCW(ring []Coordinate) bool {
	nPts := len(ring) - 1
	if nPts < 3 {
		return false
	}

	// Find the highest point, taking the first one found on ties
	hiIndex := 0
	for i := 1; i <= nPts; i++ {
		if ring[i].Y > ring[hiIndex].Y {
			hiIndex = i
		}
	}
	hiPt := ring[hiIndex]

	// Find distinct point before highest point
	prev := hiIndex
	for {
		prev--
		if prev < 0 {
			prev = nPts
		}
		if !ring[prev].Equals(hiPt) || prev == hiIndex {
			break
		}
	}

	// Find distinct point after highest point
	next := hiIndex
	for {
		next = (next + 1) % nPts
		if !ring[next].Equals(hiPt) || next == hiIndex {
			break
		}
	}
	prevPt := ring[prev]
	nextPt := ring[next]

	// Flat or collapsed rings have no orientation
	if prevPt.Equals(hiPt) || nextPt.Equals(hiPt) || prevPt.Equals(nextPt) {
		return false
	}

	disc := OrientationIndex(prevPt, hiPt, nextPt)
	if disc == Collinear {
		// The highest point lies on a horizontal run. The ring is CCW if the
		// run is traversed towards -X.
		return prevPt.X > nextPt.X
	}
	return disc == CounterClockwise
}

// SignedArea uses the shoelace formula, relative to the first vertex to limit
// cancellation. The ring must be closed. Counterclockwise rings are positive.
func SignedArea(ring []Coordinate) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	x0 := ring[0].X
	for i := 1; i < len(ring)-1; i++ {
		x := ring[i].X - x0
		sum += x * (ring[i+1].Y - ring[i-1].Y)
	}
	return sum / 2
}

// DistancePointSegment is the Euclidean distance from p to the segment a-b.
func DistancePointSegment(p, a, b Coordinate) float64 {
	if a.Equals(b) {
		return p.Distance(a)
	}
	ab := b.Vec().Sub(a.Vec())
	ap := p.Vec().Sub(a.Vec())
	t := ap.Dot(ab) / ab.Dot(ab)
	switch {
	case t <= 0:
		return p.Distance(a)
	case t >= 1:
		return p.Distance(b)
	}
	closest := a.Vec().Add(ab.Mul(t))
	return closest.Sub(p.Vec()).Norm()
}

// LineIntersection intersects the infinite lines through p1-p2 and q1-q2. It
// fails when the lines are parallel or the result overflows.
func LineIntersection(p1, p2, q1, q2 Coordinate) (Coordinate, bool) {
	// Translate towards the origin to reduce cancellation
	origin := r2.Point{X: (p1.X + p2.X + q1.X + q2.X) / 4, Y: (p1.Y + p2.Y + q1.Y + q2.Y) / 4}
	a1 := p1.Vec().Sub(origin)
	a2 := p2.Vec().Sub(origin)
	b1 := q1.Vec().Sub(origin)
	b2 := q2.Vec().Sub(origin)

	da := a2.Sub(a1)
	db := b2.Sub(b1)
	denom := da.Cross(db)
	if denom == 0 {
		return Coordinate{}, false
	}
	t := b1.Sub(a1).Cross(db) / denom
	result := a1.Add(da.Mul(t)).Add(origin)
	if math.IsNaN(result.X) || math.IsNaN(result.Y) || math.IsInf(result.X, 0) || math.IsInf(result.Y, 0) {
		return Coordinate{}, false
	}
	return FromVec(result), true
}
