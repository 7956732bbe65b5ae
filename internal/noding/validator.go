package noding

import "github.com/osuushi/buffer/planar"

// ValidateNoding checks that noded strings meet only at their endpoints, and
// panics with a topology error at the first other intersection it finds.
// Strings with identical coordinates are coincident edges, which may share
// every point.
func ValidateNoding(segStrings []*SegmentString, pm planar.PrecisionModel) {
	validator := &nodingValidator{li: NewIntersector(pm)}
	newChainIndex(segStrings).intersectChains(validator)
}

type nodingValidator struct {
	li *Intersector
}

func (v *nodingValidator) ProcessIntersections(e0 *SegmentString, segIndex0 int, e1 *SegmentString, segIndex1 int) {
	if e0 == e1 && segIndex0 == segIndex1 {
		return
	}
	p0, p1 := e0.Pts[segIndex0], e0.Pts[segIndex0+1]
	q0, q1 := e1.Pts[segIndex1], e1.Pts[segIndex1+1]
	intersection := v.li.Compute(p0, p1, q0, q1)
	if !intersection.HasIntersection() {
		return
	}
	// Rounding the reported point could hide a true crossing, so properness
	// is decided from the exact side tests.
	if intersection.Proper || intersection.IsInterior() {
		planar.FatalfAt(intersection.Points[0], "found non-noded intersection between %s-%s and %s-%s", p0, p1, q0, q1)
	}
	if isTrivialIntersection(intersection, e0, segIndex0, e1, segIndex1) {
		return
	}
	for _, pt := range intersection.Points {
		if !isInteriorVertex(e0, segIndex0, pt) && !isInteriorVertex(e1, segIndex1, pt) {
			continue
		}
		if e0 != e1 && isCoincident(e0.Pts, e1.Pts) {
			return
		}
		planar.FatalfAt(pt, "found non-noded vertex shared by %s-%s and %s-%s", p0, p1, q0, q1)
	}
}

// Whether pt is an end of segment i which is not an end of the whole string.
func isInteriorVertex(ss *SegmentString, i int, pt planar.Coordinate) bool {
	last := len(ss.Pts) - 1
	for _, vertex := range []int{i, i + 1} {
		if vertex > 0 && vertex < last && ss.Pts[vertex].Equals(pt) {
			return true
		}
	}
	return false
}

// Whether two strings have the same points, in either direction.
func isCoincident(a, b []planar.Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	forward, backward := true, true
	for i := range a {
		forward = forward && a[i].Equals(b[i])
		backward = backward && a[i].Equals(b[len(b)-1-i])
	}
	return forward || backward
}
