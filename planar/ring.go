package planar

// Location of a point relative to a region. NoLocation is the zero value so
// that fresh labels start out unknown.
type Location int

const (
	NoLocation Location = iota
	Interior
	Boundary
	Exterior
)

func (l Location) String() string {
	switch l {
	case Interior:
		return "i"
	case Boundary:
		return "b"
	case Exterior:
		return "e"
	}
	return "-"
}

// CrossingCount counts how many ring segments a ray cast from p towards +X
// crosses, and whether p lies on the ring itself. The ring must be closed.
//
// Segments are treated as half open in Y, so a ray passing exactly through a
// vertex is counted once. Side tests use the exact orientation predicate.
func CrossingCount(p Coordinate, ring []Coordinate) (crossings int, onBoundary bool) {
	for i := 1; i < len(ring); i++ {
		p1 := ring[i-1]
		p2 := ring[i]

		// Segment strictly left of the point can't be crossed
		if p1.X < p.X && p2.X < p.X {
			continue
		}
		if p.Equals(p2) {
			return crossings, true
		}
		// Horizontal segment at the ray height
		if p1.Y == p.Y && p2.Y == p.Y {
			minX, maxX := p1.X, p2.X
			if minX > maxX {
				minX, maxX = maxX, minX
			}
			if p.X >= minX && p.X <= maxX {
				return crossings, true
			}
			continue
		}
		if (p1.Y > p.Y && p2.Y <= p.Y) || (p2.Y > p.Y && p1.Y <= p.Y) {
			orient := OrientationIndex(p1, p2, p)
			if orient == Collinear {
				return crossings, true
			}
			// Normalize to an upward segment
			if p2.Y < p1.Y {
				orient = -orient
			}
			if orient == CounterClockwise {
				crossings++
			}
		}
	}
	return crossings, false
}

// LocatePointInRing classifies p against a closed ring by the even-odd rule.
func LocatePointInRing(p Coordinate, ring []Coordinate) Location {
	crossings, onBoundary := CrossingCount(p, ring)
	if onBoundary {
		return Boundary
	}
	if crossings%2 == 1 {
		return Interior
	}
	return Exterior
}

// Points on the boundary count as inside.
func IsInRing(p Coordinate, ring []Coordinate) bool {
	return LocatePointInRing(p, ring) != Exterior
}

// Even-odd containment over a set of rings, as used for polygons with holes.
// Boundary points are reported as contained.
func ContainsPointByEvenOdd(p Coordinate, rings [][]Coordinate) bool {
	total := 0
	for _, ring := range rings {
		crossings, onBoundary := CrossingCount(p, ring)
		if onBoundary {
			return true
		}
		total += crossings
	}
	return total%2 == 1
}
