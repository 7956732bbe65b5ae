// Package planar holds the value types and predicates shared by every stage of
// the buffer pipeline: coordinates, envelopes, the robust orientation test, the
// precision model and the topology error used to abort a computation.
package planar

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Coordinate is an immutable 2D position. Equality is exact; use Distance or
// the precision model when approximate comparisons are needed.
type Coordinate struct {
	X float64
	Y float64
}

func (c Coordinate) Equals(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

func (c Coordinate) Distance(other Coordinate) float64 {
	return math.Hypot(c.X-other.X, c.Y-other.Y)
}

// Lexicographic comparison, X first and then Y. Returns -1, 0 or 1.
func (c Coordinate) Compare(other Coordinate) int {
	switch {
	case c.X < other.X:
		return -1
	case c.X > other.X:
		return 1
	case c.Y < other.Y:
		return -1
	case c.Y > other.Y:
		return 1
	}
	return 0
}

func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

// Vec converts the coordinate to an r2 vector, which carries the arithmetic we
// need for offsetting (normals, scaling, dot and cross products).
func (c Coordinate) Vec() r2.Point {
	return r2.Point{X: c.X, Y: c.Y}
}

func FromVec(p r2.Point) Coordinate {
	return Coordinate{X: p.X, Y: p.Y}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%g %g)", c.X, c.Y)
}

// Envelope of a coordinate sequence. An empty sequence gives an empty rect.
func Envelope(pts []Coordinate) r2.Rect {
	env := r2.EmptyRect()
	for _, p := range pts {
		env = env.AddPoint(p.Vec())
	}
	return env
}

// Envelope of the segment p0-p1.
func SegmentEnvelope(p0, p1 Coordinate) r2.Rect {
	return r2.RectFromPoints(p0.Vec(), p1.Vec())
}

// Removes consecutive duplicates. The result shares no storage with pts.
func RemoveRepeatedPoints(pts []Coordinate) []Coordinate {
	result := make([]Coordinate, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p.Equals(result[len(result)-1]) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// A sequence is a ring if it has at least four points and is closed.
func IsRing(pts []Coordinate) bool {
	if len(pts) < 4 {
		return false
	}
	return pts[0].Equals(pts[len(pts)-1])
}

func Reverse(pts []Coordinate) []Coordinate {
	result := make([]Coordinate, len(pts))
	for i, p := range pts {
		result[len(pts)-1-i] = p
	}
	return result
}
