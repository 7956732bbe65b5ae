package offset

import (
	"math"

	"github.com/osuushi/buffer/planar"
)

// Number of original vertices sampled when checking that a concavity is
// shallow along its whole run
const shallowSamples = 10

// Removes vertices forming shallow concavities on the side being buffered, so
// that tiny inward wiggles do not produce swarms of inside-turn segments which
// the noder would have to resolve. A concavity is shallow if it is within
// |tolerance| of the chord that replaces it. Positive tolerances simplify
// concavities that turn counter-clockwise (the left side); negative ones those
// that turn clockwise. The first and last vertices are always kept.
type lineSimplifier struct {
	pts              []planar.Coordinate
	tolerance        float64
	angleOrientation int
	deleted          []bool
}

func simplifyLine(pts []planar.Coordinate, tolerance float64) []planar.Coordinate {
	s := &lineSimplifier{
		pts:              pts,
		tolerance:        math.Abs(tolerance),
		angleOrientation: planar.CounterClockwise,
		deleted:          make([]bool, len(pts)),
	}
	if tolerance < 0 {
		s.angleOrientation = planar.Clockwise
	}
	if s.tolerance == 0 {
		return pts
	}
	for s.deleteShallowConcavities() {
	}
	return s.collapse()
}

// Makes one pass over the line, reporting whether anything was deleted.
func (s *lineSimplifier) deleteShallowConcavities() bool {
	index := 0
	midIndex := s.nextIndex(index)
	lastIndex := s.nextIndex(midIndex)

	changed := false
	for lastIndex < len(s.pts) {
		if s.isDeletable(index, midIndex, lastIndex) {
			s.deleted[midIndex] = true
			changed = true
			index = lastIndex
		} else {
			index = midIndex
		}
		midIndex = s.nextIndex(index)
		lastIndex = s.nextIndex(midIndex)
	}
	return changed
}

func (s *lineSimplifier) nextIndex(index int) int {
	next := index + 1
	for next < len(s.pts) && s.deleted[next] {
		next++
	}
	return next
}

func (s *lineSimplifier) isDeletable(i0, i1, i2 int) bool {
	p0, p1, p2 := s.pts[i0], s.pts[i1], s.pts[i2]
	if planar.OrientationIndex(p0, p1, p2) != s.angleOrientation {
		return false
	}
	if !s.isShallow(p0, p1, p2) {
		return false
	}
	return s.isShallowSampled(p0, p2, i0, i2)
}

func (s *lineSimplifier) isShallow(p0, p1, p2 planar.Coordinate) bool {
	return planar.DistancePointSegment(p1, p0, p2) < s.tolerance
}

// Checks a sample of the original vertices between i0 and i2, including
// already deleted ones, against the chord p0-p2.
func (s *lineSimplifier) isShallowSampled(p0, p2 planar.Coordinate, i0, i2 int) bool {
	inc := (i2 - i0) / shallowSamples
	if inc <= 0 {
		inc = 1
	}
	for i := i0; i < i2; i += inc {
		if !s.isShallow(p0, s.pts[i], p2) {
			return false
		}
	}
	return true
}

func (s *lineSimplifier) collapse() []planar.Coordinate {
	result := make([]planar.Coordinate, 0, len(s.pts))
	for i, pt := range s.pts {
		if !s.deleted[i] {
			result = append(result, pt)
		}
	}
	return result
}
