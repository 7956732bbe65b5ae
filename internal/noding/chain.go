package noding

import (
	"github.com/golang/geo/r2"
	"github.com/osuushi/buffer/internal/topo"
	"github.com/osuushi/buffer/planar"
)

// A monotone chain is a run of segments whose directions all lie in the same
// quadrant. Such a run cannot intersect itself, and the envelope of any
// sub-run is the envelope of its end points, which makes overlap searches
// between two chains a simple binary subdivision.
type monotoneChain struct {
	ss         *SegmentString
	start, end int // vertex indices
	env        r2.Rect
	id         int
}

func quadrantOf(p0, p1 planar.Coordinate) int {
	return topo.Quadrant(p1.X-p0.X, p1.Y-p0.Y)
}

// Index of the last vertex of the chain starting at start.
func findChainEnd(pts []planar.Coordinate, start int) int {
	// Skip zero length segments, which have no quadrant
	safeStart := start
	for safeStart < len(pts)-1 && pts[safeStart].Equals(pts[safeStart+1]) {
		safeStart++
	}
	if safeStart >= len(pts)-1 {
		return len(pts) - 1
	}
	chainQuad := quadrantOf(pts[safeStart], pts[safeStart+1])
	last := start + 1
	for last < len(pts) {
		if !pts[last-1].Equals(pts[last]) {
			if quadrantOf(pts[last-1], pts[last]) != chainQuad {
				break
			}
		}
		last++
	}
	return last - 1
}

// Splits a segment string into monotone chains. Chain ids start at nextID.
func buildChains(ss *SegmentString, nextID int) []*monotoneChain {
	var chains []*monotoneChain
	if len(ss.Pts) < 2 {
		return nil
	}
	start := 0
	for start < len(ss.Pts)-1 {
		end := findChainEnd(ss.Pts, start)
		chains = append(chains, &monotoneChain{
			ss:    ss,
			start: start,
			end:   end,
			env:   planar.Envelope(ss.Pts[start : end+1]),
			id:    nextID + len(chains),
		})
		start = end
	}
	return chains
}

// Calls action for every pair of segments, one from each chain, whose
// envelopes overlap.
func (mc *monotoneChain) computeOverlaps(other *monotoneChain, action SegmentIntersector) {
	mc.computeOverlapsRange(mc.start, mc.end, other, other.start, other.end, action)
}

func (mc *monotoneChain) computeOverlapsRange(start0, end0 int, other *monotoneChain, start1, end1 int, action SegmentIntersector) {
	// Terminating condition, a single segment each
	if end0-start0 == 1 && end1-start1 == 1 {
		action.ProcessIntersections(mc.ss, start0, other.ss, start1)
		return
	}
	env0 := planar.SegmentEnvelope(mc.ss.Pts[start0], mc.ss.Pts[end0])
	env1 := planar.SegmentEnvelope(other.ss.Pts[start1], other.ss.Pts[end1])
	if !env0.Intersects(env1) {
		return
	}

	mid0 := (start0 + end0) / 2
	mid1 := (start1 + end1) / 2
	if start0 < mid0 {
		if start1 < mid1 {
			mc.computeOverlapsRange(start0, mid0, other, start1, mid1, action)
		}
		if mid1 < end1 {
			mc.computeOverlapsRange(start0, mid0, other, mid1, end1, action)
		}
	}
	if mid0 < end0 {
		if start1 < mid1 {
			mc.computeOverlapsRange(mid0, end0, other, start1, mid1, action)
		}
		if mid1 < end1 {
			mc.computeOverlapsRange(mid0, end0, other, mid1, end1, action)
		}
	}
}
