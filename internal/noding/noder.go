package noding

import (
	"github.com/osuushi/buffer/planar"
	"github.com/tidwall/rtree"
)

// Noder computes the noded substrings of a set of segment strings.
// Implementations panic with a planar.TopologyError when they cannot produce
// a consistent noding.
type Noder interface {
	Node(segStrings []*SegmentString) []*SegmentString
}

// SegmentIntersector is handed every candidate pair of segments, identified
// by their string and start vertex.
type SegmentIntersector interface {
	ProcessIntersections(e0 *SegmentString, segIndex0 int, e1 *SegmentString, segIndex1 int)
}

// chainIndex holds the monotone chains of a set of strings in an R-tree, so
// that only chains with overlapping envelopes are compared.
type chainIndex struct {
	chains []*monotoneChain
	tree   rtree.RTreeG[*monotoneChain]
}

func newChainIndex(segStrings []*SegmentString) *chainIndex {
	index := &chainIndex{}
	for _, ss := range segStrings {
		index.chains = append(index.chains, buildChains(ss, len(index.chains))...)
	}
	for _, chain := range index.chains {
		index.tree.Insert(rectMin(chain), rectMax(chain), chain)
	}
	return index
}

func rectMin(mc *monotoneChain) [2]float64 {
	return [2]float64{mc.env.X.Lo, mc.env.Y.Lo}
}

func rectMax(mc *monotoneChain) [2]float64 {
	return [2]float64{mc.env.X.Hi, mc.env.Y.Hi}
}

// Runs action over every overlapping pair of chains, each pair once.
func (index *chainIndex) intersectChains(action SegmentIntersector) {
	for _, queryChain := range index.chains {
		index.tree.Search(rectMin(queryChain), rectMax(queryChain),
			func(_, _ [2]float64, testChain *monotoneChain) bool {
				if testChain.id > queryChain.id {
					queryChain.computeOverlaps(testChain, action)
				}
				return true
			})
	}
}

// MCIndexNoder finds intersections between monotone chains and records them
// as nodes on the strings involved. It does not round, so under a fixed
// precision model SnapRounder should be used instead.
type MCIndexNoder struct {
	Intersector *Intersector
}

func NewMCIndexNoder(pm planar.PrecisionModel) *MCIndexNoder {
	return &MCIndexNoder{Intersector: NewIntersector(pm)}
}

func (n *MCIndexNoder) Node(segStrings []*SegmentString) []*SegmentString {
	adder := NewIntersectionAdder(n.Intersector)
	newChainIndex(segStrings).intersectChains(adder)
	return NodedSubstrings(segStrings)
}

// IntersectionAdder adds a node to both strings for every intersection,
// except where adjacent segments of one string meet at their shared vertex.
type IntersectionAdder struct {
	li *Intersector

	NumIntersections       int
	NumProperIntersections int
}

func NewIntersectionAdder(li *Intersector) *IntersectionAdder {
	return &IntersectionAdder{li: li}
}

func (a *IntersectionAdder) ProcessIntersections(e0 *SegmentString, segIndex0 int, e1 *SegmentString, segIndex1 int) {
	if e0 == e1 && segIndex0 == segIndex1 {
		return
	}
	intersection := a.li.Compute(e0.Pts[segIndex0], e0.Pts[segIndex0+1], e1.Pts[segIndex1], e1.Pts[segIndex1+1])
	if !intersection.HasIntersection() {
		return
	}
	if isTrivialIntersection(intersection, e0, segIndex0, e1, segIndex1) {
		return
	}
	a.NumIntersections++
	if intersection.Proper {
		a.NumProperIntersections++
	}
	e0.AddIntersections(intersection, segIndex0)
	e1.AddIntersections(intersection, segIndex1)
}

// Adjacent segments of a string always meet at their common vertex, as do the
// first and last segments of a closed string. Those meetings are not nodes.
func isTrivialIntersection(intersection Intersection, e0 *SegmentString, segIndex0 int, e1 *SegmentString, segIndex1 int) bool {
	if e0 != e1 || len(intersection.Points) != 1 {
		return false
	}
	if abs(segIndex0-segIndex1) == 1 {
		return true
	}
	if e0.IsClosed() {
		maxSegIndex := len(e0.Pts) - 2
		if (segIndex0 == 0 && segIndex1 == maxSegIndex) || (segIndex1 == 0 && segIndex0 == maxSegIndex) {
			return true
		}
	}
	return false
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
