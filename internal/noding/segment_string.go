package noding

import (
	"sort"

	"github.com/osuushi/buffer/internal/topo"
	"github.com/osuushi/buffer/planar"
)

// SegmentString is a polyline carrying a topology label, plus the nodes found
// on it so far.
type SegmentString struct {
	Pts   []planar.Coordinate
	Label topo.Label

	nodes []segmentNode
}

func NewSegmentString(pts []planar.Coordinate, label topo.Label) *SegmentString {
	return &SegmentString{Pts: pts, Label: label}
}

func (s *SegmentString) IsClosed() bool {
	return len(s.Pts) > 1 && s.Pts[0].Equals(s.Pts[len(s.Pts)-1])
}

func (s *SegmentString) NumNodes() int {
	return len(s.nodes)
}

// A split point on a segment string. A node lies on segment SegmentIndex, or
// at its start vertex.
type segmentNode struct {
	Coord        planar.Coordinate
	SegmentIndex int
}

// AddIntersection records a node on segment i. A node at the segment's end
// vertex is stored against the following segment, so each vertex has a single
// representation.
func (s *SegmentString) AddIntersection(pt planar.Coordinate, i int) {
	if next := i + 1; next < len(s.Pts) && pt.Equals(s.Pts[next]) {
		i = next
	}
	s.addNode(pt, i)
}

func (s *SegmentString) AddIntersections(intersection Intersection, segmentIndex int) {
	for _, pt := range intersection.Points {
		s.AddIntersection(pt, segmentIndex)
	}
}

func (s *SegmentString) addNode(pt planar.Coordinate, i int) {
	for _, node := range s.nodes {
		if node.SegmentIndex == i && node.Coord.Equals(pt) {
			return
		}
	}
	s.nodes = append(s.nodes, segmentNode{Coord: pt, SegmentIndex: i})
}

func (s *SegmentString) isInteriorNode(node segmentNode) bool {
	return !node.Coord.Equals(s.Pts[node.SegmentIndex])
}

// Nodes are ordered along the string: by segment, then by distance from the
// segment's start.
func (s *SegmentString) sortNodes() {
	sort.SliceStable(s.nodes, func(i, j int) bool {
		a, b := s.nodes[i], s.nodes[j]
		if a.SegmentIndex != b.SegmentIndex {
			return a.SegmentIndex < b.SegmentIndex
		}
		start := s.Pts[a.SegmentIndex]
		da := start.Distance(a.Coord)
		db := start.Distance(b.Coord)
		if da != db {
			return da < db
		}
		return a.Coord.Compare(b.Coord) < 0
	})
}

// A vertex whose neighbours coincide (A-B-A) is a collapse, and the string must
// be split there so that each half can be matched with its twin.
func (s *SegmentString) addCollapsedNodes() {
	for i := 0; i+2 < len(s.Pts); i++ {
		if s.Pts[i].Equals(s.Pts[i+2]) {
			s.addNode(s.Pts[i+1], i+1)
		}
	}

	// Collapses created by nodes: two equal nodes with one vertex between
	s.sortNodes()
	for i := 1; i < len(s.nodes); i++ {
		n0, n1 := s.nodes[i-1], s.nodes[i]
		if !n0.Coord.Equals(n1.Coord) {
			continue
		}
		between := n1.SegmentIndex - n0.SegmentIndex
		if !s.isInteriorNode(n1) {
			between--
		}
		if between == 1 {
			s.addNode(s.Pts[n0.SegmentIndex+1], n0.SegmentIndex+1)
		}
	}
}

// SplitEdges returns the substrings between consecutive nodes, including the
// string's endpoints.
func (s *SegmentString) SplitEdges() []*SegmentString {
	if len(s.Pts) == 0 {
		return nil
	}
	s.addNode(s.Pts[0], 0)
	s.addNode(s.Pts[len(s.Pts)-1], len(s.Pts)-1)
	s.addCollapsedNodes()
	s.sortNodes()

	var result []*SegmentString
	for i := 1; i < len(s.nodes); i++ {
		result = append(result, s.createSplitEdge(s.nodes[i-1], s.nodes[i]))
	}
	return result
}

func (s *SegmentString) createSplitEdge(n0, n1 segmentNode) *SegmentString {
	pts := []planar.Coordinate{n0.Coord}
	for i := n0.SegmentIndex + 1; i <= n1.SegmentIndex; i++ {
		pts = append(pts, s.Pts[i])
	}
	// The end node is a new point unless it sits on the last vertex copied
	if s.isInteriorNode(n1) {
		pts = append(pts, n1.Coord)
	}
	return NewSegmentString(pts, s.Label)
}

// NodedSubstrings splits every string at its nodes.
func NodedSubstrings(segStrings []*SegmentString) []*SegmentString {
	var result []*SegmentString
	for _, s := range segStrings {
		result = append(result, s.SplitEdges()...)
	}
	return result
}
