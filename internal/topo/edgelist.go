package topo

import "github.com/osuushi/buffer/planar"

// Edges are looked up by their endpoints in a canonical direction, so an edge
// and its reverse share a key. Candidates are then compared point by point.
type edgeKey struct {
	first, last planar.Coordinate
	n           int
}

func canonicalKey(pts []planar.Coordinate) edgeKey {
	n := len(pts)
	if increasingDirection(pts) {
		return edgeKey{pts[0], pts[n-1], n}
	}
	return edgeKey{pts[n-1], pts[0], n}
}

// Whether the points read "smaller" forwards than backwards. Palindromic
// sequences count as increasing.
func increasingDirection(pts []planar.Coordinate) bool {
	for i := 0; i < len(pts)/2; i++ {
		j := len(pts) - 1 - i
		if c := pts[i].Compare(pts[j]); c != 0 {
			return c < 0
		}
	}
	return true
}

// EdgeList collects unique edges. Inserting an edge equal to one already in
// the list merges it into the existing edge instead.
type EdgeList struct {
	edges []Edge
	index map[edgeKey][]int
}

func NewEdgeList() *EdgeList {
	return &EdgeList{index: make(map[edgeKey][]int)}
}

func (l *EdgeList) Edges() []Edge {
	return l.edges
}

func (l *EdgeList) Len() int {
	return len(l.edges)
}

func (l *EdgeList) FindEqualEdge(e *Edge) (int, bool) {
	for _, i := range l.index[canonicalKey(e.Pts)] {
		if l.edges[i].Equals(e) {
			return i, true
		}
	}
	return 0, false
}

// InsertUnique adds the edge, or merges it into an equal edge. Merging flips
// the new label if the edge runs the other way, fills in unknown locations,
// and adds the depth deltas so that coincident curves cancel or reinforce.
func (l *EdgeList) InsertUnique(pts []planar.Coordinate, label Label) {
	e := Edge{Pts: pts, Label: label}
	if i, ok := l.FindEqualEdge(&e); ok {
		existing := &l.edges[i]
		labelToMerge := label
		if !existing.IsPointwiseEqual(&e) {
			labelToMerge = label.Flipped()
		}
		existing.Label.Merge(labelToMerge)
		existing.DepthDelta += labelToMerge.DepthDelta()
		return
	}
	e.DepthDelta = label.DepthDelta()
	key := canonicalKey(pts)
	l.index[key] = append(l.index[key], len(l.edges))
	l.edges = append(l.edges, e)
}
