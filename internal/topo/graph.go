package topo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/buffer/planar"
)

const (
	NorthEast = iota
	NorthWest
	SouthWest
	SouthEast
)

// The quadrant of a direction vector. Quadrants are numbered counterclockwise
// from the positive X axis, which is the order edges are sorted in around a
// node.
func Quadrant(dx, dy float64) int {
	if dx == 0 && dy == 0 {
		planar.Fatalf("cannot compute the quadrant of a zero length vector")
	}
	if dx >= 0 {
		if dy >= 0 {
			return NorthEast
		}
		return SouthEast
	}
	if dy >= 0 {
		return NorthWest
	}
	return SouthWest
}

func IsNorthern(quadrant int) bool {
	return quadrant == NorthEast || quadrant == NorthWest
}

// Depths start unassigned, so conflicting assignments can be detected.
const NullDepth = -999

// No directed edge.
const None = -1

type Edge struct {
	Pts        []planar.Coordinate
	Label      Label
	DepthDelta int
}

// Edges are equal when they have the same coordinates in either direction.
func (e *Edge) Equals(other *Edge) bool {
	if len(e.Pts) != len(other.Pts) {
		return false
	}
	forward, reverse := true, true
	n := len(e.Pts)
	for i := range e.Pts {
		if !e.Pts[i].Equals(other.Pts[i]) {
			forward = false
		}
		if !e.Pts[i].Equals(other.Pts[n-1-i]) {
			reverse = false
		}
		if !forward && !reverse {
			return false
		}
	}
	return true
}

func (e *Edge) IsPointwiseEqual(other *Edge) bool {
	if len(e.Pts) != len(other.Pts) {
		return false
	}
	for i := range e.Pts {
		if !e.Pts[i].Equals(other.Pts[i]) {
			return false
		}
	}
	return true
}

// DirectedEdge is one traversal direction of an edge. The zero value is not
// usable; directed edges are created by Graph.AddEdges.
type DirectedEdge struct {
	Node int // start node
	// First segment, used for angular ordering at the start node
	P0, P1   planar.Coordinate
	Dx, Dy   float64
	Quadrant int
	Label    Label

	Depth    [3]int
	Visited  bool
	InResult bool
	// Result ring linking, as indices into Graph.DirEdges
	Next    int
	NextMin int

	EdgeRing    *EdgeRing
	MinEdgeRing *EdgeRing
}

func Sym(de int) int { return de ^ 1 }

func EdgeOf(de int) int { return de >> 1 }

func IsForward(de int) bool { return de&1 == 0 }

type Node struct {
	Coord planar.Coordinate
	// Outgoing directed edges, sorted counterclockwise from the positive X axis
	Edges   []int
	Visited bool
}

type Graph struct {
	Edges    []Edge
	DirEdges []DirectedEdge
	Nodes    []Node

	nodeIndex map[planar.Coordinate]int
}

func NewGraph() *Graph {
	return &Graph{nodeIndex: make(map[planar.Coordinate]int)}
}

// AddEdges adds each edge along with both of its directed edges, creating
// nodes as needed, then sorts every node's star.
func (g *Graph) AddEdges(edges []Edge) {
	for _, edge := range edges {
		g.Edges = append(g.Edges, edge)
		n := len(edge.Pts)
		if n < 2 {
			planar.Fatalf("edge with fewer than two points")
		}
		g.addDirectedEdge(edge.Pts[0], edge.Pts[1], edge.Label)
		g.addDirectedEdge(edge.Pts[n-1], edge.Pts[n-2], edge.Label.Flipped())
	}
	for i := range g.Nodes {
		g.sortStar(i)
	}
}

func (g *Graph) addDirectedEdge(p0, p1 planar.Coordinate, label Label) {
	de := len(g.DirEdges)
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	node := g.addNode(p0)
	g.DirEdges = append(g.DirEdges, DirectedEdge{
		Node:     node,
		P0:       p0,
		P1:       p1,
		Dx:       dx,
		Dy:       dy,
		Quadrant: Quadrant(dx, dy),
		Label:    label,
		Depth:    [3]int{0, NullDepth, NullDepth},
		Next:     None,
		NextMin:  None,
	})
	g.Nodes[node].Edges = append(g.Nodes[node].Edges, de)
}

func (g *Graph) addNode(c planar.Coordinate) int {
	if i, ok := g.nodeIndex[c]; ok {
		return i
	}
	i := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{Coord: c})
	g.nodeIndex[c] = i
	return i
}

// CompareDirection orders two directed edges leaving the same node by angle,
// counterclockwise from the positive X axis.
func (g *Graph) CompareDirection(a, b int) int {
	ea := &g.DirEdges[a]
	eb := &g.DirEdges[b]
	if ea.Dx == eb.Dx && ea.Dy == eb.Dy {
		return 0
	}
	if ea.Quadrant > eb.Quadrant {
		return 1
	}
	if ea.Quadrant < eb.Quadrant {
		return -1
	}
	return planar.OrientationIndex(eb.P0, eb.P1, ea.P1)
}

func (g *Graph) sortStar(node int) {
	edges := g.Nodes[node].Edges
	sort.SliceStable(edges, func(i, j int) bool {
		return g.CompareDirection(edges[i], edges[j]) < 0
	})
}

// Edge returns the edge underlying a directed edge.
func (g *Graph) Edge(de int) *Edge {
	return &g.Edges[EdgeOf(de)]
}

// Points of a directed edge in traversal order.
func (g *Graph) Points(de int) []planar.Coordinate {
	pts := g.Edge(de).Pts
	if IsForward(de) {
		return pts
	}
	return planar.Reverse(pts)
}

// SetDepth assigns a side depth, failing if a different depth was already
// assigned.
func (g *Graph) SetDepth(de int, pos Position, depth int) {
	d := &g.DirEdges[de]
	if d.Depth[pos] != NullDepth && d.Depth[pos] != depth {
		planar.FatalfAt(d.P0, "assigned depths do not match")
	}
	d.Depth[pos] = depth
}

// SetEdgeDepths sets the depth on one side and derives the other side from
// the edge's depth delta.
func (g *Graph) SetEdgeDepths(de int, pos Position, depth int) {
	depthDelta := g.Edge(de).DepthDelta
	if !IsForward(de) {
		depthDelta = -depthDelta
	}
	directionFactor := 1
	if pos == Left {
		directionFactor = -1
	}
	oppositeDepth := depth + depthDelta*directionFactor
	g.SetDepth(de, pos, depth)
	g.SetDepth(de, pos.Opposite(), oppositeDepth)
}

// The opposite direction sees the same depths, with sides swapped.
func (g *Graph) CopySymDepths(de int) {
	sym := Sym(de)
	g.SetDepth(sym, Left, g.DirEdges[de].Depth[Right])
	g.SetDepth(sym, Right, g.DirEdges[de].Depth[Left])
}

// Result edges are set on exactly one side of the buffer boundary: depth 1 or
// more on the right and 0 or less on the left.
func (g *Graph) IsResultCandidate(de int) bool {
	d := &g.DirEdges[de]
	return d.Depth[Right] >= 1 && d.Depth[Left] <= 0 && !d.Label.IsInteriorAreaEdge()
}

func (g *Graph) DirEdgeString(de int) string {
	d := &g.DirEdges[de]
	text := fmt.Sprintf("de%d %s->%s L%d R%d %s", de, d.P0, d.P1, d.Depth[Left], d.Depth[Right], d.Label)
	if d.InResult {
		return aurora.Green(text).String()
	}
	return aurora.Faint(text).String()
}

func (g *Graph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "graph: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
	for i, node := range g.Nodes {
		fmt.Fprintf(&sb, "  node %d %s\n", i, node.Coord)
		for _, de := range node.Edges {
			fmt.Fprintf(&sb, "    %s\n", g.DirEdgeString(de))
		}
	}
	return sb.String()
}
