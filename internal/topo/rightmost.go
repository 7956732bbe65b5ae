package topo

import "github.com/osuushi/buffer/planar"

// Finds the directed edge of a subgraph incident on its rightmost coordinate,
// oriented so that the exterior of the subgraph lies on its right.
type rightmostEdgeFinder struct {
	graph    *Graph
	minDe    int
	minIndex int
	minCoord *planar.Coordinate
}

func (s *Subgraph) findRightmostEdge() {
	finder := &rightmostEdgeFinder{graph: s.graph, minDe: None, minIndex: -1}
	s.rightmostEdge = finder.findEdge(s.DirEdges)
	s.Rightmost = *finder.minCoord
}

func (f *rightmostEdgeFinder) findEdge(dirEdges []int) int {
	// Only forward edges are checked, since every edge has one
	for _, de := range dirEdges {
		if !IsForward(de) {
			continue
		}
		f.checkForRightmostCoordinate(de)
	}
	if f.minCoord == nil {
		planar.Fatalf("subgraph has no edges")
	}

	// If the rightmost point is a node, choose among the node's edges,
	// otherwise it is an interior vertex of the edge found.
	if f.minIndex == 0 {
		f.findRightmostEdgeAtNode()
	} else {
		f.findRightmostEdgeAtVertex()
	}

	orientedDe := f.minDe
	if f.rightmostSide(f.minDe, f.minIndex) == Left {
		orientedDe = Sym(f.minDe)
	}
	return orientedDe
}

func (f *rightmostEdgeFinder) findRightmostEdgeAtNode() {
	g := f.graph
	node := g.DirEdges[f.minDe].Node
	f.minDe = g.rightmostEdgeAtNode(node)
	// The finder works on the forward direction of edges
	if !IsForward(f.minDe) {
		f.minDe = Sym(f.minDe)
		f.minIndex = len(g.Edge(f.minDe).Pts) - 1
	}
}

func (f *rightmostEdgeFinder) findRightmostEdgeAtVertex() {
	pts := f.graph.Edge(f.minDe).Pts
	if f.minIndex <= 0 || f.minIndex >= len(pts)-1 {
		planar.Fatalf("rightmost point expected to be an interior vertex of the edge")
	}
	minCoord := *f.minCoord
	pPrev := pts[f.minIndex-1]
	pNext := pts[f.minIndex+1]
	orientation := planar.OrientationIndex(minCoord, pNext, pPrev)
	usePrev := false
	if pPrev.Y < minCoord.Y && pNext.Y < minCoord.Y && orientation == planar.CounterClockwise {
		// Both segments are below the vertex
		usePrev = true
	} else if pPrev.Y > minCoord.Y && pNext.Y > minCoord.Y && orientation == planar.Clockwise {
		// Both segments are above the vertex
		usePrev = true
	}
	if usePrev {
		f.minIndex--
	}
}

func (f *rightmostEdgeFinder) checkForRightmostCoordinate(de int) {
	pts := f.graph.Edge(de).Pts
	// Only the start of each segment is checked, the end is the next start
	for i := 0; i < len(pts)-1; i++ {
		if f.minCoord == nil || pts[i].X > f.minCoord.X {
			f.minDe = de
			f.minIndex = i
			c := pts[i]
			f.minCoord = &c
		}
	}
}

func (f *rightmostEdgeFinder) rightmostSide(de, index int) Position {
	side, ok := f.rightmostSideOfSegment(de, index)
	if !ok {
		side, ok = f.rightmostSideOfSegment(de, index-1)
	}
	if !ok {
		// Both candidate segments are horizontal
		f.minCoord = nil
		f.checkForRightmostCoordinate(de)
		return On
	}
	return side
}

// The side of an upward segment that faces right. Fails for horizontal
// segments and out of range indices.
func (f *rightmostEdgeFinder) rightmostSideOfSegment(de, i int) (Position, bool) {
	pts := f.graph.Edge(de).Pts
	if i < 0 || i+1 >= len(pts) {
		return On, false
	}
	if pts[i].Y == pts[i+1].Y {
		return On, false
	}
	if pts[i].Y < pts[i+1].Y {
		return Right, true
	}
	return Left, true
}

// The outgoing edge at a node which lies furthest right, avoiding horizontal
// edges when the star spans both hemispheres.
func (g *Graph) rightmostEdgeAtNode(node int) int {
	edges := g.Nodes[node].Edges
	if len(edges) == 0 {
		planar.FatalfAt(g.Nodes[node].Coord, "node has no edges")
	}
	de0 := edges[0]
	if len(edges) == 1 {
		return de0
	}
	deLast := edges[len(edges)-1]
	quad0 := g.DirEdges[de0].Quadrant
	quad1 := g.DirEdges[deLast].Quadrant
	switch {
	case IsNorthern(quad0) && IsNorthern(quad1):
		return de0
	case !IsNorthern(quad0) && !IsNorthern(quad1):
		return deLast
	case g.DirEdges[de0].Dy != 0:
		return de0
	case g.DirEdges[deLast].Dy != 0:
		return deLast
	}
	planar.FatalfAt(g.Nodes[node].Coord, "found two horizontal edges incident on node")
	return None
}
