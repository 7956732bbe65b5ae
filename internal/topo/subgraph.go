package topo

import (
	"sort"

	"github.com/golang/geo/r2"
	"github.com/osuushi/buffer/planar"
)

// Subgraph is a connected component of the buffer graph. Depths are assigned
// per subgraph, starting from the edge at its rightmost point, where the
// outside depth is known from the subgraphs already processed.
type Subgraph struct {
	graph    *Graph
	DirEdges []int
	Nodes    []int

	Rightmost     planar.Coordinate
	rightmostEdge int
	env           r2.Rect
	envComputed   bool
}

// BuildSubgraphs partitions the graph into connected subgraphs, sorted so that
// the subgraph with the rightmost point comes first. Nodes are visited in
// coordinate order so the partition does not depend on insertion order.
func BuildSubgraphs(g *Graph) []*Subgraph {
	order := make([]int, len(g.Nodes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return g.Nodes[order[i]].Coord.Compare(g.Nodes[order[j]].Coord) < 0
	})

	var subgraphs []*Subgraph
	for _, node := range order {
		if g.Nodes[node].Visited {
			continue
		}
		subgraph := &Subgraph{graph: g}
		subgraph.create(node)
		subgraphs = append(subgraphs, subgraph)
	}

	// Descending by rightmost coordinate, X then Y
	sort.SliceStable(subgraphs, func(i, j int) bool {
		return subgraphs[i].Rightmost.Compare(subgraphs[j].Rightmost) > 0
	})
	return subgraphs
}

func (s *Subgraph) create(start int) {
	s.addReachable(start)
	s.findRightmostEdge()
}

func (s *Subgraph) addReachable(start int) {
	g := s.graph
	stack := IntStack{start}
	for !stack.Empty() {
		node, _ := stack.Pop()
		if g.Nodes[node].Visited {
			continue
		}
		g.Nodes[node].Visited = true
		s.Nodes = append(s.Nodes, node)
		for _, de := range g.Nodes[node].Edges {
			s.DirEdges = append(s.DirEdges, de)
			symNode := g.DirEdges[Sym(de)].Node
			if !g.Nodes[symNode].Visited {
				stack.Push(symNode)
			}
		}
	}
}

// Envelope of every edge in the subgraph.
func (s *Subgraph) Envelope() r2.Rect {
	if !s.envComputed {
		env := r2.EmptyRect()
		for _, de := range s.DirEdges {
			if !IsForward(de) {
				continue
			}
			env = env.Union(planar.Envelope(s.graph.Edge(de).Pts))
		}
		s.env = env
		s.envComputed = true
	}
	return s.env
}

// ComputeDepth assigns depths to every directed edge, given the depth of the
// region just outside the subgraph's rightmost point.
func (s *Subgraph) ComputeDepth(outsideDepth int) {
	g := s.graph
	for _, de := range s.DirEdges {
		g.DirEdges[de].Visited = false
	}
	de := s.rightmostEdge
	g.SetEdgeDepths(de, Right, outsideDepth)
	g.CopySymDepths(de)
	s.computeDepths(de)
}

// Breadth first propagation of depths, node by node, starting from the node
// of startEdge.
func (s *Subgraph) computeDepths(startEdge int) {
	g := s.graph
	startNode := g.DirEdges[startEdge].Node
	nodesVisited := map[int]bool{startNode: true}
	queue := []int{startNode}
	g.DirEdges[startEdge].Visited = true

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		s.computeNodeDepth(node)

		for _, de := range g.Nodes[node].Edges {
			sym := Sym(de)
			if g.DirEdges[sym].Visited {
				continue
			}
			adjNode := g.DirEdges[sym].Node
			if !nodesVisited[adjNode] {
				queue = append(queue, adjNode)
				nodesVisited[adjNode] = true
			}
		}
	}
}

func (s *Subgraph) computeNodeDepth(node int) {
	g := s.graph
	startEdge := None
	for _, de := range g.Nodes[node].Edges {
		if g.DirEdges[de].Visited || g.DirEdges[Sym(de)].Visited {
			startEdge = de
			break
		}
	}
	if startEdge == None {
		planar.FatalfAt(g.Nodes[node].Coord, "unable to find edge to compute depths")
	}

	g.computeStarDepths(node, startEdge)

	for _, de := range g.Nodes[node].Edges {
		g.DirEdges[de].Visited = true
		g.CopySymDepths(de)
	}
}

// Walk counterclockwise around the node from a directed edge with known
// depths. The region left of each edge is right of the next one, so depths
// carry over, and the walk must return to the starting depth.
func (g *Graph) computeStarDepths(node int, start int) {
	edges := g.Nodes[node].Edges
	startIndex := -1
	for i, de := range edges {
		if de == start {
			startIndex = i
			break
		}
	}
	startDepth := g.DirEdges[start].Depth[Left]
	targetLastDepth := g.DirEdges[start].Depth[Right]

	nextDepth := g.propagateStarDepths(edges[startIndex+1:], startDepth)
	lastDepth := g.propagateStarDepths(edges[:startIndex], nextDepth)
	if lastDepth != targetLastDepth {
		planar.FatalfAt(g.Nodes[node].Coord, "depth mismatch")
	}
}

func (g *Graph) propagateStarDepths(edges []int, startDepth int) int {
	currDepth := startDepth
	for _, de := range edges {
		g.SetEdgeDepths(de, Right, currDepth)
		currDepth = g.DirEdges[de].Depth[Left]
	}
	return currDepth
}

// FindResultEdges marks the directed edges that bound the buffer region.
func (s *Subgraph) FindResultEdges() {
	g := s.graph
	for _, de := range s.DirEdges {
		if g.IsResultCandidate(de) {
			g.DirEdges[de].InResult = true
		}
	}
}
