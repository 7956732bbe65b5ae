package topo

import (
	"github.com/golang/geo/r2"
	"github.com/osuushi/buffer/planar"
)

// EdgeRing is a closed ring of result directed edges. Maximal rings follow
// Next links and may touch themselves at nodes; minimal rings follow NextMin
// links and never do.
type EdgeRing struct {
	graph   *Graph
	start   int
	minimal bool

	Edges  []int
	Pts    []planar.Coordinate
	Label  Label
	IsHole bool

	// Set on holes once they are placed
	Shell *EdgeRing
	// Set on shells
	Holes []*EdgeRing

	env r2.Rect
}

func newEdgeRing(g *Graph, start int, minimal bool) *EdgeRing {
	r := &EdgeRing{graph: g, start: start, minimal: minimal}
	r.computePoints()
	r.computeRing()
	return r
}

func (r *EdgeRing) next(de int) int {
	if r.minimal {
		return r.graph.DirEdges[de].NextMin
	}
	return r.graph.DirEdges[de].Next
}

func (r *EdgeRing) ringOf(de int) *EdgeRing {
	if r.minimal {
		return r.graph.DirEdges[de].MinEdgeRing
	}
	return r.graph.DirEdges[de].EdgeRing
}

func (r *EdgeRing) setRing(de int) {
	if r.minimal {
		r.graph.DirEdges[de].MinEdgeRing = r
	} else {
		r.graph.DirEdges[de].EdgeRing = r
	}
}

func (r *EdgeRing) computePoints() {
	g := r.graph
	de := r.start
	isFirstEdge := true
	for {
		if de == None {
			planar.Fatalf("found null directed edge while building ring")
		}
		if r.ringOf(de) == r {
			planar.FatalfAt(g.DirEdges[de].P0, "directed edge visited twice during ring building")
		}
		r.Edges = append(r.Edges, de)
		label := g.DirEdges[de].Label
		if !label.IsArea() {
			planar.FatalfAt(g.DirEdges[de].P0, "ring edge is not an area edge")
		}
		r.Label.Merge(label)
		r.addPoints(de, isFirstEdge)
		isFirstEdge = false
		r.setRing(de)
		de = r.next(de)
		if de == r.start {
			break
		}
	}
}

// Appends the edge's points in traversal order. Every edge after the first
// starts where the previous one ended, so its first point is skipped.
func (r *EdgeRing) addPoints(de int, isFirstEdge bool) {
	pts := r.graph.Points(de)
	if !isFirstEdge {
		pts = pts[1:]
	}
	r.Pts = append(r.Pts, pts...)
}

func (r *EdgeRing) computeRing() {
	if len(r.Pts) < 4 {
		planar.FatalfAt(r.Pts[0], "ring has only %d points", len(r.Pts))
	}
	if !r.Pts[0].Equals(r.Pts[len(r.Pts)-1]) {
		planar.FatalfAt(r.Pts[0], "ring is not closed")
	}
	r.IsHole = planar.IsCCW(r.Pts)
	r.env = planar.Envelope(r.Pts)
}

func (r *EdgeRing) Envelope() r2.Rect {
	return r.env
}

func (r *EdgeRing) setShell(shell *EdgeRing) {
	r.Shell = shell
	shell.Holes = append(shell.Holes, r)
}

// The largest number of this ring's edges leaving any one of its nodes. A ring
// which touches itself leaves some node more than once.
func (r *EdgeRing) maxOutgoingDegree() int {
	g := r.graph
	maxDegree := 0
	for _, de := range r.Edges {
		degree := 0
		for _, out := range g.Nodes[g.DirEdges[de].Node].Edges {
			if g.DirEdges[out].EdgeRing == r {
				degree++
			}
		}
		maxDegree = max(maxDegree, degree)
	}
	return maxDegree
}

// Relinks a maximal ring's edges with NextMin so that it can be split into
// minimal rings.
func (r *EdgeRing) linkDirectedEdgesForMinimalEdgeRings() {
	g := r.graph
	de := r.start
	for {
		g.linkMinimalDirectedEdges(g.DirEdges[de].Node, r)
		de = g.DirEdges[de].Next
		if de == r.start {
			break
		}
	}
}

func (r *EdgeRing) buildMinimalRings() []*EdgeRing {
	g := r.graph
	var rings []*EdgeRing
	de := r.start
	for {
		if g.DirEdges[de].MinEdgeRing == nil {
			rings = append(rings, newEdgeRing(g, de, true))
		}
		de = g.DirEdges[de].Next
		if de == r.start {
			break
		}
	}
	return rings
}

// Polygon converts a shell and its holes to the output representation.
func (r *EdgeRing) Polygon() planar.Polygon {
	polygon := planar.Polygon{Shell: r.Pts}
	for _, hole := range r.Holes {
		polygon.Holes = append(polygon.Holes, hole.Pts)
	}
	return polygon
}
