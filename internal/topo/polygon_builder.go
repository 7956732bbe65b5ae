package topo

import "github.com/osuushi/buffer/planar"

// The outgoing edges of a node which are in the result, or whose opposite
// direction is, in star order.
func (g *Graph) resultAreaEdges(node int) []int {
	var result []int
	for _, de := range g.Nodes[node].Edges {
		if g.DirEdges[de].InResult || g.DirEdges[Sym(de)].InResult {
			result = append(result, de)
		}
	}
	return result
}

// Link each incoming result edge at a node to the next outgoing result edge
// counterclockwise from it.
func (g *Graph) linkResultDirectedEdges(node int) {
	const (
		scanningForIncoming = iota
		linkingToOutgoing
	)
	firstOut, incoming := None, None
	state := scanningForIncoming
	for _, nextOut := range g.resultAreaEdges(node) {
		nextIn := Sym(nextOut)
		if !g.DirEdges[nextOut].Label.IsArea() {
			continue
		}
		if firstOut == None && g.DirEdges[nextOut].InResult {
			firstOut = nextOut
		}
		switch state {
		case scanningForIncoming:
			if !g.DirEdges[nextIn].InResult {
				continue
			}
			incoming = nextIn
			state = linkingToOutgoing
		case linkingToOutgoing:
			if !g.DirEdges[nextOut].InResult {
				continue
			}
			g.DirEdges[incoming].Next = nextOut
			state = scanningForIncoming
		}
	}
	if state == linkingToOutgoing {
		if firstOut == None {
			planar.FatalfAt(g.Nodes[node].Coord, "no outgoing directed edge found")
		}
		g.DirEdges[incoming].Next = firstOut
	}
}

// Like linkResultDirectedEdges, restricted to the edges of one maximal ring
// and scanning clockwise, so that each minimal ring turns as tightly as
// possible.
func (g *Graph) linkMinimalDirectedEdges(node int, ring *EdgeRing) {
	const (
		scanningForIncoming = iota
		linkingToOutgoing
	)
	firstOut, incoming := None, None
	state := scanningForIncoming
	edges := g.resultAreaEdges(node)
	for i := len(edges) - 1; i >= 0; i-- {
		nextOut := edges[i]
		nextIn := Sym(nextOut)
		if firstOut == None && g.DirEdges[nextOut].EdgeRing == ring {
			firstOut = nextOut
		}
		switch state {
		case scanningForIncoming:
			if g.DirEdges[nextIn].EdgeRing != ring {
				continue
			}
			incoming = nextIn
			state = linkingToOutgoing
		case linkingToOutgoing:
			if g.DirEdges[nextOut].EdgeRing != ring {
				continue
			}
			g.DirEdges[incoming].NextMin = nextOut
			state = scanningForIncoming
		}
	}
	if state == linkingToOutgoing {
		if firstOut == None {
			planar.FatalfAt(g.Nodes[node].Coord, "found no first outgoing directed edge")
		}
		g.DirEdges[incoming].NextMin = firstOut
	}
}

// PolygonBuilder assembles result edges into shells and holes. Subgraphs are
// added in processing order; holes that are not part of a shell's own ring
// structure are matched against every shell found so far.
type PolygonBuilder struct {
	graph  *Graph
	shells []*EdgeRing
}

func NewPolygonBuilder(g *Graph) *PolygonBuilder {
	return &PolygonBuilder{graph: g}
}

func (b *PolygonBuilder) Add(subgraph *Subgraph) {
	g := b.graph
	for _, node := range subgraph.Nodes {
		g.linkResultDirectedEdges(node)
	}
	maxRings := b.buildMaximalEdgeRings(subgraph.DirEdges)
	var freeHoles []*EdgeRing
	edgeRings := b.buildMinimalEdgeRings(maxRings, &freeHoles)
	for _, ring := range edgeRings {
		if ring.IsHole {
			freeHoles = append(freeHoles, ring)
		} else {
			b.shells = append(b.shells, ring)
		}
	}
	b.placeFreeHoles(freeHoles)
}

func (b *PolygonBuilder) buildMaximalEdgeRings(dirEdges []int) []*EdgeRing {
	g := b.graph
	var rings []*EdgeRing
	for _, de := range dirEdges {
		d := &g.DirEdges[de]
		if d.InResult && d.Label.IsArea() && d.EdgeRing == nil {
			rings = append(rings, newEdgeRing(g, de, false))
		}
	}
	return rings
}

// Maximal rings which touch themselves are split into minimal rings. At most
// one of those can be a shell; the rest are its holes, or free holes if there
// is no shell. Simple maximal rings are returned as they are.
func (b *PolygonBuilder) buildMinimalEdgeRings(maxRings []*EdgeRing, freeHoles *[]*EdgeRing) []*EdgeRing {
	var edgeRings []*EdgeRing
	for _, maxRing := range maxRings {
		if maxRing.maxOutgoingDegree() <= 1 {
			edgeRings = append(edgeRings, maxRing)
			continue
		}
		maxRing.linkDirectedEdgesForMinimalEdgeRings()
		minRings := maxRing.buildMinimalRings()
		shell := findShell(minRings)
		if shell == nil {
			*freeHoles = append(*freeHoles, minRings...)
			continue
		}
		for _, ring := range minRings {
			if ring.IsHole {
				ring.setShell(shell)
			}
		}
		b.shells = append(b.shells, shell)
	}
	return edgeRings
}

func findShell(rings []*EdgeRing) *EdgeRing {
	var shell *EdgeRing
	shellCount := 0
	for _, ring := range rings {
		if !ring.IsHole {
			shell = ring
			shellCount++
		}
	}
	if shellCount > 1 {
		planar.FatalfAt(shell.Pts[0], "found two shells in minimal edge ring list")
	}
	return shell
}

func (b *PolygonBuilder) placeFreeHoles(freeHoles []*EdgeRing) {
	for _, hole := range freeHoles {
		if hole.Shell != nil {
			continue
		}
		shell := findEdgeRingContaining(hole, b.shells)
		if shell == nil {
			planar.FatalfAt(hole.Pts[0], "unable to assign hole to a shell")
		}
		hole.setShell(shell)
	}
}

// The innermost shell containing the ring, or nil.
func findEdgeRingContaining(ring *EdgeRing, shells []*EdgeRing) *EdgeRing {
	testEnv := ring.Envelope()
	var minShell *EdgeRing
	for _, tryShell := range shells {
		tryEnv := tryShell.Envelope()
		if !tryEnv.Contains(testEnv) {
			continue
		}
		testPt, ok := pointNotInList(ring.Pts, tryShell.Pts)
		if !ok || !planar.IsInRing(testPt, tryShell.Pts) {
			continue
		}
		if minShell == nil || minShell.Envelope().Contains(tryEnv) {
			minShell = tryShell
		}
	}
	return minShell
}

// A point of pts which is not a vertex of ring.
func pointNotInList(pts, ring []planar.Coordinate) (planar.Coordinate, bool) {
	vertices := make(map[planar.Coordinate]bool, len(ring))
	for _, p := range ring {
		vertices[p] = true
	}
	for _, p := range pts {
		if !vertices[p] {
			return p, true
		}
	}
	return planar.Coordinate{}, false
}

// Polygons returns one polygon per shell.
func (b *PolygonBuilder) Polygons() []planar.Polygon {
	polygons := make([]planar.Polygon, 0, len(b.shells))
	for _, shell := range b.shells {
		polygons = append(polygons, shell.Polygon())
	}
	return polygons
}
