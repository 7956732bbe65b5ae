package topo

import (
	"math"

	"github.com/osuushi/buffer/planar"
)

// DepthSegment is a segment stabbed by the depth locator's ray, normalized to
// point upwards, with the depth of the region on its left.
type DepthSegment struct {
	P0, P1    planar.Coordinate
	LeftDepth int
}

func (ds DepthSegment) minX() float64 { return math.Min(ds.P0.X, ds.P1.X) }
func (ds DepthSegment) maxX() float64 { return math.Max(ds.P0.X, ds.P1.X) }

// Orientation of other relative to this segment's line: 1 if other lies
// entirely left of it, -1 if entirely right, 0 if it straddles the line.
func (ds DepthSegment) orientationIndex(other DepthSegment) int {
	orient0 := planar.OrientationIndex(ds.P0, ds.P1, other.P0)
	orient1 := planar.OrientationIndex(ds.P0, ds.P1, other.P1)
	if orient0 >= 0 && orient1 >= 0 {
		return max(orient0, orient1)
	}
	if orient0 <= 0 && orient1 <= 0 {
		return min(orient0, orient1)
	}
	return 0
}

// Compare orders segments left to right. Segments which overlap in X are
// ordered by which side of each other they lie on. Crossing or collinear
// segments fall back to comparing endpoints, which puts the one with the
// smaller minimum X first.
func (ds DepthSegment) Compare(other DepthSegment) int {
	// Trivially ordered along X
	if ds.minX() >= other.maxX() {
		return 1
	}
	if ds.maxX() <= other.minX() {
		return -1
	}
	if orient := ds.orientationIndex(other); orient != 0 {
		return orient
	}
	if orient := -other.orientationIndex(ds); orient != 0 {
		return orient
	}
	if c := ds.P0.Compare(other.P0); c != 0 {
		return c
	}
	return ds.P1.Compare(other.P1)
}

// SubgraphDepthLocator finds the depth of a point relative to a set of
// subgraphs whose depths are already known, by casting a ray from the point
// towards +X and taking the depth left of the nearest segment it stabs.
type SubgraphDepthLocator struct {
	subgraphs []*Subgraph
}

func NewSubgraphDepthLocator(subgraphs []*Subgraph) *SubgraphDepthLocator {
	return &SubgraphDepthLocator{subgraphs: subgraphs}
}

// Depth of p, or 0 if the ray escapes every subgraph.
func (l *SubgraphDepthLocator) Depth(p planar.Coordinate) int {
	stabbed := l.StabbedSegments(p)
	if len(stabbed) == 0 {
		return 0
	}
	nearest := stabbed[0]
	for _, ds := range stabbed[1:] {
		if ds.Compare(nearest) < 0 {
			nearest = ds
		}
	}
	return nearest.LeftDepth
}

func (l *SubgraphDepthLocator) StabbedSegments(p planar.Coordinate) []DepthSegment {
	var stabbed []DepthSegment
	for _, subgraph := range l.subgraphs {
		env := subgraph.Envelope()
		if p.Y < env.Y.Lo || p.Y > env.Y.Hi || p.X > env.X.Hi {
			continue
		}
		g := subgraph.graph
		for _, de := range subgraph.DirEdges {
			if !IsForward(de) {
				continue
			}
			stabbed = appendStabbedSegments(stabbed, g, de, p)
		}
	}
	return stabbed
}

func appendStabbedSegments(stabbed []DepthSegment, g *Graph, de int, p planar.Coordinate) []DepthSegment {
	pts := g.Edge(de).Pts
	for i := 0; i < len(pts)-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		flipped := false
		// Ensure the segment points upwards
		if p0.Y > p1.Y {
			p0, p1 = p1, p0
			flipped = true
		}

		// Left of the ray's origin
		if math.Max(p0.X, p1.X) < p.X {
			continue
		}
		// Horizontal segments carry no information a neighbour doesn't
		if p0.Y == p1.Y {
			continue
		}
		// Above or below the ray
		if p.Y < p0.Y || p.Y > p1.Y {
			continue
		}
		// The ray starts right of the segment
		if planar.OrientationIndex(p0, p1, p) == planar.Clockwise {
			continue
		}

		depth := g.DirEdges[de].Depth[Left]
		if flipped {
			depth = g.DirEdges[de].Depth[Right]
		}
		stabbed = append(stabbed, DepthSegment{P0: p0, P1: p1, LeftDepth: depth})
	}
	return stabbed
}
