// Package topo builds the planar graph of noded offset curves and extracts the
// buffer polygons from it.
//
// The graph is stored as arenas. Edges live in Graph.Edges, and each edge owns
// two directed edges stored at indices 2e (forward) and 2e+1 (reverse) of
// Graph.DirEdges, so the opposite direction of a directed edge is de^1. Nodes
// refer to their outgoing directed edges by index.
package topo

import (
	"fmt"

	"github.com/osuushi/buffer/planar"
)

// Position on an edge, relative to its direction.
type Position int

const (
	On Position = iota
	Left
	Right
)

func (p Position) Opposite() Position {
	switch p {
	case Left:
		return Right
	case Right:
		return Left
	}
	return p
}

// TopologyLocation holds the locations On, Left and Right of an edge, relative
// to one source geometry.
type TopologyLocation [3]planar.Location

func (tl TopologyLocation) IsNull() bool {
	return tl[On] == planar.NoLocation && tl[Left] == planar.NoLocation && tl[Right] == planar.NoLocation
}

// Fill in unknown locations from other. Known locations are kept.
func (tl *TopologyLocation) Merge(other TopologyLocation) {
	for i := range tl {
		if tl[i] == planar.NoLocation {
			tl[i] = other[i]
		}
	}
}

func (tl *TopologyLocation) Flip() {
	tl[Left], tl[Right] = tl[Right], tl[Left]
}

// Label records the topology of an edge relative to up to two source
// geometries. Buffering only ever uses geometry 0.
type Label [2]TopologyLocation

// NewAreaLabel labels the boundary of an area in geometry geomIndex.
func NewAreaLabel(geomIndex int, on, left, right planar.Location) Label {
	var label Label
	label[geomIndex] = TopologyLocation{on, left, right}
	return label
}

func (l Label) Location(geomIndex int, pos Position) planar.Location {
	return l[geomIndex][pos]
}

// Merge fills each unknown location from other, side by side.
func (l *Label) Merge(other Label) {
	for i := range l {
		l[i].Merge(other[i])
	}
}

// Flipped swaps Left and Right, as seen when traversing the edge backwards.
func (l Label) Flipped() Label {
	for i := range l {
		l[i].Flip()
	}
	return l
}

// An area edge has side locations for at least one geometry.
func (l Label) IsArea() bool {
	for _, tl := range l {
		if tl[Left] != planar.NoLocation || tl[Right] != planar.NoLocation {
			return true
		}
	}
	return false
}

// An interior area edge has the area's interior on both sides. It is a seam
// between coincident parts of the input and never bounds the result.
func (l Label) IsInteriorAreaEdge() bool {
	for _, tl := range l {
		if tl[Left] == planar.Interior && tl[Right] == planar.Interior {
			return true
		}
	}
	return false
}

// DepthDelta is the change in depth when crossing an edge with this label
// from right to left.
func (l Label) DepthDelta() int {
	left := l.Location(0, Left)
	right := l.Location(0, Right)
	if left == planar.Interior && right == planar.Exterior {
		return 1
	}
	if left == planar.Exterior && right == planar.Interior {
		return -1
	}
	return 0
}

func (l Label) String() string {
	return fmt.Sprintf("A:%s%s%s B:%s%s%s",
		l[0][Left], l[0][On], l[0][Right],
		l[1][Left], l[1][On], l[1][Right])
}
