package noding

import (
	"github.com/golang/geo/r2"
	"github.com/osuushi/buffer/planar"
	"github.com/tidwall/rtree"
)

// SnapRounder nodes strings on a fixed precision grid. Every vertex and every
// rounded intersection point becomes a hot pixel, a grid cell centred on the
// point; any segment passing through a hot pixel is bent through its centre.
// The output has all of its vertices on the grid and meets only at shared
// endpoints, at the cost of moving segments by up to half a cell.
type SnapRounder struct {
	Precision planar.PrecisionModel
	li        *Intersector
}

func NewSnapRounder(pm planar.PrecisionModel) *SnapRounder {
	if pm.IsFloating() {
		planar.Fatalf("snap rounding requires a fixed precision model")
	}
	return &SnapRounder{Precision: pm, li: NewIntersector(pm)}
}

type vertexRef struct {
	ss    *SegmentString
	index int
}

type hotPixel struct {
	center  planar.Coordinate
	owners  []vertexRef
	snapped bool
}

func (s *SnapRounder) Node(segStrings []*SegmentString) []*SegmentString {
	rounded := make([]*SegmentString, 0, len(segStrings))
	for _, ss := range segStrings {
		pts := make([]planar.Coordinate, len(ss.Pts))
		for i, p := range ss.Pts {
			pts[i] = s.Precision.MakePrecise(p)
		}
		pts = planar.RemoveRepeatedPoints(pts)
		if len(pts) < 2 {
			continue
		}
		rounded = append(rounded, NewSegmentString(pts, ss.Label))
	}

	pixels := make(map[planar.Coordinate]*hotPixel)
	pixel := func(c planar.Coordinate) *hotPixel {
		hp, ok := pixels[c]
		if !ok {
			hp = &hotPixel{center: c}
			pixels[c] = hp
		}
		return hp
	}
	for _, ss := range rounded {
		for i, p := range ss.Pts {
			hp := pixel(p)
			hp.owners = append(hp.owners, vertexRef{ss, i})
		}
	}
	finder := &interiorIntersectionFinder{li: s.li}
	newChainIndex(rounded).intersectChains(finder)
	for _, p := range finder.points {
		pixel(p)
	}

	var tree rtree.RTreeG[*hotPixel]
	for _, hp := range pixels {
		pt := [2]float64{hp.center.X, hp.center.Y}
		tree.Insert(pt, pt, hp)
	}

	half := s.Precision.GridSize() / 2
	for _, ss := range rounded {
		for i := 0; i < len(ss.Pts)-1; i++ {
			p0, p1 := ss.Pts[i], ss.Pts[i+1]
			env := planar.SegmentEnvelope(p0, p1).ExpandedByMargin(half)
			tree.Search([2]float64{env.X.Lo, env.Y.Lo}, [2]float64{env.X.Hi, env.Y.Hi},
				func(_, _ [2]float64, hp *hotPixel) bool {
					if hp.center.Equals(p0) || hp.center.Equals(p1) {
						return true
					}
					if segmentIntersectsPixel(p0, p1, hp.center, half) {
						ss.AddIntersection(hp.center, i)
						hp.snapped = true
					}
					return true
				})
		}
	}

	// A vertex that another segment was snapped to must be a node too, as must
	// a vertex shared by several strings or visited twice by one string
	for _, hp := range pixels {
		if !hp.snapped && len(hp.owners) < 2 {
			continue
		}
		for _, owner := range hp.owners {
			owner.ss.AddIntersection(hp.center, owner.index)
		}
	}

	var result []*SegmentString
	for _, ss := range NodedSubstrings(rounded) {
		pts := planar.RemoveRepeatedPoints(ss.Pts)
		if len(pts) < 2 {
			continue
		}
		ss.Pts = pts
		result = append(result, ss)
	}
	return result
}

// Whether the segment p0-p1 touches the closed square of half width half
// centred at c, by clipping the segment against the square.
func segmentIntersectsPixel(p0, p1, c planar.Coordinate, half float64) bool {
	square := r2.RectFromCenterSize(c.Vec(), r2.Point{X: 2 * half, Y: 2 * half})
	if square.ContainsPoint(p0.Vec()) || square.ContainsPoint(p1.Vec()) {
		return true
	}
	d := p1.Vec().Sub(p0.Vec())
	tMin, tMax := 0.0, 1.0
	clip := func(denom, numer float64) bool {
		if denom == 0 {
			return numer >= 0
		}
		t := numer / denom
		if denom > 0 {
			if t < tMax {
				tMax = t
			}
		} else if t > tMin {
			tMin = t
		}
		return tMin <= tMax
	}
	return clip(d.X, square.X.Hi-p0.X) &&
		clip(-d.X, p0.X-square.X.Lo) &&
		clip(d.Y, square.Y.Hi-p0.Y) &&
		clip(-d.Y, p0.Y-square.Y.Lo)
}

// Collects intersection points that are not already vertices of both
// segments.
type interiorIntersectionFinder struct {
	li     *Intersector
	points []planar.Coordinate
}

func (f *interiorIntersectionFinder) ProcessIntersections(e0 *SegmentString, segIndex0 int, e1 *SegmentString, segIndex1 int) {
	if e0 == e1 && segIndex0 == segIndex1 {
		return
	}
	intersection := f.li.Compute(e0.Pts[segIndex0], e0.Pts[segIndex0+1], e1.Pts[segIndex1], e1.Pts[segIndex1+1])
	if intersection.IsInterior() {
		f.points = append(f.points, intersection.Points...)
	}
}
