package planar

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// Geometries come in and go out as go-geom values. Everything in between works
// on plain coordinate slices, so the conversion lives here.

func FromGeomCoords(coords []geom.Coord) []Coordinate {
	pts := make([]Coordinate, len(coords))
	for i, c := range coords {
		pts[i] = Coordinate{X: c.X(), Y: c.Y()}
	}
	return pts
}

// Points of a flat coordinate buffer with the given stride.
func fromFlat(flat []float64, stride int) []Coordinate {
	if stride < 2 {
		return nil
	}
	pts := make([]Coordinate, 0, len(flat)/stride)
	for i := 0; i+1 < len(flat); i += stride {
		pts = append(pts, Coordinate{X: flat[i], Y: flat[i+1]})
	}
	return pts
}

// Coordinates returns every coordinate of g, in storage order. Collections are
// flattened.
func Coordinates(g geom.T) []Coordinate {
	switch g := g.(type) {
	case nil:
		return nil
	case *geom.Point:
		if g.Empty() {
			return nil
		}
		return fromFlat(g.FlatCoords(), g.Stride())
	case *geom.GeometryCollection:
		var pts []Coordinate
		for i := 0; i < g.NumGeoms(); i++ {
			pts = append(pts, Coordinates(g.Geom(i))...)
		}
		return pts
	default:
		return fromFlat(g.FlatCoords(), g.Stride())
	}
}

func IsEmpty(g geom.T) bool {
	return len(Coordinates(g)) == 0
}

func GeometryEnvelope(g geom.T) r2.Rect {
	return Envelope(Coordinates(g))
}

// CheckFinite rejects geometries holding NaN or infinite ordinates.
func CheckFinite(g geom.T) error {
	for _, p := range Coordinates(g) {
		if !p.IsFinite() {
			return errors.Errorf("non-finite coordinate %s", p)
		}
	}
	return nil
}

// Rings of a polygon, with any unclosed ring closed.
func PolygonRings(p *geom.Polygon) [][]Coordinate {
	rings := make([][]Coordinate, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		ring := FromGeomCoords(p.LinearRing(i).Coords())
		if len(ring) > 0 && !ring[0].Equals(ring[len(ring)-1]) {
			ring = append(ring, ring[0])
		}
		rings = append(rings, ring)
	}
	return rings
}

// Polygon is a shell ring with its holes, the unit the polygon builder emits.
type Polygon struct {
	Shell []Coordinate
	Holes [][]Coordinate
}

func (p Polygon) Rings() [][]Coordinate {
	return append([][]Coordinate{p.Shell}, p.Holes...)
}

func (p Polygon) String() string {
	return fmt.Sprintf("polygon(%d points, %d holes)", len(p.Shell), len(p.Holes))
}

func appendFlat(flat []float64, ring []Coordinate) []float64 {
	for _, pt := range ring {
		flat = append(flat, pt.X, pt.Y)
	}
	return flat
}

func EmptyPolygon() *geom.Polygon {
	return geom.NewPolygon(geom.XY)
}

// BuildPolygonal is the result factory. No polygons give the canonical empty
// polygon, one gives a Polygon, and more give a MultiPolygon.
func BuildPolygonal(polygons []Polygon) geom.T {
	switch len(polygons) {
	case 0:
		return EmptyPolygon()
	case 1:
		var flat []float64
		var ends []int
		for _, ring := range polygons[0].Rings() {
			flat = appendFlat(flat, ring)
			ends = append(ends, len(flat))
		}
		return geom.NewPolygonFlat(geom.XY, flat, ends)
	}

	var flat []float64
	endss := make([][]int, 0, len(polygons))
	for _, polygon := range polygons {
		var ends []int
		for _, ring := range polygon.Rings() {
			flat = appendFlat(flat, ring)
			ends = append(ends, len(flat))
		}
		endss = append(endss, ends)
	}
	return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
}

// Polygons extracts the rings of the polygonal parts of g, flattening
// collections. Anything else, or an empty geometry, yields nil.
func Polygons(g geom.T) []Polygon {
	var result []Polygon
	add := func(p *geom.Polygon) {
		rings := PolygonRings(p)
		if len(rings) == 0 {
			return
		}
		result = append(result, Polygon{Shell: rings[0], Holes: rings[1:]})
	}
	switch g := g.(type) {
	case *geom.Polygon:
		add(g)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			add(g.Polygon(i))
		}
	case *geom.GeometryCollection:
		for i := 0; i < g.NumGeoms(); i++ {
			result = append(result, Polygons(g.Geom(i))...)
		}
	}
	return result
}
