package advanced

import (
	"embed"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/twpayne/go-geom"
)

// Fixtures are SVG files in fixtures/, loaded by name without the extension.
// Each holds a single polygon element, whose points are read. If anything goes
// wrong, the test binary exits.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(name string) *geom.Polygon {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, true)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	polygons := rootEl.FindAll("polygon")
	if len(polygons) != 1 {
		log.Fatalf("Expected one polygon in fixture %q, found %d", name, len(polygons))
	}

	pointStrings := strings.Fields(polygons[0].Attributes["points"])
	flat := make([]float64, 0, 2*len(pointStrings)+2)
	for _, pointString := range pointStrings {
		parts := strings.Split(pointString, ",")
		if len(parts) != 2 {
			log.Fatalf("Invalid point string %q", pointString)
		}
		for _, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				log.Fatalf("Invalid coordinate %q: %v", part, err)
			}
			flat = append(flat, v)
		}
	}
	// Close the ring
	flat = append(flat, flat[0], flat[1])
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// Some ad hoc fixtures

func Square(minX, minY, size float64) []float64 {
	return []float64{
		minX, minY,
		minX + size, minY,
		minX + size, minY + size,
		minX, minY + size,
		minX, minY,
	}
}

func SquareWithHole() *geom.Polygon {
	outer := Square(0, 0, 10)
	// Clockwise, the other way from the shell
	hole := []float64{4, 4, 4, 6, 6, 6, 6, 4, 4, 4}
	flat := append(outer, hole...)
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(outer), len(flat)})
}

func Zigzag() *geom.LineString {
	var flat []float64
	for i := 0; i < 6; i++ {
		flat = append(flat, float64(i)*4, float64(i%2)*3)
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}

func RegularPolygon(n int, radius float64) *geom.Polygon {
	var flat []float64
	for i := 0; i <= n; i++ {
		angle := 2 * math.Pi * float64(i%n) / float64(n)
		flat = append(flat, radius*math.Cos(angle), radius*math.Sin(angle))
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}
