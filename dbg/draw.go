package dbg

import (
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/buffer/planar"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// Padding around the drawing, in pixels
const drawPadding = 20

// DrawGeometries renders the input of a buffer and its result to a PNG at
// path. The input is outlined in cyan over the result filled in green. Each
// geometry unit becomes scale pixels.
func DrawGeometries(path string, scale float64, input, result geom.T) error {
	env := planar.GeometryEnvelope(result).Union(planar.GeometryEnvelope(input))
	if env.IsEmpty() {
		return errors.New("nothing to draw")
	}

	width := int(scale*env.X.Length()) + drawPadding*2
	height := int(scale*env.Y.Length()) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	c.SetFillRuleEvenOdd()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)

	// Translate for padding
	c.Translate(drawPadding, drawPadding)
	// Scale
	c.Scale(scale, scale)
	// Translate to min
	c.Translate(-env.X.Lo, -env.Y.Lo)

	for _, polygon := range planar.Polygons(result) {
		for _, ring := range polygon.Rings() {
			tracePath(c, ring, true)
		}
	}
	c.SetRGB(0, 0.5, 0)
	c.FillPreserve()
	c.SetRGB(0, 1, 0)
	c.SetLineWidth(2 / scale)
	c.Stroke()

	drawInput(c, input, scale)

	return errors.Wrapf(c.SavePNG(path), "saving %s", path)
}

func drawInput(c *gg.Context, g geom.T, scale float64) {
	c.SetRGB(0, 1, 1)
	c.SetLineWidth(1 / scale)
	switch g := g.(type) {
	case *geom.Point:
		if !g.Empty() {
			c.DrawCircle(g.X(), g.Y(), 2/scale)
			c.Fill()
		}
	case *geom.Polygon:
		for _, ring := range planar.PolygonRings(g) {
			tracePath(c, ring, true)
		}
		c.Stroke()
	case *geom.MultiPoint:
		for i := 0; i < g.NumPoints(); i++ {
			drawInput(c, g.Point(i), scale)
		}
	case *geom.MultiLineString:
		for i := 0; i < g.NumLineStrings(); i++ {
			drawInput(c, g.LineString(i), scale)
		}
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			drawInput(c, g.Polygon(i), scale)
		}
	case *geom.GeometryCollection:
		for _, child := range g.Geoms() {
			drawInput(c, child, scale)
		}
	default:
		tracePath(c, planar.Coordinates(g), false)
		c.Stroke()
	}
}

func tracePath(c *gg.Context, pts []planar.Coordinate, closed bool) {
	if len(pts) == 0 {
		return
	}
	c.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.LineTo(p.X, p.Y)
	}
	if closed {
		c.ClosePath()
	}
}

// FitScale is the scale at which the larger side of the geometries' envelope
// is about size pixels.
func FitScale(size int, gs ...geom.T) float64 {
	env := r2.EmptyRect()
	for _, g := range gs {
		env = env.Union(planar.GeometryEnvelope(g))
	}
	extent := math.Max(env.X.Length(), env.Y.Length())
	if env.IsEmpty() || extent <= 0 {
		return 1
	}
	return float64(size) / extent
}

// ShowGeometries draws like DrawGeometries into a temporary file and prints it
// to out as an inline image (iTerm only), about size pixels across.
func ShowGeometries(out io.Writer, size int, input, result geom.T) error {
	scale := FitScale(size, input, result)

	file, err := os.CreateTemp("", "buffer-*.png")
	if err != nil {
		return errors.WithStack(err)
	}
	path := file.Name()
	file.Close()
	defer os.Remove(path)

	if err := DrawGeometries(path, scale, input, result); err != nil {
		return err
	}
	return errors.WithStack(imgcat.CatFile(path, out))
}
