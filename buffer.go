// A robust polygon buffer package for Go.
//
// Buffering a geometry grows it outward by a distance, or erodes it inward
// when the distance is negative. Any geometry can be buffered: points and
// lines become rounded areas, and polygons grow or shrink. The result is
// always polygonal, with shells wound clockwise and holes counter-clockwise.
//
// Geometries are github.com/twpayne/go-geom values. For finer control,
// including logging and precision, see the advanced package.
package buffer

import (
	"context"

	"github.com/osuushi/buffer/advanced"
	"github.com/twpayne/go-geom"
)

type Params = advanced.Params
type CapStyle = advanced.CapStyle
type JoinStyle = advanced.JoinStyle

const (
	CapRound  = advanced.CapRound
	CapFlat   = advanced.CapFlat
	CapSquare = advanced.CapSquare

	JoinRound = advanced.JoinRound
	JoinMitre = advanced.JoinMitre
	JoinBevel = advanced.JoinBevel
)

var (
	ErrInvalidParams = advanced.ErrInvalidParams
	ErrInvalidInput  = advanced.ErrInvalidInput
	ErrBufferFailed  = advanced.ErrBufferFailed
)

func DefaultParams() Params {
	return advanced.DefaultParams()
}

// Buffer g by distance with round caps and joins.
func Buffer(g geom.T, distance float64) (geom.T, error) {
	return BufferContext(context.Background(), g, distance, DefaultParams())
}

// Buffer g by distance, approximating each quarter circle with
// quadrantSegments segments.
func BufferWithQuadrantSegments(g geom.T, distance float64, quadrantSegments int) (geom.T, error) {
	params := DefaultParams()
	params.QuadrantSegments = quadrantSegments
	return BufferContext(context.Background(), g, distance, params)
}

func BufferWithParams(g geom.T, distance float64, params Params) (geom.T, error) {
	return BufferContext(context.Background(), g, distance, params)
}

// BufferContext is BufferWithParams, but gives up with the context's error
// once ctx is done.
func BufferContext(ctx context.Context, g geom.T, distance float64, params Params) (result geom.T, err error) {
	op, err := advanced.NewOp(params)
	if err != nil {
		return nil, err
	}
	return op.Buffer(ctx, g, distance)
}
