package advanced

import (
	"context"
	"math"

	"github.com/golang/geo/r2"
	"github.com/osuushi/buffer/planar"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// Significant digits of the first reduced precision attempt. Attempts continue
// with one digit fewer each time, down to zero.
const MaxPrecisionDigits = 12

type attemptFunc func(ctx context.Context, g geom.T, distance float64, params Params, pm planar.PrecisionModel) (geom.T, error)

// Op computes buffers with fixed parameters. It first works at full floating
// precision; if that fails for robustness reasons, it retries with
// coordinates snapped to ever coarser grids until one succeeds. An Op holds
// no state between calls, so it may be used concurrently.
type Op struct {
	Params Params

	attempt attemptFunc
}

func NewOp(params Params) (*Op, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Op{Params: params, attempt: BufferAtPrecision}, nil
}

// Buffer returns the polygonal buffer of g at distance, which may be negative
// to erode areas. The result is never nil on success, and is the empty
// polygon when the buffer has no area. It carries the SRID of g.
func (op *Op) Buffer(ctx context.Context, g geom.T, distance float64) (geom.T, error) {
	if err := op.Params.Validate(); err != nil {
		return nil, err
	}
	if err := checkInput(g, distance); err != nil {
		return nil, err
	}
	logger := Logger()

	if planar.IsEmpty(g) {
		return withSRID(planar.EmptyPolygon(), g), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "buffer cancelled")
	}

	result, err := op.attempt(ctx, g, distance, op.Params, planar.FloatingPrecision())
	if err == nil {
		return withSRID(result, g), nil
	}
	if !planar.IsTopologyError(err) {
		return nil, err
	}

	originalErr := err
	env := planar.GeometryEnvelope(g)
	for digits := MaxPrecisionDigits; digits >= 0; digits-- {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "buffer cancelled")
		}
		scale := precisionScaleFactor(env, distance, digits)
		logger.Warn("retrying buffer at reduced precision", "digits", digits, "scale", scale, "cause", err.Error())

		result, err = op.attempt(ctx, g, distance, op.Params, planar.FixedPrecision(scale))
		if err == nil {
			return withSRID(result, g), nil
		}
		if !planar.IsTopologyError(err) {
			return nil, err
		}
	}
	return nil, errors.WithStack(&FailedError{Original: originalErr, Last: err, Digits: 0})
}

func checkInput(g geom.T, distance float64) error {
	if g == nil {
		return errors.Wrap(ErrInvalidInput, "nil geometry")
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return errors.Wrapf(ErrInvalidInput, "distance must be finite, got %v", distance)
	}
	if err := planar.CheckFinite(g); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	return nil
}

// The grid scale which keeps digits significant digits for the largest
// ordinate the buffer can reach.
func precisionScaleFactor(env r2.Rect, distance float64, digits int) float64 {
	envMax := math.Max(
		math.Max(math.Abs(env.X.Lo), math.Abs(env.X.Hi)),
		math.Max(math.Abs(env.Y.Lo), math.Abs(env.Y.Hi)),
	)
	bufEnvMax := envMax + 2*math.Max(distance, 0)
	if bufEnvMax <= 0 {
		bufEnvMax = 1
	}
	bufEnvDigits := int(math.Log10(bufEnvMax) + 1)
	return math.Pow(10, float64(digits-bufEnvDigits))
}

func withSRID(result, source geom.T) geom.T {
	srid := source.SRID()
	if srid == 0 {
		return result
	}
	switch result := result.(type) {
	case *geom.Polygon:
		return result.SetSRID(srid)
	case *geom.MultiPolygon:
		return result.SetSRID(srid)
	}
	return result
}
