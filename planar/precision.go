package planar

import (
	"fmt"
	"math"
)

// PrecisionModel decides how coordinates are rounded before noding. A zero
// Scale means floating precision, where coordinates are used as they are.
// Otherwise coordinates snap to a grid with cells 1/Scale wide.
type PrecisionModel struct {
	Scale float64
}

func FloatingPrecision() PrecisionModel {
	return PrecisionModel{}
}

func FixedPrecision(scale float64) PrecisionModel {
	return PrecisionModel{Scale: scale}
}

func (pm PrecisionModel) IsFloating() bool {
	return pm.Scale == 0
}

// Size of a grid cell, or zero for floating precision.
func (pm PrecisionModel) GridSize() float64 {
	if pm.IsFloating() {
		return 0
	}
	return 1 / pm.Scale
}

// Rounds half up, so that positive and negative values snap the same way.
func (pm PrecisionModel) MakePreciseValue(v float64) float64 {
	if pm.IsFloating() || math.IsNaN(v) {
		return v
	}
	return math.Floor(v*pm.Scale+0.5) / pm.Scale
}

func (pm PrecisionModel) MakePrecise(c Coordinate) Coordinate {
	if pm.IsFloating() {
		return c
	}
	return Coordinate{X: pm.MakePreciseValue(c.X), Y: pm.MakePreciseValue(c.Y)}
}

func (pm PrecisionModel) String() string {
	if pm.IsFloating() {
		return "floating"
	}
	return fmt.Sprintf("fixed(scale=%g)", pm.Scale)
}
