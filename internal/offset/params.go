// Package offset generates raw offset curves: for every line and ring of an
// input geometry, a closed polyline at the buffer distance, built from offset
// segments joined by fillets, mitres or bevels and closed by end caps. The
// curves are unnoded and may intersect themselves and each other.
package offset

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidParams = errors.New("invalid buffer parameters")

type CapStyle int

const (
	CapRound CapStyle = iota + 1
	CapFlat
	CapSquare
)

// CapButt is another name for CapFlat
const CapButt = CapFlat

func (s CapStyle) String() string {
	switch s {
	case CapRound:
		return "round"
	case CapFlat:
		return "flat"
	case CapSquare:
		return "square"
	}
	return "unknown"
}

func ParseCapStyle(name string) (CapStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "round":
		return CapRound, nil
	case "flat", "butt":
		return CapFlat, nil
	case "square":
		return CapSquare, nil
	}
	return 0, errors.Wrapf(ErrInvalidParams, "unknown end cap style %q", name)
}

func (s CapStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CapStyle) UnmarshalText(text []byte) error {
	style, err := ParseCapStyle(string(text))
	if err != nil {
		return err
	}
	*s = style
	return nil
}

type JoinStyle int

const (
	JoinRound JoinStyle = iota + 1
	JoinMitre
	JoinBevel
)

func (s JoinStyle) String() string {
	switch s {
	case JoinRound:
		return "round"
	case JoinMitre:
		return "mitre"
	case JoinBevel:
		return "bevel"
	}
	return "unknown"
}

func ParseJoinStyle(name string) (JoinStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "round":
		return JoinRound, nil
	case "mitre", "miter":
		return JoinMitre, nil
	case "bevel":
		return JoinBevel, nil
	}
	return 0, errors.Wrapf(ErrInvalidParams, "unknown join style %q", name)
}

func (s JoinStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *JoinStyle) UnmarshalText(text []byte) error {
	style, err := ParseJoinStyle(string(text))
	if err != nil {
		return err
	}
	*s = style
	return nil
}

// Params controls the shape of the offset curves.
type Params struct {
	// Number of segments used to approximate a quarter circle
	QuadrantSegments int       `yaml:"quadrant_segments"`
	EndCapStyle      CapStyle  `yaml:"end_cap_style"`
	JoinStyle        JoinStyle `yaml:"join_style"`
	// Largest ratio of mitre length to buffer distance before a mitre join is
	// bevelled
	MitreLimit float64 `yaml:"mitre_limit"`
	// Input vertices forming concavities shallower than distance*SimplifyFactor
	// are removed before offsetting. Zero disables simplification.
	SimplifyFactor float64 `yaml:"simplify_factor"`
	// Buffer lines on one side only: the left for positive distances, the
	// right for negative ones.
	SingleSided bool `yaml:"single_sided"`
	// At an inside turn whose offset segments do not meet, the two offset
	// endpoints are merged if they are closer than distance*InsideTurnSnapFactor.
	InsideTurnSnapFactor float64 `yaml:"inside_turn_snap_factor"`
}

const (
	DefaultQuadrantSegments     = 8
	DefaultMitreLimit           = 5.0
	DefaultSimplifyFactor       = 0.01
	DefaultInsideTurnSnapFactor = 1e-3
)

func DefaultParams() Params {
	return Params{
		QuadrantSegments:     DefaultQuadrantSegments,
		EndCapStyle:          CapRound,
		JoinStyle:            JoinRound,
		MitreLimit:           DefaultMitreLimit,
		SimplifyFactor:       DefaultSimplifyFactor,
		InsideTurnSnapFactor: DefaultInsideTurnSnapFactor,
	}
}

func (p Params) Validate() error {
	if p.QuadrantSegments < 1 {
		return errors.Wrapf(ErrInvalidParams, "quadrant segments must be at least 1, got %d", p.QuadrantSegments)
	}
	if p.EndCapStyle.String() == "unknown" {
		return errors.Wrapf(ErrInvalidParams, "unknown end cap style %d", int(p.EndCapStyle))
	}
	if p.JoinStyle.String() == "unknown" {
		return errors.Wrapf(ErrInvalidParams, "unknown join style %d", int(p.JoinStyle))
	}
	for _, value := range []struct {
		name string
		v    float64
	}{
		{"mitre limit", p.MitreLimit},
		{"simplify factor", p.SimplifyFactor},
		{"inside turn snap factor", p.InsideTurnSnapFactor},
	} {
		if math.IsNaN(value.v) || math.IsInf(value.v, 0) {
			return errors.Wrapf(ErrInvalidParams, "%s must be finite, got %v", value.name, value.v)
		}
	}
	if p.MitreLimit <= 0 {
		return errors.Wrapf(ErrInvalidParams, "mitre limit must be positive, got %v", p.MitreLimit)
	}
	if p.SimplifyFactor < 0 {
		return errors.Wrapf(ErrInvalidParams, "simplify factor must not be negative, got %v", p.SimplifyFactor)
	}
	if p.InsideTurnSnapFactor < 0 {
		return errors.Wrapf(ErrInvalidParams, "inside turn snap factor must not be negative, got %v", p.InsideTurnSnapFactor)
	}
	return nil
}
