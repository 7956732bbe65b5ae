package advanced

import (
	"io"

	"github.com/osuushi/buffer/internal/offset"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Params = offset.Params
type CapStyle = offset.CapStyle
type JoinStyle = offset.JoinStyle

const (
	CapRound  = offset.CapRound
	CapFlat   = offset.CapFlat
	CapButt   = offset.CapButt
	CapSquare = offset.CapSquare

	JoinRound = offset.JoinRound
	JoinMitre = offset.JoinMitre
	JoinBevel = offset.JoinBevel
)

// DefaultParams are 8 segments per quadrant with round caps and joins.
func DefaultParams() Params {
	return offset.DefaultParams()
}

func ParseCapStyle(name string) (CapStyle, error) {
	return offset.ParseCapStyle(name)
}

func ParseJoinStyle(name string) (JoinStyle, error) {
	return offset.ParseJoinStyle(name)
}

// LoadParams reads parameters from a YAML document such as
//
//	quadrant_segments: 16
//	end_cap_style: flat
//	join_style: mitre
//	mitre_limit: 3
//
// Missing keys keep their default values. Unknown keys are an error, and the
// result is validated.
func LoadParams(r io.Reader) (Params, error) {
	params := DefaultParams()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&params); err != nil && err != io.EOF {
		if errors.Is(err, ErrInvalidParams) {
			return Params{}, err
		}
		return Params{}, errors.Wrapf(ErrInvalidParams, "reading parameters: %v", err)
	}
	if err := params.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}
