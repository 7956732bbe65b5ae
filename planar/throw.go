package planar

import (
	"fmt"

	"github.com/pkg/errors"
)

// Threading errors through noding, graph construction and ring building would
// add a lot of noise to code that fails only on numerically degenerate input.
// Instead, those stages panic with a *TopologyError, and each buffer attempt
// recovers it into an ordinary error.

// TopologyError signals that a robustness failure left the computation in an
// inconsistent state. Pt, when set, is where the inconsistency was found.
type TopologyError struct {
	Pt  *Coordinate
	err error
}

func (e *TopologyError) Error() string {
	if e.Pt != nil {
		return fmt.Sprintf("%s [%s]", e.err.Error(), e.Pt)
	}
	return e.err.Error()
}

func (e *TopologyError) Cause() error  { return e.err }
func (e *TopologyError) Unwrap() error { return e.err }

// Format keeps the stack trace from pkg/errors available through %+v.
func (e *TopologyError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%+v", e.err)
		if e.Pt != nil {
			fmt.Fprintf(s, "\nat %s", e.Pt)
		}
		return
	}
	fmt.Fprint(s, e.Error())
}

// Panic with a TopologyError.
func Fatalf(format string, args ...interface{}) {
	panic(&TopologyError{err: errors.Errorf(format, args...)})
}

// Panic with a TopologyError located at pt.
func FatalfAt(pt Coordinate, format string, args ...interface{}) {
	panic(&TopologyError{Pt: &pt, err: errors.Errorf(format, args...)})
}

// RecoverTopology converts a recovered TopologyError back into an error. Any
// other panic value is a bug, so it is re-raised.
func RecoverTopology(r interface{}) error {
	if r != nil {
		if topologyError, ok := r.(*TopologyError); ok {
			return topologyError
		}
		panic(r)
	}
	return nil
}

func IsTopologyError(err error) bool {
	var topologyError *TopologyError
	return errors.As(err, &topologyError)
}
