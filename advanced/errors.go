package advanced

import (
	"fmt"

	"github.com/osuushi/buffer/internal/offset"
	"github.com/pkg/errors"
)

var (
	ErrInvalidParams = offset.ErrInvalidParams
	ErrInvalidInput  = errors.New("invalid buffer input")
	// Every precision level failed. Errors matching this are *FailedError.
	ErrBufferFailed = errors.New("buffer failed")
)

// FailedError is returned when the buffer could not be computed at any
// precision. It unwraps to the error from the full precision attempt, which is
// usually the most informative.
type FailedError struct {
	Original error
	Last     error
	// Fewest significant digits tried
	Digits int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%v: %v (still failing at %d digits: %v)", ErrBufferFailed, e.Original, e.Digits, e.Last)
}

func (e *FailedError) Unwrap() error { return e.Original }

func (e *FailedError) Is(target error) bool { return target == ErrBufferFailed }
