package protocol

import (
	"errors"
	"fmt"
)

// Structural decode failures. All are surfaced to the caller; the codec never
// retries and never silently repairs a frame.
var (
	// ErrTruncatedFrame means the buffer is shorter than the fixed
	// header-plus-checksum minimum, or shorter than its group's documented
	// layout requires.
	ErrTruncatedFrame = errors.New("frame truncated")

	// ErrBadMagic means the first byte is not 0xfc.
	ErrBadMagic = errors.New("bad magic byte")
)

// ChecksumError reports a mismatch between the trailing checksum byte and the
// recomputed value. A frame failing this check must be discarded, never acted
// upon.
type ChecksumError struct {
	Want byte // recomputed
	Got  byte // trailing byte from the frame
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: calculated 0x%02x, frame carries 0x%02x", e.Want, e.Got)
}

// RangeError reports a value outside a transform's documented domain during
// encode. Transforms never clamp silently.
type RangeError struct {
	Transform string
	Value     float64
	Min, Max  float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: value %g outside domain [%g, %g]", e.Transform, e.Value, e.Min, e.Max)
}
