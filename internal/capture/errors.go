package capture

import (
	"errors"
	"fmt"
)

// EmptyInputError is returned when Average is given zero captures.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "no captures to average"
}

// TooManyCapturesError is returned when more captures are supplied than a
// session accepts.
type TooManyCapturesError struct {
	Count int
	Max   int
}

func (e *TooManyCapturesError) Error() string {
	return fmt.Sprintf("%d captures supplied, at most %d allowed", e.Count, e.Max)
}

// ErrNoCommonLandmarks means no landmark index is present in every capture.
var ErrNoCommonLandmarks = errors.New("captures share no landmark indices")
