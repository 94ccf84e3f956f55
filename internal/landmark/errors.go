package landmark

import "fmt"

// MissingLandmarkError is returned when an operation needs a landmark
// that the set does not contain.
type MissingLandmarkError struct {
	Index int
	Name  string
}

func (e *MissingLandmarkError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("missing landmark %d", e.Index)
	}
	return fmt.Sprintf("missing landmark %d (%s)", e.Index, e.Name)
}

// DuplicateIndexError is returned when a set would contain the same index
// twice.
type DuplicateIndexError struct {
	Index int
}

func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("duplicate landmark index %d", e.Index)
}

// IndexRangeError is returned for an index outside [0, MaxIndex].
type IndexRangeError struct {
	Index int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("landmark index %d outside [0,%d]", e.Index, MaxIndex)
}
