package roads

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter reports a configuration error: a non-positive
// resampling distance, or a cell whose min bound does not lie below its max
// bound. Fatal to the call, never retried.
var ErrInvalidParameter = errors.New("invalid parameter")

// MalformedRowError reports a table row that could not be parsed. The row is
// skipped and the error recorded; processing continues.
type MalformedRowError struct {
	Line  int
	Field string
	Value string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: malformed %s %q", e.Line, e.Field, e.Value)
}

// DuplicateCoordinateError reports two different node ids with identical
// coordinates on the same road. This is a contradiction in the source data,
// so the road cannot be processed.
type DuplicateCoordinateError struct {
	RoadID string
	NodeA  string
	NodeB  string
}

func (e *DuplicateCoordinateError) Error() string {
	return fmt.Sprintf("road %q: nodes %s and %s report identical coordinates",
		e.RoadID, e.NodeA, e.NodeB)
}
