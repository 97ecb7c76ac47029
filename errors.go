package matstream

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by planners, sources and runners.
// Callers should test with errors.Is; wrapped causes remain reachable
// through errors.Unwrap.
var (
	// ErrInvalidArgument reports a bad planning parameter, such as a
	// non-positive chunk size or a negative column count.
	ErrInvalidArgument = errors.New("matstream: invalid argument")

	// ErrOutOfRange reports a column range that exceeds the matrix extent.
	ErrOutOfRange = errors.New("matstream: column range out of bounds")

	// ErrIO reports a read failure from backing storage.
	ErrIO = errors.New("matstream: read failed")
)

// ChunkError wraps a failure that occurred while loading or reducing a
// specific chunk. Index is the chunk's position in plan order, which
// identifies the failing column range for diagnosis.
type ChunkError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *ChunkError) Unwrap() error {
	return e.Err
}
