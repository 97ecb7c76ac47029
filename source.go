package matstream

import (
	"context"
	"fmt"
)

// Source provides random access to a matrix by column range. Implementations
// must support concurrent LoadColumns calls: the backing matrix is read-only
// and shared across workers in parallel runs.
type Source interface {
	// Rows returns the matrix row count.
	Rows() int
	// Cols returns the matrix column count.
	Cols() int
	// LoadColumns materializes columns [start, end) as a Chunk. The amount
	// of I/O performed is proportional to the requested range, never to the
	// full matrix. Returns ErrOutOfRange if the range exceeds the matrix
	// bounds, or an error wrapping ErrIO on a read failure.
	LoadColumns(ctx context.Context, start, end int) (*Chunk, error)
}

func checkColumnRange(start, end, cols int) error {
	if start < 0 || end < start || end > cols {
		return fmt.Errorf("%w: [%d, %d) of %d columns", ErrOutOfRange, start, end, cols)
	}
	return nil
}

// DenseSource is an in-memory matrix stored column-major. It is primarily
// useful for tests and small matrices; large matrices should use the
// file-backed sources.
type DenseSource struct {
	rows   int
	cols   int
	values []float64
}

// NewDenseSource wraps a column-major value slice as a Source.
// len(values) must equal rows*cols.
func NewDenseSource(rows, cols int, values []float64) (*DenseSource, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidArgument, rows, cols)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d matrix", ErrInvalidArgument, len(values), rows, cols)
	}
	return &DenseSource{rows: rows, cols: cols, values: values}, nil
}

// Rows returns the matrix row count.
func (s *DenseSource) Rows() int { return s.rows }

// Cols returns the matrix column count.
func (s *DenseSource) Cols() int { return s.cols }

// LoadColumns returns the requested column slice. The chunk shares the
// source's backing array; chunks are read-only so this is safe.
func (s *DenseSource) LoadColumns(_ context.Context, start, end int) (*Chunk, error) {
	if err := checkColumnRange(start, end, s.cols); err != nil {
		return nil, err
	}
	return NewDenseChunk(s.rows, end-start, start, s.values[start*s.rows:end*s.rows]), nil
}

// CSCSource is an in-memory sparse matrix in compressed sparse column form:
// data holds the non-zero values in column-major order, rowIdx the row index
// of each value, and colPtr the 0-based start offset of each column's
// entries, with colPtr[cols] == len(data).
type CSCSource struct {
	rows   int
	cols   int
	data   []float64
	rowIdx []int
	colPtr []int
}

// NewCSCSource wraps CSC arrays as a Source after validating their shape.
func NewCSCSource(rows, cols int, data []float64, rowIdx, colPtr []int) (*CSCSource, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidArgument, rows, cols)
	}
	if len(colPtr) != cols+1 {
		return nil, fmt.Errorf("%w: colPtr has %d entries, want %d", ErrInvalidArgument, len(colPtr), cols+1)
	}
	if colPtr[0] != 0 {
		return nil, fmt.Errorf("%w: colPtr[0] = %d, want 0", ErrInvalidArgument, colPtr[0])
	}
	for i := 1; i < len(colPtr); i++ {
		if colPtr[i] < colPtr[i-1] {
			return nil, fmt.Errorf("%w: colPtr not monotone at column %d", ErrInvalidArgument, i)
		}
	}
	if len(data) != len(rowIdx) || len(data) != colPtr[cols] {
		return nil, fmt.Errorf("%w: %d values, %d row indices, colPtr[cols] = %d",
			ErrInvalidArgument, len(data), len(rowIdx), colPtr[cols])
	}
	for _, r := range rowIdx {
		if r < 0 || r >= rows {
			return nil, fmt.Errorf("%w: row index %d outside %d rows", ErrInvalidArgument, r, rows)
		}
	}
	return &CSCSource{rows: rows, cols: cols, data: data, rowIdx: rowIdx, colPtr: colPtr}, nil
}

// Rows returns the matrix row count.
func (s *CSCSource) Rows() int { return s.rows }

// Cols returns the matrix column count.
func (s *CSCSource) Cols() int { return s.cols }

// LoadColumns slices out columns [start, end). Column offsets are rebased so
// the chunk's colPtr starts at 0 while data and rowIdx share the source's
// backing arrays.
func (s *CSCSource) LoadColumns(_ context.Context, start, end int) (*Chunk, error) {
	if err := checkColumnRange(start, end, s.cols); err != nil {
		return nil, err
	}
	lo, hi := s.colPtr[start], s.colPtr[end]
	colPtr := make([]int, end-start+1)
	for i := range colPtr {
		colPtr[i] = s.colPtr[start+i] - lo
	}
	return NewCSCChunk(s.rows, end-start, start, s.data[lo:hi], s.rowIdx[lo:hi], colPtr), nil
}
