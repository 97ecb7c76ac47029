package matstream

import (
	"context"
	"fmt"
	"os"

	"github.com/scigolib/matstream/internal/blockfile"
	"github.com/scigolib/matstream/internal/cscfile"
)

// FileSource is a Source backed by an on-disk matrix file.
type FileSource interface {
	Source
	Close() error
}

// FileDenseSource reads a dense column-major matrix from a block file
// (magic "MSBK1\n"). Loads read only the bytes covering the requested
// columns.
type FileDenseSource struct {
	f *blockfile.File
}

// OpenDense opens a dense block matrix file as a Source.
func OpenDense(path string) (*FileDenseSource, error) {
	f, err := blockfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &FileDenseSource{f: f}, nil
}

// Rows returns the matrix row count.
func (s *FileDenseSource) Rows() int { return s.f.Rows() }

// Cols returns the matrix column count.
func (s *FileDenseSource) Cols() int { return s.f.Cols() }

// Close closes the backing file.
func (s *FileDenseSource) Close() error { return s.f.Close() }

// LoadColumns reads columns [start, end) from disk as a dense chunk.
func (s *FileDenseSource) LoadColumns(_ context.Context, start, end int) (*Chunk, error) {
	if err := checkColumnRange(start, end, s.f.Cols()); err != nil {
		return nil, err
	}
	values, err := s.f.ReadColumns(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return NewDenseChunk(s.f.Rows(), end-start, start, values), nil
}

// FileCSCSource reads a sparse matrix from a CSC file (magic "MSCS1\n").
// Chunk extraction reads the column offset index for the requested range,
// then only the matching slices of the value and row index arrays.
type FileCSCSource struct {
	f *cscfile.File
}

// OpenCSC opens a CSC matrix file as a Source.
func OpenCSC(path string) (*FileCSCSource, error) {
	f, err := cscfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &FileCSCSource{f: f}, nil
}

// Rows returns the matrix row count.
func (s *FileCSCSource) Rows() int { return s.f.Rows() }

// Cols returns the matrix column count.
func (s *FileCSCSource) Cols() int { return s.f.Cols() }

// Close closes the backing file.
func (s *FileCSCSource) Close() error { return s.f.Close() }

// LoadColumns reads columns [start, end) from disk as a CSC chunk.
func (s *FileCSCSource) LoadColumns(_ context.Context, start, end int) (*Chunk, error) {
	if err := checkColumnRange(start, end, s.f.Cols()); err != nil {
		return nil, err
	}
	data, rowIdx, colPtr, err := s.f.ReadColumns(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return NewCSCChunk(s.f.Rows(), end-start, start, data, rowIdx, colPtr), nil
}

// OpenFile opens a matrix file of either on-disk format, sniffing the magic
// bytes to pick the source type.
func OpenFile(path string) (FileSource, error) {
	//nolint:gosec // G304: user-provided path is intentional
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	magic := make([]byte, len(blockfile.Magic))
	_, err = f.ReadAt(magic, 0)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	switch string(magic) {
	case blockfile.Magic:
		return OpenDense(path)
	case cscfile.Magic:
		return OpenCSC(path)
	default:
		return nil, fmt.Errorf("%w: unrecognized matrix file %q", ErrInvalidArgument, path)
	}
}
