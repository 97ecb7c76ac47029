// Package blockfile implements the matstream dense block matrix format: a
// fixed little-endian header followed by the matrix values in column-major
// order. The layout supports reading an arbitrary column range with a
// single ReadAt, so I/O per read is proportional to the requested range.
//
// File layout:
//
//	offset 0   magic "MSBK1\n" (6 bytes)
//	offset 6   dtype code (uint16)
//	offset 8   rows (uint64)
//	offset 16  cols (uint64)
//	offset 24  data, column-major, rows*cols elements of dtype
package blockfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/exp/constraints"

	"github.com/scigolib/matstream/internal/utils"
)

// Magic identifies a dense block matrix file.
const Magic = "MSBK1\n"

const headerSize = 24

// DType identifies the element type of a block file. Values are widened to
// float64 when read.
type DType uint16

// Supported element types.
const (
	Int8 DType = iota + 1
	Int16
	Int32
	Int64
	Float32
	Float64
)

// Size returns the element size in bytes, or 0 for an unknown dtype.
func (d DType) Size() int {
	switch d {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// String returns the dtype name.
func (d DType) String() string {
	switch d {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("dtype(%d)", uint16(d))
	}
}

// File is an open dense block matrix file. ReadColumns is safe for
// concurrent use: all reads go through ReadAt.
type File struct {
	f     *os.File
	dtype DType
	rows  int64
	cols  int64
}

// Open opens a block file for reading and validates its header against the
// actual file size.
func Open(path string) (*File, error) {
	//nolint:gosec // G304: user-provided path is intentional for a file library
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError("block file open failed", err)
	}

	magic := make([]byte, len(Magic))
	if _, err := f.ReadAt(magic, 0); err != nil {
		_ = f.Close()
		return nil, utils.WrapError("block file header read failed", err)
	}
	if string(magic) != Magic {
		_ = f.Close()
		return nil, errors.New("not a block matrix file")
	}

	dtypeCode, err := utils.ReadUint16(f, 6)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("block file header read failed", err)
	}
	dtype := DType(dtypeCode)
	if dtype.Size() == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("unsupported dtype code %d", dtypeCode)
	}

	rows, err := utils.ReadInt64(f, 8)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("block file header read failed", err)
	}
	cols, err := utils.ReadInt64(f, 16)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("block file header read failed", err)
	}
	if rows < 0 || cols < 0 {
		_ = f.Close()
		return nil, fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}

	elems, err := utils.SafeMul64(rows, cols)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("block file dimensions invalid", err)
	}
	dataBytes, err := utils.SafeMul64(elems, int64(dtype.Size()))
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("block file dimensions invalid", err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("block file stat failed", err)
	}
	if fi.Size() < headerSize+dataBytes {
		_ = f.Close()
		return nil, fmt.Errorf("truncated block file: have %d bytes, header claims %d",
			fi.Size(), headerSize+dataBytes)
	}

	return &File{f: f, dtype: dtype, rows: rows, cols: cols}, nil
}

// Rows returns the matrix row count.
func (f *File) Rows() int { return int(f.rows) }

// Cols returns the matrix column count.
func (f *File) Cols() int { return int(f.cols) }

// DType returns the stored element type.
func (f *File) DType() DType { return f.dtype }

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

// ReadColumns reads columns [start, end) and widens the values to float64
// in column-major order. Only the bytes covering the requested columns are
// read. The caller is responsible for range validation against Cols().
func (f *File) ReadColumns(start, end int) ([]float64, error) {
	off, n, err := utils.ColumnSpan(f.rows, int64(start), int64(end), int64(f.dtype.Size()))
	if err != nil {
		return nil, utils.WrapError("column span invalid", err)
	}
	buf := make([]byte, n)
	if _, err := f.f.ReadAt(buf, headerSize+off); err != nil {
		return nil, utils.WrapError("column read failed", err)
	}
	return decodeValues(f.dtype, buf)
}

type number interface {
	constraints.Integer | constraints.Float
}

// decode widens fixed-size little-endian elements to float64.
func decode[T number](buf []byte, size int, get func([]byte) T) []float64 {
	out := make([]float64, len(buf)/size)
	for i := range out {
		out[i] = float64(get(buf[i*size:]))
	}
	return out
}

func decodeValues(dtype DType, buf []byte) ([]float64, error) {
	switch dtype {
	case Int8:
		return decode(buf, 1, func(b []byte) int8 { return int8(b[0]) }), nil
	case Int16:
		return decode(buf, 2, func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }), nil
	case Int32:
		return decode(buf, 4, func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }), nil
	case Int64:
		return decode(buf, 8, func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) }), nil
	case Float32:
		return decode(buf, 4, func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }), nil
	case Float64:
		return decode(buf, 8, func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }), nil
	default:
		return nil, fmt.Errorf("unsupported dtype %s", dtype)
	}
}
