package cscfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/scigolib/matstream/internal/utils"
)

// Create writes a complete CSC matrix file. colPtr must hold cols+1
// monotone 0-based offsets with colPtr[0] == 0; data and rowIdx must hold
// colPtr[cols] entries. With compress set, the row index and value arrays
// are stored as a single zstd frame.
func Create(path string, rows, cols int, data []float64, rowIdx, colPtr []int, compress bool) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}
	if len(colPtr) != cols+1 {
		return fmt.Errorf("colPtr has %d entries, want %d", len(colPtr), cols+1)
	}
	if colPtr[0] != 0 {
		return fmt.Errorf("colPtr[0] = %d, want 0", colPtr[0])
	}
	for i := 1; i < len(colPtr); i++ {
		if colPtr[i] < colPtr[i-1] {
			return fmt.Errorf("colPtr not monotone at column %d", i)
		}
	}
	nnz := colPtr[cols]
	if len(data) != nnz || len(rowIdx) != nnz {
		return fmt.Errorf("%d values and %d row indices for nnz %d", len(data), len(rowIdx), nnz)
	}
	for _, r := range rowIdx {
		if r < 0 || r >= rows {
			return fmt.Errorf("row index %d outside %d rows", r, rows)
		}
	}

	payload := make([]byte, nnz*16)
	for i, r := range rowIdx {
		binary.LittleEndian.PutUint64(payload[i*8:], uint64(r))
	}
	for i, v := range data {
		binary.LittleEndian.PutUint64(payload[nnz*8+i*8:], math.Float64bits(v))
	}

	var flags uint16
	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return utils.WrapError("zstd writer init failed", err)
		}
		payload = enc.EncodeAll(payload, nil)
		if err := enc.Close(); err != nil {
			return utils.WrapError("zstd writer close failed", err)
		}
		flags |= flagCompressed
	}

	header := make([]byte, headerSize)
	copy(header, Magic)
	binary.LittleEndian.PutUint16(header[6:], flags)
	binary.LittleEndian.PutUint64(header[8:], uint64(rows))
	binary.LittleEndian.PutUint64(header[16:], uint64(cols))
	binary.LittleEndian.PutUint64(header[24:], uint64(nnz))
	binary.LittleEndian.PutUint64(header[32:], uint64(len(payload)))

	indptr := make([]byte, (cols+1)*8)
	for i, v := range colPtr {
		binary.LittleEndian.PutUint64(indptr[i*8:], uint64(v))
	}

	//nolint:gosec // G304: user-provided path is intentional for a file library
	f, err := os.Create(path)
	if err != nil {
		return utils.WrapError("csc file create failed", err)
	}
	for _, section := range [][]byte{header, indptr, payload} {
		if _, err := f.Write(section); err != nil {
			_ = f.Close()
			return utils.WrapError("csc file write failed", err)
		}
	}
	return f.Close()
}
