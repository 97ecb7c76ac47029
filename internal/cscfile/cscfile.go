// Package cscfile implements the matstream compressed-sparse-column matrix
// format. Non-zero values are stored in column-major order alongside their
// row indices, with a per-column offset index (indptr) that makes any
// column range addressable without touching the rest of the file.
//
// File layout:
//
//	offset 0   magic "MSCS1\n" (6 bytes)
//	offset 6   flags (uint16); bit 0 set means the payload is one zstd frame
//	offset 8   rows (uint64)
//	offset 16  cols (uint64)
//	offset 24  nnz (uint64)
//	offset 32  payload length in bytes as stored (uint64)
//	offset 40  indptr: cols+1 uint64 entries, 0-based, never compressed
//	then       payload: row indices (nnz uint64) followed by values
//	           (nnz float64)
//
// indptr[i] is the 0-based offset of column i's first entry in the row
// index and value arrays, with indptr[cols] == nnz. The index stays
// uncompressed so chunk extraction can read exactly
// indptr[start : end+1] and then the corresponding payload slices.
//
// Compressed files trade random access for size: zstd frames cannot be
// sliced, so the payload is decompressed once on first read and cached for
// the life of the File. Uncompressed files are read strictly per chunk.
package cscfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/scigolib/matstream/internal/utils"
)

// Magic identifies a CSC matrix file.
const Magic = "MSCS1\n"

const (
	headerSize     = 40
	flagCompressed = 1 << 0
)

// File is an open CSC matrix file. ReadColumns is safe for concurrent use.
type File struct {
	f          *os.File
	rows       int64
	cols       int64
	nnz        int64
	compressed bool
	payloadOff int64 // byte offset of the payload section
	payloadLen int64 // stored byte length of the payload section

	mu      sync.Mutex
	payload []byte // decompressed payload cache, compressed files only
}

// Open opens a CSC file for reading and validates its header.
func Open(path string) (*File, error) {
	//nolint:gosec // G304: user-provided path is intentional for a file library
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError("csc file open failed", err)
	}

	magic := make([]byte, len(Magic))
	if _, err := f.ReadAt(magic, 0); err != nil {
		_ = f.Close()
		return nil, utils.WrapError("csc file header read failed", err)
	}
	if string(magic) != Magic {
		_ = f.Close()
		return nil, errors.New("not a CSC matrix file")
	}

	flags, err := utils.ReadUint16(f, 6)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("csc file header read failed", err)
	}
	var fields [4]int64
	for i, off := range []int64{8, 16, 24, 32} {
		v, err := utils.ReadInt64(f, off)
		if err != nil {
			_ = f.Close()
			return nil, utils.WrapError("csc file header read failed", err)
		}
		if v < 0 {
			_ = f.Close()
			return nil, fmt.Errorf("negative header field at offset %d", off)
		}
		fields[i] = v
	}
	rows, cols, nnz, payloadLen := fields[0], fields[1], fields[2], fields[3]

	indptrBytes, err := utils.SafeMul64(cols+1, 8)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("csc file dimensions invalid", err)
	}
	payloadOff := headerSize + indptrBytes

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("csc file stat failed", err)
	}
	if fi.Size() < payloadOff+payloadLen {
		_ = f.Close()
		return nil, fmt.Errorf("truncated csc file: have %d bytes, header claims %d",
			fi.Size(), payloadOff+payloadLen)
	}

	return &File{
		f:          f,
		rows:       rows,
		cols:       cols,
		nnz:        nnz,
		compressed: flags&flagCompressed != 0,
		payloadOff: payloadOff,
		payloadLen: payloadLen,
	}, nil
}

// Rows returns the matrix row count.
func (f *File) Rows() int { return int(f.rows) }

// Cols returns the matrix column count.
func (f *File) Cols() int { return int(f.cols) }

// NNZ returns the number of stored entries.
func (f *File) NNZ() int { return int(f.nnz) }

// Compressed reports whether the payload is zstd-compressed.
func (f *File) Compressed() bool { return f.compressed }

// Close closes the underlying file and drops any cached payload.
func (f *File) Close() error {
	f.mu.Lock()
	f.payload = nil
	f.mu.Unlock()
	return f.f.Close()
}

// ReadColumns extracts columns [start, end): the stored values, their row
// indices, and column offsets rebased so colPtr[0] == 0. The caller is
// responsible for range validation against Cols().
func (f *File) ReadColumns(start, end int) (data []float64, rowIdx []int, colPtr []int, err error) {
	ncols := end - start
	ptrBuf := make([]byte, (ncols+1)*8)
	if _, err := f.f.ReadAt(ptrBuf, headerSize+int64(start)*8); err != nil {
		return nil, nil, nil, utils.WrapError("indptr read failed", err)
	}
	raw := make([]int64, ncols+1)
	for i := range raw {
		raw[i] = int64(binary.LittleEndian.Uint64(ptrBuf[i*8:]))
		if raw[i] < 0 || raw[i] > f.nnz {
			return nil, nil, nil, fmt.Errorf("indptr entry %d out of range: %d", start+i, raw[i])
		}
	}
	lo, hi := raw[0], raw[ncols]
	if hi < lo {
		return nil, nil, nil, fmt.Errorf("indptr not monotone over columns [%d, %d)", start, end)
	}

	// Rebase offsets relative to the chunk. indptr is stored 0-based, so
	// subtracting lo is the whole conversion; the equivalence tests against
	// dense extraction pin this down.
	colPtr = make([]int, ncols+1)
	for i, v := range raw {
		colPtr[i] = int(v - lo)
	}

	idxBuf, valBuf, err := f.payloadSlices(lo, hi)
	if err != nil {
		return nil, nil, nil, err
	}

	n := int(hi - lo)
	rowIdx = make([]int, n)
	data = make([]float64, n)
	for i := 0; i < n; i++ {
		r := int64(binary.LittleEndian.Uint64(idxBuf[i*8:]))
		if r < 0 || r >= f.rows {
			return nil, nil, nil, fmt.Errorf("row index %d outside %d rows", r, f.rows)
		}
		rowIdx[i] = int(r)
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(valBuf[i*8:]))
	}
	return data, rowIdx, colPtr, nil
}

// payloadSlices returns the byte ranges holding entries [lo, hi) of the row
// index and value arrays.
func (f *File) payloadSlices(lo, hi int64) (idx, val []byte, err error) {
	n := hi - lo
	if f.compressed {
		payload, err := f.loadPayload()
		if err != nil {
			return nil, nil, err
		}
		idxOff := lo * 8
		valOff := f.nnz*8 + lo*8
		return payload[idxOff : idxOff+n*8], payload[valOff : valOff+n*8], nil
	}

	idx = make([]byte, n*8)
	if _, err := f.f.ReadAt(idx, f.payloadOff+lo*8); err != nil {
		return nil, nil, utils.WrapError("row index read failed", err)
	}
	val = make([]byte, n*8)
	if _, err := f.f.ReadAt(val, f.payloadOff+f.nnz*8+lo*8); err != nil {
		return nil, nil, utils.WrapError("value read failed", err)
	}
	return idx, val, nil
}

// loadPayload decompresses the whole payload once and caches it.
func (f *File) loadPayload() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payload != nil {
		return f.payload, nil
	}

	compressed := make([]byte, f.payloadLen)
	if _, err := f.f.ReadAt(compressed, f.payloadOff); err != nil {
		return nil, utils.WrapError("payload read failed", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, utils.WrapError("zstd reader init failed", err)
	}
	defer dec.Close()

	want, err := utils.SafeMul64(f.nnz, 16)
	if err != nil {
		return nil, utils.WrapError("payload size invalid", err)
	}
	payload, err := dec.DecodeAll(compressed, make([]byte, 0, want))
	if err != nil {
		return nil, utils.WrapError("payload decompression failed", err)
	}
	if int64(len(payload)) != want {
		return nil, fmt.Errorf("payload decompressed to %d bytes, want %d", len(payload), want)
	}
	f.payload = payload
	return payload, nil
}
