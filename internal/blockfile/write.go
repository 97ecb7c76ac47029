package blockfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/scigolib/matstream/internal/utils"
)

// Create writes a complete block matrix file. values must hold rows*cols
// elements in column-major order; they are narrowed from float64 to dtype
// on write (integer dtypes truncate toward zero).
func Create(path string, dtype DType, rows, cols int, values []float64) error {
	if dtype.Size() == 0 {
		return fmt.Errorf("unsupported dtype code %d", uint16(dtype))
	}
	if rows < 0 || cols < 0 {
		return fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}
	if len(values) != rows*cols {
		return fmt.Errorf("%d values for %dx%d matrix", len(values), rows, cols)
	}

	//nolint:gosec // G304: user-provided path is intentional for a file library
	f, err := os.Create(path)
	if err != nil {
		return utils.WrapError("block file create failed", err)
	}

	w := bufio.NewWriter(f)
	header := make([]byte, headerSize)
	copy(header, Magic)
	binary.LittleEndian.PutUint16(header[6:], uint16(dtype))
	binary.LittleEndian.PutUint64(header[8:], uint64(rows))
	binary.LittleEndian.PutUint64(header[16:], uint64(cols))
	if _, err := w.Write(header); err != nil {
		_ = f.Close()
		return utils.WrapError("block file header write failed", err)
	}

	if err := encodeValues(w, dtype, values); err != nil {
		_ = f.Close()
		return utils.WrapError("block file data write failed", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return utils.WrapError("block file flush failed", err)
	}
	return f.Close()
}

func encode[T number](w *bufio.Writer, size int, values []float64, conv func(float64) T, put func([]byte, T)) error {
	buf := make([]byte, size)
	for _, v := range values {
		put(buf, conv(v))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func encodeValues(w *bufio.Writer, dtype DType, values []float64) error {
	switch dtype {
	case Int8:
		return encode(w, 1, values,
			func(v float64) int8 { return int8(v) },
			func(b []byte, v int8) { b[0] = byte(v) })
	case Int16:
		return encode(w, 2, values,
			func(v float64) int16 { return int16(v) },
			func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) })
	case Int32:
		return encode(w, 4, values,
			func(v float64) int32 { return int32(v) },
			func(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) })
	case Int64:
		return encode(w, 8, values,
			func(v float64) int64 { return int64(v) },
			func(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) })
	case Float32:
		return encode(w, 4, values,
			func(v float64) float32 { return float32(v) },
			func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) })
	case Float64:
		return encode(w, 8, values,
			func(v float64) float64 { return v },
			func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) })
	default:
		return fmt.Errorf("unsupported dtype %s", dtype)
	}
}
