package utils

import "encoding/binary"

// ReaderAt is the subset of io.ReaderAt the read helpers need.
type ReaderAt interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// The matstream block formats store all multi-byte fields little-endian.

// ReadUint16 reads a 16-bit value at the given offset.
func ReadUint16(r ReaderAt, offset int64) (uint16, error) {
	buf := GetBuffer(2)
	defer ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadUint64 reads a 64-bit value at the given offset.
func ReadUint64(r ReaderAt, offset int64) (uint64, error) {
	buf := GetBuffer(8)
	defer ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadInt64 reads a 64-bit value at the given offset as a signed integer.
func ReadInt64(r ReaderAt, offset int64) (int64, error) {
	v, err := ReadUint64(r, offset)
	return int64(v), err
}
