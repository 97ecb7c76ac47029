package utils

import (
	"fmt"
	"math"
)

// SafeMul64 multiplies two non-negative int64 values, failing instead of
// overflowing. File headers are attacker-controlled input, so every size
// computed from them goes through here.
func SafeMul64(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("negative operand: %d * %d", a, b)
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt64/b {
		return 0, fmt.Errorf("multiplication overflow: %d * %d exceeds int64 max", a, b)
	}
	return a * b, nil
}

// ColumnSpan computes the byte offset and length of columns [start, end) in
// a column-major data section where each column holds rows elements of
// elemSize bytes. All arithmetic is overflow-checked.
func ColumnSpan(rows, start, end, elemSize int64) (off, n int64, err error) {
	colBytes, err := SafeMul64(rows, elemSize)
	if err != nil {
		return 0, 0, err
	}
	off, err = SafeMul64(start, colBytes)
	if err != nil {
		return 0, 0, err
	}
	n, err = SafeMul64(end-start, colBytes)
	if err != nil {
		return 0, 0, err
	}
	return off, n, nil
}
