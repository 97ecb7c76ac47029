package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBufferSize(t *testing.T) {
	buf := GetBuffer(16)
	assert.Len(t, buf, 16)
	ReleaseBuffer(buf)
}

func TestGetBufferLargerThanPooled(t *testing.T) {
	buf := GetBuffer(64 * 1024)
	assert.Len(t, buf, 64*1024)
	assert.GreaterOrEqual(t, cap(buf), 64*1024)
	ReleaseBuffer(buf)
}

func TestBufferReuse(t *testing.T) {
	first := GetBuffer(8)
	first[0] = 0xAB
	ReleaseBuffer(first)

	// A fresh buffer must be fully addressable regardless of what the
	// previous user left behind.
	second := GetBuffer(8)
	assert.Len(t, second, 8)
	ReleaseBuffer(second)
}
