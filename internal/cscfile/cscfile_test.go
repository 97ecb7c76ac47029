package cscfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a 4x5 matrix with a mix of empty, sparse and full columns:
//
//	col 0: (row 1, 2.5)
//	col 1: empty
//	col 2: (row 0, -1), (row 3, 4)
//	col 3: (row 2, 8)
//	col 4: (row 0, 1), (row 1, 1), (row 2, 1), (row 3, 1)
var (
	fixtureRows   = 4
	fixtureCols   = 5
	fixtureData   = []float64{2.5, -1, 4, 8, 1, 1, 1, 1}
	fixtureRowIdx = []int{1, 0, 3, 2, 0, 1, 2, 3}
	fixtureColPtr = []int{0, 1, 1, 3, 4, 8}
)

func createFixture(t *testing.T, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.mscs")
	require.NoError(t, Create(path, fixtureRows, fixtureCols, fixtureData, fixtureRowIdx, fixtureColPtr, compress))
	return path
}

func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "uncompressed"
		if compress {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			f, err := Open(createFixture(t, compress))
			require.NoError(t, err)
			defer func() { require.NoError(t, f.Close()) }()

			assert.Equal(t, fixtureRows, f.Rows())
			assert.Equal(t, fixtureCols, f.Cols())
			assert.Equal(t, len(fixtureData), f.NNZ())
			assert.Equal(t, compress, f.Compressed())

			data, rowIdx, colPtr, err := f.ReadColumns(0, fixtureCols)
			require.NoError(t, err)
			assert.Equal(t, fixtureData, data)
			assert.Equal(t, fixtureRowIdx, rowIdx)
			assert.Equal(t, fixtureColPtr, colPtr)
		})
	}
}

// TestReadColumnsInterior slices the middle of the matrix and checks the
// rebased offsets entry by entry. indptr is stored 0-based; a one-off in
// the rebasing shows up here immediately.
func TestReadColumnsInterior(t *testing.T) {
	f, err := Open(createFixture(t, false))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	// Columns [2, 4): entries of col 2 and col 3 only.
	data, rowIdx, colPtr, err := f.ReadColumns(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 4, 8}, data)
	assert.Equal(t, []int{0, 3, 2}, rowIdx)
	assert.Equal(t, []int{0, 2, 3}, colPtr)

	// A single empty column yields empty arrays and a zero offset pair.
	data, rowIdx, colPtr, err = f.ReadColumns(1, 2)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Empty(t, rowIdx)
	assert.Equal(t, []int{0, 0}, colPtr)
}

func TestReadColumnsPerColumn(t *testing.T) {
	for _, compress := range []bool{false, true} {
		f, err := Open(createFixture(t, compress))
		require.NoError(t, err)

		for c := 0; c < fixtureCols; c++ {
			data, rowIdx, colPtr, err := f.ReadColumns(c, c+1)
			require.NoError(t, err)

			lo, hi := fixtureColPtr[c], fixtureColPtr[c+1]
			assert.Equal(t, fixtureData[lo:hi], data, "column %d values", c)
			assert.Equal(t, fixtureRowIdx[lo:hi], rowIdx, "column %d row indices", c)
			assert.Equal(t, []int{0, hi - lo}, colPtr, "column %d offsets", c)
		}
		require.NoError(t, f.Close())
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mscs")
	require.NoError(t, os.WriteFile(path, []byte("NOPE!\nxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a CSC matrix file")
}

func TestOpenRejectsTruncatedPayload(t *testing.T) {
	path := createFixture(t, false)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-4], 0o600))

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestCreateValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.mscs")

	// colPtr length must be cols+1.
	assert.Error(t, Create(path, 2, 2, nil, nil, []int{0}, false))
	// colPtr must start at 0.
	assert.Error(t, Create(path, 2, 1, []float64{1}, []int{0}, []int{1, 1}, false))
	// colPtr must be monotone.
	assert.Error(t, Create(path, 2, 2, []float64{1}, []int{0}, []int{0, 1, 0}, false))
	// data/rowIdx lengths must match colPtr[cols].
	assert.Error(t, Create(path, 2, 1, []float64{1, 2}, []int{0, 1}, []int{0, 1}, false))
	// row indices must be inside [0, rows).
	assert.Error(t, Create(path, 2, 1, []float64{1}, []int{2}, []int{0, 1}, false))
}

// TestCompressionShrinksRepetitivePayload sanity-checks that the zstd path
// actually engages on compressible data.
func TestCompressionShrinksRepetitivePayload(t *testing.T) {
	const rows, cols, perCol = 1000, 50, 100
	nnz := cols * perCol
	data := make([]float64, nnz)
	rowIdx := make([]int, nnz)
	colPtr := make([]int, cols+1)
	for c := 0; c < cols; c++ {
		for i := 0; i < perCol; i++ {
			data[c*perCol+i] = 1
			rowIdx[c*perCol+i] = i
		}
		colPtr[c+1] = (c + 1) * perCol
	}

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.mscs")
	packed := filepath.Join(dir, "packed.mscs")
	require.NoError(t, Create(plain, rows, cols, data, rowIdx, colPtr, false))
	require.NoError(t, Create(packed, rows, cols, data, rowIdx, colPtr, true))

	plainInfo, err := os.Stat(plain)
	require.NoError(t, err)
	packedInfo, err := os.Stat(packed)
	require.NoError(t, err)
	assert.Less(t, packedInfo.Size(), plainInfo.Size()/2)

	// And the compressed file still reads back correctly.
	f, err := Open(packed)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	got, _, _, err := f.ReadColumns(10, 12)
	require.NoError(t, err)
	assert.Len(t, got, 2*perCol)
}
