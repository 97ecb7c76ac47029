package matstream

// Layout indicates how a Chunk stores its values.
type Layout int

const (
	// Dense stores every entry, including zeros, in column-major order.
	Dense Layout = iota
	// CSC stores only non-zero entries with row indices and per-column
	// offsets (compressed sparse column).
	CSC
)

// Chunk is a materialized block of matrix columns, produced by a Source and
// consumed by ReduceChunk. A chunk always spans every row of the matrix but
// only the columns [Start, Start+Cols) of it. Chunks are read-only once
// constructed and are meant to be discarded after one reduction step, so
// peak memory is bounded by the chunk size rather than the matrix size.
type Chunk struct {
	Rows  int
	Cols  int
	Start int // first matrix column covered by this chunk

	layout Layout

	// Dense layout: values[c*Rows+r] is entry (r, Start+c).
	values []float64

	// CSC layout: colPtr has Cols+1 entries with colPtr[0] == 0;
	// column c's entries are data[colPtr[c]:colPtr[c+1]] with matching
	// row indices in rowIdx. Offsets are 0-based relative to the chunk.
	data   []float64
	rowIdx []int
	colPtr []int
}

// NewDenseChunk wraps a column-major value slice as a dense chunk.
// len(values) must equal rows*cols.
func NewDenseChunk(rows, cols, start int, values []float64) *Chunk {
	return &Chunk{
		Rows:   rows,
		Cols:   cols,
		Start:  start,
		layout: Dense,
		values: values,
	}
}

// NewCSCChunk wraps compressed sparse column arrays as a chunk. colPtr must
// have cols+1 entries rebased so colPtr[0] == 0; data and rowIdx must have
// colPtr[cols] entries.
func NewCSCChunk(rows, cols, start int, data []float64, rowIdx, colPtr []int) *Chunk {
	return &Chunk{
		Rows:   rows,
		Cols:   cols,
		Start:  start,
		layout: CSC,
		data:   data,
		rowIdx: rowIdx,
		colPtr: colPtr,
	}
}

// Layout reports how the chunk stores its values.
func (c *Chunk) Layout() Layout {
	return c.layout
}

// At returns the entry at row r and chunk-relative column col.
// For CSC chunks this scans the column's non-zero entries.
func (c *Chunk) At(r, col int) float64 {
	if c.layout == Dense {
		return c.values[col*c.Rows+r]
	}
	for k := c.colPtr[col]; k < c.colPtr[col+1]; k++ {
		if c.rowIdx[k] == r {
			return c.data[k]
		}
	}
	return 0
}

// NNZ returns the number of stored entries. For dense chunks this counts
// strictly non-zero values; for CSC chunks it is the stored entry count,
// which may include explicit zeros.
func (c *Chunk) NNZ() int {
	if c.layout == CSC {
		return len(c.data)
	}
	n := 0
	for _, v := range c.values {
		if v != 0 {
			n++
		}
	}
	return n
}
