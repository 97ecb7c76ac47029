package matstream

// ReduceChunk computes per-row and per-column aggregates for one chunk.
// Row vectors span the full matrix (length chunk.Rows); column vectors
// have one entry per column in the chunk, in ascending column order.
//
// The count fields tally strictly non-zero values, so a CSC chunk carrying
// explicit zero entries produces the same result as its dense equivalent.
// Accumulation uses int64 counts and float64 sums regardless of the source
// element type, which the sources widen at decode time.
//
// ReduceChunk is a pure function of the chunk contents and is independent
// of chunk processing order, which is what makes parallel dispatch safe.
func ReduceChunk(c *Chunk) *Stats {
	s := NewStats(c.Rows)
	s.ColN = make([]int64, c.Cols)
	s.ColSum = make([]float64, c.Cols)
	s.ColSumSq = make([]float64, c.Cols)

	switch c.layout {
	case Dense:
		for col := 0; col < c.Cols; col++ {
			base := col * c.Rows
			for r := 0; r < c.Rows; r++ {
				v := c.values[base+r]
				if v == 0 {
					continue
				}
				sq := v * v
				s.RowN[r]++
				s.RowSum[r] += v
				s.RowSumSq[r] += sq
				s.ColN[col]++
				s.ColSum[col] += v
				s.ColSumSq[col] += sq
			}
		}
	case CSC:
		for col := 0; col < c.Cols; col++ {
			for k := c.colPtr[col]; k < c.colPtr[col+1]; k++ {
				v := c.data[k]
				if v == 0 {
					continue
				}
				r := c.rowIdx[k]
				sq := v * v
				s.RowN[r]++
				s.RowSum[r] += v
				s.RowSumSq[r] += sq
				s.ColN[col]++
				s.ColSum[col] += v
				s.ColSumSq[col] += sq
			}
		}
	}
	return s
}
