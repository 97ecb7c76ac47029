package matstream

import "fmt"

// Stats holds running per-row and per-column aggregates: the count of
// strictly non-zero entries, the sum, and the sum of squares along each
// axis. Row vectors have fixed length equal to the matrix row count and
// are combined by element-wise addition. Column vectors grow chunk by
// chunk: each processed chunk contributes one entry per column it covers,
// appended in ascending column order.
//
// A freshly constructed Stats is the merge identity: zero-filled row
// vectors and empty column vectors.
type Stats struct {
	RowN     []int64
	RowSum   []float64
	RowSumSq []float64

	ColN     []int64
	ColSum   []float64
	ColSumSq []float64
}

// NewStats returns the identity element for a matrix with the given number
// of rows.
func NewStats(rows int) *Stats {
	return &Stats{
		RowN:     make([]int64, rows),
		RowSum:   make([]float64, rows),
		RowSumSq: make([]float64, rows),
	}
}

// Rows returns the fixed row count the stats were built for.
func (s *Stats) Rows() int {
	return len(s.RowN)
}

// ColsSeen returns the number of columns folded in so far.
func (s *Stats) ColsSeen() int {
	return len(s.ColN)
}

// AddRows folds other's row aggregates into s by element-wise addition.
// This operation is associative and commutative, so row totals are
// independent of the order chunks complete in. Both operands must describe
// the same matrix; a row-length mismatch is a programming error and panics.
func (s *Stats) AddRows(other *Stats) {
	if len(s.RowN) != len(other.RowN) {
		panic(fmt.Sprintf("matstream: row vector length mismatch: %d != %d", len(s.RowN), len(other.RowN)))
	}
	for i := range other.RowN {
		s.RowN[i] += other.RowN[i]
		s.RowSum[i] += other.RowSum[i]
		s.RowSumSq[i] += other.RowSumSq[i]
	}
}

// AppendColumns appends other's column aggregates after s's. Concatenation
// is associative but not commutative: the caller must supply operands in
// ascending column order, because which column is which is semantically
// meaningful.
func (s *Stats) AppendColumns(other *Stats) {
	s.ColN = append(s.ColN, other.ColN...)
	s.ColSum = append(s.ColSum, other.ColSum...)
	s.ColSumSq = append(s.ColSumSq, other.ColSumSq...)
}

// Merge folds other into s: row aggregates by addition, column aggregates
// by concatenation with other's columns after s's. Row addition and column
// concatenation are kept as separately callable operations so each merge
// rule stays tied to the right fields.
func (s *Stats) Merge(other *Stats) {
	s.AddRows(other)
	s.AppendColumns(other)
}

// RowMeans returns the per-row mean over every column processed so far,
// counting zero entries. Returns nil before any columns have been folded.
func (s *Stats) RowMeans() []float64 {
	n := s.ColsSeen()
	if n == 0 {
		return nil
	}
	out := make([]float64, len(s.RowSum))
	for i, sum := range s.RowSum {
		out[i] = sum / float64(n)
	}
	return out
}

// RowVariances returns the per-row sample variance over every column
// processed so far, counting zero entries. Rows need at least two columns
// of observations; with fewer, entries are zero.
func (s *Stats) RowVariances() []float64 {
	n := float64(s.ColsSeen())
	if n < 2 {
		return make([]float64, len(s.RowSum))
	}
	out := make([]float64, len(s.RowSum))
	for i := range s.RowSum {
		mean := s.RowSum[i] / n
		out[i] = (s.RowSumSq[i] - n*mean*mean) / (n - 1)
	}
	return out
}

// ColMeans returns the per-column mean over all rows, counting zero entries.
func (s *Stats) ColMeans() []float64 {
	n := float64(s.Rows())
	out := make([]float64, len(s.ColSum))
	if n == 0 {
		return out
	}
	for i, sum := range s.ColSum {
		out[i] = sum / n
	}
	return out
}

// ColVariances returns the per-column sample variance over all rows,
// counting zero entries.
func (s *Stats) ColVariances() []float64 {
	n := float64(s.Rows())
	out := make([]float64, len(s.ColSum))
	if n < 2 {
		return out
	}
	for i := range s.ColSum {
		mean := s.ColSum[i] / n
		out[i] = (s.ColSumSq[i] - n*mean*mean) / (n - 1)
	}
	return out
}
