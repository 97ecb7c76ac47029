package matstream

import "fmt"

// Descriptor identifies one chunk of matrix columns as the half-open
// range [Start, End). Descriptors produced by a ChunkPlan are contiguous,
// non-overlapping and ordered by ascending Start.
type Descriptor struct {
	Start int
	End   int
}

// Len returns the number of columns in the chunk.
func (d Descriptor) Len() int {
	return d.End - d.Start
}

// PlanOption configures a ChunkPlan.
type PlanOption func(*ChunkPlan)

// WithMaxChunks limits the plan to its first n descriptors, leaving the
// remaining columns unplanned. This is the "process a prefix" exploration
// mode: the first n chunks are identical to those of an unlimited plan, so
// truncation takes precedence over the short final chunk of the full
// partition. A negative n means no limit.
func WithMaxChunks(n int) PlanOption {
	return func(p *ChunkPlan) {
		p.maxChunks = n
	}
}

// ChunkPlan lazily partitions the columns of a matrix into chunks.
// It follows the Go scanner pattern (bufio.Scanner):
//
//	plan, err := matstream.Plan(cols, 1000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for plan.Next() {
//	    d := plan.Descriptor()
//	    // load and reduce columns [d.Start, d.End)
//	}
//
// Next returns false once the plan is exhausted; this is a terminal state,
// not a failure, and further calls keep returning false. A ChunkPlan is a
// single-owner cursor: create a fresh plan to iterate again.
type ChunkPlan struct {
	totalColumns int
	chunkSize    int
	maxChunks    int // negative means unlimited
	next         int // index of the next chunk to yield
	cur          Descriptor
}

// Plan partitions [0, totalColumns) into chunks of chunkSize columns.
// The last chunk may be shorter when totalColumns is not evenly divisible.
// Returns ErrInvalidArgument if chunkSize <= 0 or totalColumns < 0.
func Plan(totalColumns, chunkSize int, opts ...PlanOption) (*ChunkPlan, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidArgument, chunkSize)
	}
	if totalColumns < 0 {
		return nil, fmt.Errorf("%w: column count must be non-negative, got %d", ErrInvalidArgument, totalColumns)
	}

	p := &ChunkPlan{
		totalColumns: totalColumns,
		chunkSize:    chunkSize,
		maxChunks:    -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NumChunks returns the total number of descriptors the plan will yield.
func (p *ChunkPlan) NumChunks() int {
	n := (p.totalColumns + p.chunkSize - 1) / p.chunkSize
	if p.maxChunks >= 0 && p.maxChunks < n {
		n = p.maxChunks
	}
	return n
}

// Next advances the plan to the next chunk. It returns false when the plan
// is exhausted or truncated by WithMaxChunks.
func (p *ChunkPlan) Next() bool {
	if p.maxChunks >= 0 && p.next >= p.maxChunks {
		return false
	}
	start := p.next * p.chunkSize
	if start >= p.totalColumns {
		return false
	}
	end := start + p.chunkSize
	if end > p.totalColumns {
		end = p.totalColumns
	}
	p.cur = Descriptor{Start: start, End: end}
	p.next++
	return true
}

// Descriptor returns the chunk selected by the last successful Next call.
func (p *ChunkPlan) Descriptor() Descriptor {
	return p.cur
}
