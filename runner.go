package matstream

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runner drives a chunked reduction over a Source: it plans column chunks,
// loads and reduces each one, and folds the partial results into a running
// total. A run is all-or-nothing: the first chunk failure cancels
// outstanding work, discards partial results, and surfaces a *ChunkError
// naming the failing chunk.
//
//	stats, err := matstream.Runner{ChunkSize: 1000, Concurrency: 4, InOrder: true}.Run(ctx, src)
//
// The zero value is not usable: ChunkSize must be positive.
type Runner struct {
	// ChunkSize is the number of columns per chunk.
	ChunkSize int

	// Concurrency is the number of worker goroutines loading and reducing
	// chunks. Values <= 1 select the fully synchronous path, where chunks
	// are processed one at a time and merged immediately.
	Concurrency int

	// MaxChunks, when positive, limits the run to the first MaxChunks
	// chunks of the plan, leaving the remaining columns untouched.
	MaxChunks int

	// InOrder forces merges to happen in ascending chunk order by buffering
	// completions that arrive early. Column aggregates are concatenated per
	// chunk, so InOrder must be set whenever column results matter; leaving
	// it false merges on arrival, which is only safe for row-only use.
	InOrder bool
}

// Run processes every planned chunk of src and returns the final totals.
// The context cancels both the planning loop and in-flight workers. Run
// never returns partial results alongside an error.
func (r Runner) Run(ctx context.Context, src Source) (*Stats, error) {
	var opts []PlanOption
	if r.MaxChunks > 0 {
		opts = append(opts, WithMaxChunks(r.MaxChunks))
	}
	plan, err := Plan(src.Cols(), r.ChunkSize, opts...)
	if err != nil {
		return nil, err
	}

	if r.Concurrency <= 1 {
		return r.runSequential(ctx, src, plan)
	}
	return r.runParallel(ctx, src, plan)
}

func (r Runner) runSequential(ctx context.Context, src Source, plan *ChunkPlan) (*Stats, error) {
	total := NewStats(src.Rows())
	for idx := 0; plan.Next(); idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := plan.Descriptor()
		chunk, err := src.LoadColumns(ctx, d.Start, d.End)
		if err != nil {
			return nil, &ChunkError{Index: idx, Err: err}
		}
		total.Merge(ReduceChunk(chunk))
	}
	return total, nil
}

// runParallel fans chunks out to a bounded worker pool. The coordinator
// goroutine only plans and merges; workers perform all matrix I/O and never
// touch the running total, so the total needs no locking.
func (r Runner) runParallel(parent context.Context, src Source, plan *ChunkPlan) (*Stats, error) {
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(r.Concurrency)

	type completion struct {
		index int
		stats *Stats
	}
	results := make(chan completion)

	// Dispatch from a separate goroutine: g.Go blocks once Concurrency
	// workers are in flight, which keeps the dispatch queue bounded.
	var workerErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for idx := 0; plan.Next(); idx++ {
			if ctx.Err() != nil {
				break
			}
			d := plan.Descriptor()
			idx := idx
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				chunk, err := src.LoadColumns(ctx, d.Start, d.End)
				if err != nil {
					return &ChunkError{Index: idx, Err: err}
				}
				stats := ReduceChunk(chunk)
				select {
				case results <- completion{index: idx, stats: stats}:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		workerErr = g.Wait()
		close(results)
	}()

	total := NewStats(src.Rows())
	if r.InOrder {
		// Buffer early completions and merge strictly in ascending chunk
		// order; column concatenation is not commutative.
		pending := make(map[int]*Stats)
		next := 0
		for res := range results {
			pending[res.index] = res.stats
			for {
				stats, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				total.Merge(stats)
				next++
			}
		}
	} else {
		for res := range results {
			total.Merge(res.stats)
		}
	}

	<-done
	if workerErr != nil {
		return nil, workerErr
	}
	// External cancellation can stop dispatch before any worker runs, in
	// which case the group has no error to report.
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return total, nil
}
