// Package matstream computes per-row and per-column summary statistics
// (non-zero counts, sums, sums of squares) over matrices too large to hold
// in memory, by streaming column chunks from a backing Source and folding
// partial results into a running total.
//
// The pipeline has four pieces: a ChunkPlan partitions the column range
// into ordered chunks, a Source materializes each chunk from dense or
// sparse (CSC) storage, ReduceChunk aggregates one chunk, and Stats.Merge
// folds partials together. Runner drives the pipeline either sequentially
// or across a bounded worker pool with order-preserving merges, so results
// are identical regardless of concurrency.
package matstream
