// Package main provides a command-line utility to compute streaming matrix
// statistics. It reads a dense block or sparse CSC matrix file in column
// chunks and prints per-axis summaries without loading the whole matrix.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/scigolib/matstream"
)

func main() {
	chunkSize := flag.Int("chunk", 1024, "Columns per chunk")
	workers := flag.Int("workers", 1, "Worker goroutines (1 = sequential)")
	maxChunks := flag.Int("max-chunks", 0, "Process only the first N chunks (0 = all)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: matstats [flags] <matrix file>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	src, err := matstream.OpenFile(args[0])
	if err != nil {
		log.Fatalf("Failed to open matrix: %v", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Printf("Failed to close matrix: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := matstream.Runner{
		ChunkSize:   *chunkSize,
		Concurrency: *workers,
		MaxChunks:   *maxChunks,
		InOrder:     true,
	}
	stats, err := runner.Run(ctx, src)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	var nnz int64
	var sum float64
	for i := range stats.RowN {
		nnz += stats.RowN[i]
		sum += stats.RowSum[i]
	}

	fmt.Printf("matrix: %d rows x %d cols (%d cols processed)\n",
		src.Rows(), src.Cols(), stats.ColsSeen())
	fmt.Printf("nonzero entries: %d\n", nnz)
	fmt.Printf("sum: %g\n", sum)

	rowMeans := stats.RowMeans()
	if len(rowMeans) > 0 {
		lo, hi := rowMeans[0], rowMeans[0]
		for _, m := range rowMeans[1:] {
			if m < lo {
				lo = m
			}
			if m > hi {
				hi = m
			}
		}
		fmt.Printf("row means: min %g, max %g\n", lo, hi)
	}
	colMeans := stats.ColMeans()
	if len(colMeans) > 0 {
		lo, hi := colMeans[0], colMeans[0]
		for _, m := range colMeans[1:] {
			if m < lo {
				lo = m
			}
			if m > hi {
				hi = m
			}
		}
		fmt.Printf("col means: min %g, max %g\n", lo, hi)
	}
}
