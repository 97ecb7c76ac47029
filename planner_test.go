package matstream

import (
	"errors"
	"testing"
)

func collectDescriptors(t *testing.T, plan *ChunkPlan) []Descriptor {
	t.Helper()
	var out []Descriptor
	for plan.Next() {
		out = append(out, plan.Descriptor())
	}
	return out
}

// TestPlanUnevenPartition: 10 columns in chunks of 4 yield [0,4), [4,8)
// and the short tail [8,10).
func TestPlanUnevenPartition(t *testing.T) {
	plan, err := Plan(10, 4)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	got := collectDescriptors(t, plan)
	want := []Descriptor{{0, 4}, {4, 8}, {8, 10}}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlanEvenPartition(t *testing.T) {
	plan, err := Plan(12, 4)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	got := collectDescriptors(t, plan)
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
	if last := got[2]; last.Len() != 4 {
		t.Errorf("last chunk length %d, want full chunk of 4", last.Len())
	}
}

func TestPlanSingleShortChunk(t *testing.T) {
	plan, err := Plan(3, 10)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	got := collectDescriptors(t, plan)
	if len(got) != 1 || got[0] != (Descriptor{0, 3}) {
		t.Fatalf("got %v, want single chunk [0,3)", got)
	}
}

func TestPlanZeroColumns(t *testing.T) {
	plan, err := Plan(0, 5)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Next() {
		t.Fatal("Next returned true for empty matrix")
	}
	if plan.NumChunks() != 0 {
		t.Fatalf("NumChunks = %d, want 0", plan.NumChunks())
	}
}

// TestPlanExhaustionIsTerminal verifies that Next keeps returning false
// after the plan runs out, rather than failing or wrapping around.
func TestPlanExhaustionIsTerminal(t *testing.T) {
	plan, err := Plan(5, 5)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !plan.Next() {
		t.Fatal("expected one chunk")
	}
	for i := 0; i < 3; i++ {
		if plan.Next() {
			t.Fatalf("Next returned true after exhaustion (call %d)", i)
		}
	}
}

func TestPlanMaxChunksTruncates(t *testing.T) {
	plan, err := Plan(100, 10, WithMaxChunks(2))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	got := collectDescriptors(t, plan)
	want := []Descriptor{{0, 10}, {10, 20}}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// TestPlanMaxChunksWithUnevenTail pins down the interaction of truncation
// and a short final chunk: truncation wins, so the yielded chunks are
// full-size unless one of them is also the matrix's last chunk.
func TestPlanMaxChunksWithUnevenTail(t *testing.T) {
	plan, err := Plan(10, 4, WithMaxChunks(2))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	got := collectDescriptors(t, plan)
	if len(got) != 2 || got[0] != (Descriptor{0, 4}) || got[1] != (Descriptor{4, 8}) {
		t.Fatalf("got %v, want [0,4) and [4,8)", got)
	}

	// Limit beyond the real chunk count changes nothing.
	plan, err = Plan(10, 4, WithMaxChunks(99))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := collectDescriptors(t, plan); len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
}

func TestPlanInvalidArguments(t *testing.T) {
	cases := []struct {
		name      string
		cols      int
		chunkSize int
	}{
		{"zero chunk size", 10, 0},
		{"negative chunk size", 10, -1},
		{"negative columns", -1, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Plan(tc.cols, tc.chunkSize)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

// TestPlanCoverageProperty sweeps small matrices and chunk sizes, checking
// that descriptors are contiguous, non-overlapping and exhaustive.
func TestPlanCoverageProperty(t *testing.T) {
	for cols := 1; cols <= 40; cols++ {
		for size := 1; size <= 9; size++ {
			plan, err := Plan(cols, size)
			if err != nil {
				t.Fatalf("Plan(%d, %d) failed: %v", cols, size, err)
			}

			next := 0
			count := 0
			for plan.Next() {
				d := plan.Descriptor()
				if d.Start != next {
					t.Fatalf("Plan(%d, %d): chunk starts at %d, want %d", cols, size, d.Start, next)
				}
				if d.Len() <= 0 || d.Len() > size {
					t.Fatalf("Plan(%d, %d): chunk length %d", cols, size, d.Len())
				}
				next = d.End
				count++
			}
			if next != cols {
				t.Fatalf("Plan(%d, %d): coverage ends at %d", cols, size, next)
			}
			if count != plan.NumChunks() {
				t.Fatalf("Plan(%d, %d): yielded %d chunks, NumChunks says %d", cols, size, count, plan.NumChunks())
			}

			wantLast := cols % size
			if wantLast == 0 {
				wantLast = size
			}
			if cols > 0 {
				// Re-derive the last chunk length from the count.
				lastLen := cols - (count-1)*size
				if lastLen != wantLast {
					t.Fatalf("Plan(%d, %d): last chunk length %d, want %d", cols, size, lastLen, wantLast)
				}
			}
		}
	}
}
