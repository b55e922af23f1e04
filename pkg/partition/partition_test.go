package partition

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func files(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("f%02d.txt", i)
	}
	return out
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		n, p  int
		sizes []int
	}{
		{"empty", 0, 4, nil},
		{"single worker", 5, 1, []int{5}},
		{"even", 8, 4, []int{2, 2, 2, 2}},
		{"uneven", 10, 4, []int{3, 3, 2, 2}},
		{"more workers than files", 3, 8, []int{1, 1, 1}},
		{"zero degree", 3, 0, []int{3}},
		{"negative degree", 2, -1, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := Chunk(files(tt.n), tt.p)
			var sizes []int
			for _, part := range parts {
				sizes = append(sizes, len(part))
			}
			assert.Equal(t, tt.sizes, sizes)
		})
	}
}

func TestEach(t *testing.T) {
	parts := Each(files(3))
	require.Len(t, parts, 3)
	for i, part := range parts {
		assert.Equal(t, []string{fmt.Sprintf("f%02d.txt", i)}, part)
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Chunked, s)

	s, err = ParseStrategy("per-file")
	require.NoError(t, err)
	assert.Equal(t, PerFile, s)

	_, err = ParseStrategy("round-robin")
	assert.Error(t, err)
}

func TestParallelism(t *testing.T) {
	assert.Equal(t, 3, Parallelism(3))
	assert.GreaterOrEqual(t, Parallelism(0), 1)
}

func TestSplit_Coverage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 64).Draw(t, "files")
		p := rapid.IntRange(-2, 80).Draw(t, "degree")
		strategy := rapid.SampledFrom([]Strategy{Chunked, PerFile}).Draw(t, "strategy")

		in := files(n)
		parts := Split(in, strategy, p)

		var flat []string
		minSize, maxSize := n, 0
		for _, part := range parts {
			if len(part) == 0 {
				t.Fatalf("empty partition in %v", parts)
			}
			flat = append(flat, part...)
			minSize = min(minSize, len(part))
			maxSize = max(maxSize, len(part))
		}
		if !slices.Equal(flat, in) {
			t.Fatalf("partitions %v do not cover %v in order", parts, in)
		}
		if n > 0 && maxSize-minSize > 1 {
			t.Fatalf("partition sizes differ by %d", maxSize-minSize)
		}
		if strategy == Chunked && len(parts) > max(p, 1) {
			t.Fatalf("got %d partitions for degree %d", len(parts), p)
		}
	})
}

func TestChunk_AppendDoesNotClobberNeighbour(t *testing.T) {
	in := files(4)
	parts := Chunk(in, 2)
	grown := append(parts[0], "extra")
	assert.Len(t, grown, 3)
	assert.Equal(t, "f02.txt", parts[1][0])
	assert.Equal(t, "f02.txt", in[2])
}
