// Package partition splits the input file list into units of work.
package partition

import (
	"fmt"
	"runtime"
)

// Strategy selects how files are grouped into partitions.
type Strategy string

const (
	// Chunked groups files into at most P contiguous partitions.
	Chunked Strategy = "chunked"
	// PerFile makes every file its own partition.
	PerFile Strategy = "per-file"
)

// ParseStrategy validates a strategy name. Empty means Chunked.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", Chunked:
		return Chunked, nil
	case PerFile:
		return PerFile, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, Chunked, PerFile)
	}
}

// Parallelism returns n when positive, otherwise the number of CPUs.
func Parallelism(n int) int {
	if n > 0 {
		return n
	}
	return max(runtime.NumCPU(), 1)
}

// Split partitions paths with the given strategy and parallelism degree.
func Split(paths []string, s Strategy, p int) [][]string {
	if s == PerFile {
		return Each(paths)
	}
	return Chunk(paths, p)
}

// Chunk splits paths into min(p, len(paths)) contiguous, order-preserving
// partitions whose sizes differ by at most one. p < 1 is treated as 1.
func Chunk(paths []string, p int) [][]string {
	if len(paths) == 0 {
		return nil
	}
	p = min(max(p, 1), len(paths))

	size, extra := len(paths)/p, len(paths)%p
	parts := make([][]string, 0, p)
	start := 0
	for i := range p {
		end := start + size
		if i < extra {
			end++
		}
		parts = append(parts, paths[start:end:end])
		start = end
	}
	return parts
}

// Each returns one single-file partition per path.
func Each(paths []string) [][]string {
	parts := make([][]string, len(paths))
	for i := range paths {
		parts[i] = paths[i : i+1 : i+1]
	}
	return parts
}
