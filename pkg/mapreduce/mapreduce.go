package mapreduce

import (
	"strings"

	"github.com/dtnitsch/cjkfreq/pkg/filter"
	"github.com/dtnitsch/cjkfreq/pkg/segment"
)

// Frequencies maps a token to the number of times it was counted.
// A present token always has a count of at least one.
type Frequencies map[string]uint64

// Add counts one occurrence of tok. The key is cloned on first insert so the
// map never pins the buffer tok was sliced from.
func (f Frequencies) Add(tok string) {
	if n, ok := f[tok]; ok {
		f[tok] = n + 1
		return
	}
	f[strings.Clone(tok)] = 1
}

// Merge adds every count of other into f.
func (f Frequencies) Merge(other Frequencies) {
	for tok, n := range other {
		f[tok] += n
	}
}

// Total returns the sum of all counts.
func (f Frequencies) Total() uint64 {
	var total uint64
	for _, n := range f {
		total += n
	}
	return total
}

// Map segments text and counts every token the filter accepts into freq.
// It returns how many tokens were seen and how many were counted.
func Map(freq Frequencies, text string, seg segment.Segmenter, flt *filter.Filter) (seen, counted uint64) {
	for tok := range seg.Segment(text) {
		seen++
		if flt.ShouldCount(tok) {
			freq.Add(tok)
			counted++
		}
	}
	return seen, counted
}

// Reduce aggregates a slice of frequency maps into a single map by pointwise
// addition. The result does not depend on the order of intermediate.
func Reduce(intermediate []Frequencies) Frequencies {
	largest := 0
	for _, counts := range intermediate {
		largest = max(largest, len(counts))
	}

	finalResults := make(Frequencies, largest)
	for _, counts := range intermediate {
		finalResults.Merge(counts)
	}

	return finalResults
}
