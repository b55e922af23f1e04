package filter

import "github.com/dtnitsch/cjkfreq/pkg/exclude"

// CJK Unified Ideographs block, inclusive.
const (
	cjkFirst = '\u4e00'
	cjkLast  = '\u9fff'
)

// Filter decides which segmented tokens are counted.
type Filter struct {
	excludes *exclude.Set
}

// New returns a Filter backed by excludes, which may be nil.
func New(excludes *exclude.Set) *Filter {
	return &Filter{excludes: excludes}
}

// ShouldCount reports whether tok is counted: it is not excluded and it
// contains at least one CJK unified ideograph.
func (f *Filter) ShouldCount(tok string) bool {
	return !f.excludes.Contains(tok) && ContainsCJK(tok)
}

// ContainsCJK reports whether any rune of s lies in U+4E00..U+9FFF.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if r >= cjkFirst && r <= cjkLast {
			return true
		}
	}
	return false
}
