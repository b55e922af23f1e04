package exclude

import (
	"os"
	"strings"

	"github.com/dtnitsch/cjkfreq/pkg/failure"
)

// Set is an immutable set of tokens that must never be counted.
// A nil *Set is valid and empty. Once built it is only read, so one Set
// can be shared by every worker without locking.
type Set struct {
	words map[string]struct{}
}

// Parse builds a Set from a newline-delimited list. Lines are taken verbatim:
// no trimming, no case folding. A trailing newline therefore adds the empty
// string as an entry, which is harmless because empty tokens are never counted.
func Parse(data string) *Set {
	lines := strings.Split(data, "\n")
	s := &Set{words: make(map[string]struct{}, len(lines))}
	for _, line := range lines {
		s.words[line] = struct{}{}
	}
	return s
}

// Load reads the exclusion list at path. An empty path yields an empty Set.
func Load(path string) (*Set, error) {
	if path == "" {
		return &Set{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &failure.ConfigError{Path: path, Err: err}
	}
	return Parse(string(data)), nil
}

// Contains reports whether word is excluded.
func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

// Len returns the number of distinct entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
