package mapreduce

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Entry is one ranked (token, count) pair.
type Entry struct {
	Token string
	Count uint64
}

// Compare orders entries by count descending, then token ascending.
func Compare(a, b Entry) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return strings.Compare(a.Token, b.Token)
}

// Rank converts freq into entries sorted by Compare. Tokens are unique map
// keys, so the order is total and does not depend on map iteration order.
func Rank(freq Frequencies) []Entry {
	entries := make([]Entry, 0, len(freq))
	for tok, n := range freq {
		entries = append(entries, Entry{Token: tok, Count: n})
	}
	slices.SortStableFunc(entries, Compare)
	return entries
}

// TopN returns the first n ranked entries. n <= 0 returns all of them.
func TopN(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// Keywords formats the top n entries as "token:count" strings.
func Keywords(entries []Entry, n int) []string {
	top := TopN(entries, n)
	keywords := make([]string, len(top))
	for i, e := range top {
		keywords[i] = fmt.Sprintf("%s:%d", e.Token, e.Count)
	}
	return keywords
}

// Write emits one "<token> <count>" line per entry.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	var num []byte
	for _, e := range entries {
		bw.WriteString(e.Token)
		bw.WriteByte(' ')
		num = strconv.AppendUint(num[:0], e.Count, 10)
		bw.Write(num)
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
