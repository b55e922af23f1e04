package mapreduce

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRank(t *testing.T) {
	got := Rank(Frequencies{"世界": 1, "你好": 3, "中文": 1, "频率": 2})

	assert.Equal(t, []Entry{
		{Token: "你好", Count: 3},
		{Token: "频率", Count: 2},
		{Token: "世界", Count: 1},
		{Token: "中文", Count: 1},
	}, got)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}

func TestRank_OrderingLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		freq := Frequencies(rapid.MapOf(rapid.String(), rapid.Uint64Range(1, 20)).Draw(t, "freq"))
		entries := Rank(freq)

		if len(entries) != len(freq) {
			t.Fatalf("got %d entries for %d tokens", len(entries), len(freq))
		}
		for i := 1; i < len(entries); i++ {
			a, b := entries[i-1], entries[i]
			if !(a.Count > b.Count || a.Count == b.Count && a.Token < b.Token) {
				t.Fatalf("%v before %v violates ordering", a, b)
			}
		}

		var first, second bytes.Buffer
		if err := Write(&first, entries); err != nil {
			t.Fatal(err)
		}
		if err := Write(&second, Rank(freq)); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first.Bytes(), second.Bytes()) {
			t.Fatalf("ranking is not reproducible")
		}
	})
}

func TestTopN(t *testing.T) {
	entries := Rank(Frequencies{"a": 3, "b": 2, "c": 1})

	assert.Len(t, TopN(entries, 2), 2)
	assert.Len(t, TopN(entries, 0), 3)
	assert.Len(t, TopN(entries, -1), 3)
	assert.Len(t, TopN(entries, 10), 3)
	assert.Equal(t, []string{"a:3", "b:2"}, Keywords(entries, 2))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Entry{{Token: "你好", Count: 3}, {Token: "世界", Count: 1}})

	require.NoError(t, err)
	assert.Equal(t, "你好 3\n世界 1\n", buf.String())
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Empty(t, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_Error(t *testing.T) {
	err := Write(failingWriter{}, []Entry{{Token: "你好", Count: 1}})
	assert.ErrorContains(t, err, "disk full")
}
