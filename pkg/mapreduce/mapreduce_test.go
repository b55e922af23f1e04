package mapreduce

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dtnitsch/cjkfreq/pkg/exclude"
	"github.com/dtnitsch/cjkfreq/pkg/filter"
	"github.com/dtnitsch/cjkfreq/pkg/segment"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// dictSegmenter greedily matches the longest dictionary word, then falls
// back to a run of ASCII letters or a single rune.
func dictSegmenter(words ...string) segment.Segmenter {
	return segment.Func(func(text string) []string {
		var out []string
		for len(text) > 0 {
			n := 0
			for _, w := range words {
				if strings.HasPrefix(text, w) && len(w) > n {
					n = len(w)
				}
			}
			if n == 0 {
				for n < len(text) && isASCIILetter(text[n]) {
					n++
				}
			}
			if n == 0 {
				_, n = utf8.DecodeRuneInString(text)
			}
			out = append(out, text[:n])
			text = text[n:]
		}
		return out
	})
}

func isASCIILetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func TestMap(t *testing.T) {
	seg := dictSegmenter("你好", "世界")
	freq := make(Frequencies)

	seen, counted := Map(freq, "你好你好世界", seg, filter.New(nil))

	assert.Equal(t, uint64(3), seen)
	assert.Equal(t, uint64(3), counted)
	assert.Equal(t, Frequencies{"你好": 2, "世界": 1}, freq)
}

func TestMap_SkipsExcludedAndNonCJK(t *testing.T) {
	seg := dictSegmenter("你好", "世界")
	freq := make(Frequencies)

	seen, counted := Map(freq, "你好 hello 世界。", seg, filter.New(exclude.Parse("世界")))

	assert.Equal(t, uint64(6), seen)
	assert.Equal(t, uint64(1), counted)
	assert.Equal(t, Frequencies{"你好": 1}, freq)
}

func TestFrequencies_AddClonesKey(t *testing.T) {
	buf := []byte("你好世界")
	text := string(buf)
	freq := make(Frequencies)
	freq.Add(text[:6])
	freq.Add(text[:6])

	assert.Equal(t, uint64(2), freq["你好"])
	assert.Equal(t, uint64(2), freq.Total())
}

func TestReduce(t *testing.T) {
	got := Reduce([]Frequencies{
		{"你好": 2, "世界": 1},
		{"你好": 1},
		{},
		nil,
		{"中文": 4},
	})

	assert.Equal(t, Frequencies{"你好": 3, "世界": 1, "中文": 4}, got)
}

func TestReduce_Empty(t *testing.T) {
	got := Reduce(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func genFrequencies() *rapid.Generator[Frequencies] {
	tok := rapid.SampledFrom([]string{"你好", "世界", "中文", "词", "频率", "统计"})
	return rapid.Custom(func(t *rapid.T) Frequencies {
		m := rapid.MapOf(tok, rapid.Uint64Range(1, 1000)).Draw(t, "counts")
		return Frequencies(m)
	})
}

func TestReduce_OrderInsensitive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maps := rapid.SliceOf(genFrequencies()).Draw(t, "maps")
		perm := rapid.Permutation(maps).Draw(t, "perm")

		want := Reduce(maps)
		got := Reduce(perm)
		if len(got) != len(want) {
			t.Fatalf("key sets differ: %v vs %v", got, want)
		}
		for tok, n := range want {
			if got[tok] != n {
				t.Fatalf("count of %q = %d, want %d", tok, got[tok], n)
			}
		}

		var sum uint64
		for _, m := range maps {
			sum += m.Total()
		}
		if got.Total() != sum {
			t.Fatalf("total = %d, want %d", got.Total(), sum)
		}
	})
}
