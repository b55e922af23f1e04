// Package segment adapts an external word segmenter to the counting pipeline.
package segment

import (
	"iter"

	"github.com/go-ego/gse"

	"github.com/dtnitsch/cjkfreq/pkg/failure"
)

// Segmenter splits text into candidate tokens, left to right.
// Implementations must be safe for concurrent use once constructed.
type Segmenter interface {
	Segment(text string) iter.Seq[string]
}

// Func adapts a plain splitting function to a Segmenter.
type Func func(text string) []string

func (f Func) Segment(text string) iter.Seq[string] {
	return yieldAll(f, text)
}

// GSE segments with a jieba-compatible dictionary and HMM for unknown words.
type GSE struct {
	seg *gse.Segmenter
}

// NewGSE loads the segmentation dictionary once. An empty dictPath uses the
// simplified Chinese dictionary embedded in gse; otherwise dictPath is
// loaded instead, and failing to load it is a ConfigError.
func NewGSE(dictPath string) (*GSE, error) {
	seg := &gse.Segmenter{SkipLog: true}
	if dictPath == "" {
		if err := seg.LoadDictEmbed(); err != nil {
			return nil, &failure.ConfigError{Path: "embedded dictionary", Err: err}
		}
	} else if err := seg.LoadDict(dictPath); err != nil {
		return nil, &failure.ConfigError{Path: dictPath, Err: err}
	}
	seg.LoadModel()
	return &GSE{seg: seg}, nil
}

// Segment yields the tokens of text. The tokens are substrings of text.
func (g *GSE) Segment(text string) iter.Seq[string] {
	return yieldAll(func(s string) []string { return g.seg.Cut(s, true) }, text)
}

// yieldAll defers the cut until the sequence is ranged over, so each range
// re-segments the text from the start.
func yieldAll(cut func(string) []string, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, tok := range cut(text) {
			if !yield(tok) {
				return
			}
		}
	}
}
