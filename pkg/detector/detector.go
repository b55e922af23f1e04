// Package detector guesses the dominant language of an input file.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Unknown is reported when no language could be determined.
const Unknown = "unknown"

// Detector wraps a lingua detector limited to the CJK languages and English.
// It is safe for concurrent use.
type Detector struct {
	lingua lingua.LanguageDetector
}

// New builds the detector. Models load lazily on first use.
func New() *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Chinese, lingua.Japanese, lingua.Korean, lingua.English).
		Build()
	return &Detector{lingua: d}
}

// Detect returns the lowercase ISO 639-1 code of the language of text,
// or Unknown. A nil Detector always returns Unknown.
func (d *Detector) Detect(text string) string {
	if d == nil || strings.TrimSpace(text) == "" {
		return Unknown
	}
	lang, ok := d.lingua.DetectLanguageOf(text)
	if !ok {
		return Unknown
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
