// Package reader loads input files as text for segmentation.
package reader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/cjkfreq/pkg/failure"
)

// Reader reads input files. The zero value reads every file verbatim.
type Reader struct {
	// HTML enables text extraction for .html and .htm files.
	HTML bool
}

// ReadText returns the full text of path. Errors are *failure.IOError.
func (r Reader) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &failure.IOError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &failure.IOError{Path: path, Err: failure.ErrInvalidText}
	}
	if r.HTML && IsHTML(path) {
		text, err := extractHTML(path, data)
		if err != nil {
			return "", &failure.IOError{Path: path, Err: err}
		}
		return text, nil
	}
	return string(data), nil
}

// IsHTML reports whether path has an HTML extension.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// extractHTML prefers the readability article body and falls back to the
// text of the whole document when readability finds nothing.
func extractHTML(path string, data []byte) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	content := ""
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(data), pageURL)
	if err == nil {
		content = article.Content
	}
	if strings.TrimSpace(content) != "" {
		if text, err := documentText(strings.NewReader(content)); err == nil && text != "" {
			return text, nil
		}
	}
	return documentText(bytes.NewReader(data))
}

func documentText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script,style,noscript").Remove()
	return normalizeText(doc.Text()), nil
}

// normalizeText trims every line and drops blank ones.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
