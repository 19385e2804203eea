package extract

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// PlainText handles .txt and .md uploads. Text is NFC-normalized so
// that downstream sanitization and prompting see one canonical form
// regardless of how the source was encoded.
type PlainText struct{}

func (p *PlainText) Supports(contentType, filename string) bool {
	switch baseContentType(contentType) {
	case "text/plain", "text/markdown":
		return true
	}
	switch extension(filename) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

func (p *PlainText) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("document is not valid UTF-8")
	}
	text := norm.NFC.String(string(data))
	text = stripControl(text)
	return strings.TrimSpace(text), nil
}

// stripControl removes control characters other than whitespace, which
// otherwise leak into prompts and confuse providers.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
