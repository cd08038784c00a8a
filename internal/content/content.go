// Package content converts article bodies, which arrive as HTML, into the
// markdown the detail view renders and the plain text used for snippets and
// indexing.
package content

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from article content. The zero value is not
// usable; call NewSanitizer.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

var defaultSanitizer = NewSanitizer()

// PlainText returns s with every tag removed, entities decoded and runs of
// whitespace collapsed to single spaces.
func (s *Sanitizer) PlainText(raw string) string {
	if raw == "" {
		return ""
	}
	// keep adjacent block elements from gluing their words together
	spaced := strings.ReplaceAll(raw, "<", " <")
	text := html.UnescapeString(s.policy.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}

// Snippet returns at most limit runes of plain text, ending in an ellipsis
// when it was cut.
func (s *Sanitizer) Snippet(raw string, limit int) string {
	return Truncate(s.PlainText(raw), limit)
}

// PlainText strips markup using the default sanitizer.
func PlainText(raw string) string {
	return defaultSanitizer.PlainText(raw)
}

// Snippet shortens raw to a plain-text preview using the default sanitizer.
func Snippet(raw string, limit int) string {
	return defaultSanitizer.Snippet(raw, limit)
}

// ToMarkdown converts article HTML to markdown. Plain text passes through
// the converter unchanged apart from markdown escaping.
func ToMarkdown(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("converting article content: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// Truncate shortens s to at most limit runes, appending an ellipsis if
// truncation occurs.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:limit-1]), " ") + "…"
}
