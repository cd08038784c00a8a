package search

import (
	"strings"
	"unicode"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/content"
)

const snippetLength = 160

// Engine is the substring searcher: exactly Filter, with the matched fields
// reported for display.
type Engine struct {
	items []article.Article
}

// NewEngine creates a substring engine over a snapshot.
func NewEngine(items []article.Article) *Engine {
	return &Engine{items: items}
}

// Search returns every matching article in snapshot order. An empty query
// returns the whole snapshot.
func (e *Engine) Search(query string) ([]*Result, error) {
	q := strings.ToLower(query)

	results := make([]*Result, 0, len(e.items))
	for i, a := range e.items {
		if q != "" && !Matches(a, q) {
			continue
		}
		results = append(results, &Result{
			Article: a,
			Index:   i,
			Matches: matchesFor(a, []string{q}),
		})
	}
	return results, nil
}

func (e *Engine) Close() error { return nil }

// matchesFor lists the fields of a containing any of the lowercased terms.
func matchesFor(a article.Article, terms []string) []Match {
	var matches []Match
	hit := func(field string) bool {
		lower := strings.ToLower(field)
		for _, t := range terms {
			if t != "" && strings.Contains(lower, t) {
				return true
			}
		}
		return false
	}

	if hit(a.Title) {
		matches = append(matches, Match{Field: "title", Text: a.Title})
	}
	if hit(a.Content) {
		matches = append(matches, Match{Field: "content", Text: findBestSnippet(content.PlainText(a.Content), terms, snippetLength)})
	}
	if hit(a.Type) {
		matches = append(matches, Match{Field: "type", Text: a.Type})
	}
	return matches
}

// findBestSnippet finds the window of text that contains the most terms
func findBestSnippet(text string, terms []string, maxLength int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	windowSize := maxLength / 8
	if windowSize >= len(words) {
		return content.Truncate(text, maxLength)
	}

	bestScore, bestStart := 0, 0
	for i := 0; i <= len(words)-windowSize; i++ {
		window := strings.ToLower(strings.Join(words[i:i+windowSize], " "))
		score := 0
		for _, term := range terms {
			if term != "" && strings.Contains(window, term) {
				score++
			}
		}
		if score > bestScore {
			bestScore, bestStart = score, i
		}
	}

	snippet := strings.Join(words[bestStart:bestStart+windowSize], " ")
	if bestStart > 0 {
		snippet = "…" + snippet
	}
	return content.Truncate(snippet, maxLength)
}

// tokenize breaks text into lowercase terms, skipping single characters
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if term := current.String(); len([]rune(term)) > 1 {
		terms = append(terms, term)
	}

	return terms
}
