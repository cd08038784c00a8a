package search

import (
	"strings"

	"github.com/samber/lo"

	"github.com/pders01/blogr/internal/article"
)

// Filter returns the articles whose title, content or type contains query,
// ignoring case, in input order. An empty query returns items as is. The
// query is used verbatim; callers trim user input first.
func Filter(items []article.Article, query string) []article.Article {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	return lo.Filter(items, func(a article.Article, _ int) bool {
		return Matches(a, q)
	})
}

// Matches reports whether any searchable field of a contains the already
// lowercased query. Missing fields are empty and never match a non-empty
// query.
func Matches(a article.Article, lowerQuery string) bool {
	return contains(a.Title, lowerQuery) ||
		contains(a.Content, lowerQuery) ||
		contains(a.Type, lowerQuery)
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}
