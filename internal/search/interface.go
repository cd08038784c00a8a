package search

import (
	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/debuglog"
)

// Searcher answers queries over one fetched snapshot. Implementations never
// outlive the snapshot they were built from.
type Searcher interface {
	Search(query string) ([]*Result, error)
	Close() error
}

// Result is one matching article.
type Result struct {
	Article article.Article
	Index   int // position in the snapshot
	Score   float64
	Matches []Match
}

// Match represents where text was found
type Match struct {
	Field string // "title", "content", "type"
	Text  string
}

// New builds the searcher configured by cfg.Mode. A ranked index that
// cannot be built degrades to the substring engine.
func New(cfg config.SearchConfig, items []article.Article) Searcher {
	if cfg.Mode == config.SearchRanked {
		r, err := NewRanked(items, cfg.Limit)
		if err == nil {
			return r
		}
		debuglog.Warnf("ranked search unavailable, using substring: %v", err)
	}
	return NewEngine(items)
}

// Articles unwraps results in result order.
func Articles(results []*Result) []article.Article {
	out := make([]article.Article, len(results))
	for i, r := range results {
		out[i] = r.Article
	}
	return out
}
