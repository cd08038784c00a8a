// Package listing holds the pure transforms between a fetched snapshot and
// what a view shows: the recency window, its ordering, and page slicing.
package listing

import (
	"sort"
	"time"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/debuglog"
)

// DefaultWindowDays is the trailing period the latest view covers.
const DefaultWindowDays = 10

type dated struct {
	a article.Article
	t time.Time
}

// Recent returns the articles created within the trailing windowDays
// calendar days up to now, both ends inclusive, in input order. Articles
// whose createdAt does not parse are left out. The input is not modified.
func Recent(items []article.Article, now time.Time, windowDays int) []article.Article {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	out := make([]article.Article, 0, len(items))
	for i, a := range items {
		t, err := a.CreatedTime()
		if err != nil {
			debuglog.WithFields(debuglog.Fields{"index": i, "id": a.ID}).Debugf("excluded from recency window: %v", err)
			continue
		}
		if t.Before(cutoff) || t.After(now) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// NewestFirst returns a copy of items stably ordered by createdAt,
// newest first. Articles without a parsable date sort last in input order.
func NewestFirst(items []article.Article) []article.Article {
	all := make([]dated, len(items))
	for i, a := range items {
		t, _ := a.CreatedTime()
		all[i] = dated{a: a, t: t}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].t.After(all[j].t)
	})

	out := make([]article.Article, len(all))
	for i, d := range all {
		out[i] = d.a
	}
	return out
}

// Latest is the latest view pipeline: the recency window over the snapshot,
// newest first.
func Latest(items []article.Article, now time.Time, windowDays int) []article.Article {
	return NewestFirst(Recent(items, now, windowDays))
}
