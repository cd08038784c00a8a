package tui

import (
	"fmt"
)

// Canonical short messages used across the app.
const (
	MsgLoadingArticles = "Loading articles…"
	MsgLoadingArticle  = "Loading article…"

	MsgFetchFailed        = "Failed to fetch articles"
	MsgArticleNotFound    = "Article not found"
	MsgArticleFetchFailed = "Failed to fetch article. Please try again later."

	MsgNoArticles       = "No articles found"
	MsgNoRecentArticles = "No recent articles found"
	MsgNoCover          = "This article has no cover image"
	MsgOpeningCover     = "Opening cover image…"
)

func MsgNoResultsFor(query string) string {
	return fmt.Sprintf("No results for %q", query)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgPage(page, total int) string {
	return fmt.Sprintf("page %d/%d", page, total)
}
