package tui

import (
	"errors"

	"github.com/pders01/blogr/internal/article"
)

// userMessage is the copy shown for a failed fetch in view v. The detail
// view tells a missing article apart from an unreachable API.
func userMessage(v View, err error) string {
	if v != ViewDetail {
		return MsgFetchFailed
	}
	if errors.Is(err, article.ErrNotFound) {
		return MsgArticleNotFound
	}
	return MsgArticleFetchFailed
}
