package article

import "errors"

// Error kinds shared by the repository client and the listing pipeline.
var (
	// ErrFetchFailed covers transport failures, non-2xx responses and
	// undecodable payloads.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrNotFound means a single-article lookup exhausted both the direct
	// endpoint and the collection scan.
	ErrNotFound = errors.New("article not found")
	// ErrParseFailed marks a malformed date or record that was skipped.
	ErrParseFailed = errors.New("parse failed")
)
