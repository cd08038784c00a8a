package feed

import (
	"fmt"
	"strings"
)

// FetchError is a terminal repository client failure. Kind is one of
// article.ErrFetchFailed, article.ErrNotFound or article.ErrParseFailed and
// Err is the root cause, so errors.Is matches either.
type FetchError struct {
	Kind       error
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, " [%s]", e.URL)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
