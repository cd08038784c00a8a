package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/config"
)

const (
	acceptJSON = "application/json"
	acceptFeed = "application/rss+xml, application/atom+xml, application/feed+json, application/xml, text/xml"

	// maxBodySize bounds a single response body.
	maxBodySize = 32 << 20
)

// Fetcher performs GET requests against the blog API.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.API.HTTPTimeout,
		},
		userAgent: cfg.API.UserAgent,
	}
}

// Get fetches url and returns the body of a 2xx response. Every failure is a
// *FetchError of kind article.ErrFetchFailed; for HTTP 404 the kind is
// article.ErrNotFound.
func (f *Fetcher) Get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: article.ErrFetchFailed, Op: "creating request", URL: url, Err: err}
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: article.ErrFetchFailed, Op: "fetching", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := article.ErrFetchFailed
		if resp.StatusCode == http.StatusNotFound {
			kind = article.ErrNotFound
		}
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &FetchError{
			Kind:       kind,
			Op:         "fetching",
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP error: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Kind: article.ErrFetchFailed, Op: "reading response", URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	return body, nil
}
