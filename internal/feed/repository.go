package feed

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/debuglog"
	"github.com/pders01/blogr/internal/validation"
	"github.com/samber/lo"
)

// Repository is the read side of the blog API: the full collection and
// single articles. It holds no state between calls.
type Repository struct {
	fetcher      *Fetcher
	timeout      time.Duration
	parser       *Parser
	endpoint     string
	format       string
	fallbackScan bool
}

func NewRepository(cfg *config.Config) (*Repository, error) {
	endpoint, err := validation.NewEndpointValidator().ValidateAndNormalize(cfg.API.Endpoint)
	if err != nil {
		return nil, &FetchError{Kind: article.ErrFetchFailed, Op: "invalid API endpoint", URL: cfg.API.Endpoint, Err: err}
	}

	return &Repository{
		fetcher:      NewFetcher(cfg),
		timeout:      cfg.API.HTTPTimeout,
		parser:       NewParser(),
		endpoint:     strings.TrimRight(endpoint, "/"),
		format:       cfg.API.Format,
		fallbackScan: cfg.API.FallbackScan,
	}, nil
}

// Endpoint returns the normalized collection endpoint.
func (r *Repository) Endpoint() string {
	return r.endpoint
}

// FetchAll returns the whole collection in the order the API sent it.
func (r *Repository) FetchAll(ctx context.Context) ([]article.Article, error) {
	log := debuglog.WithFields(debuglog.Fields{"op": "fetch_all", "url": r.endpoint})

	accept := acceptJSON
	if r.format == config.FormatFeed {
		accept = acceptFeed
	}

	body, err := r.get(ctx, r.endpoint, accept)
	if err != nil {
		log.Errorf("fetch failed: %v", err)
		return nil, asFetchFailed(err)
	}

	var articles []article.Article
	if r.format == config.FormatFeed {
		articles, err = r.parser.ParseFeed(body)
	} else {
		articles, err = r.parser.ParseCollection(body)
	}
	if err != nil {
		log.Errorf("decode failed: %v", err)
		return nil, &FetchError{Kind: article.ErrFetchFailed, Op: "decoding articles", URL: r.endpoint, Err: err}
	}

	log.Debugf("fetched %d articles", len(articles))
	return articles, nil
}

// FetchOne returns the article with the given id. When the direct lookup
// fails for any reason the whole collection is fetched and scanned; a miss
// there is ErrNotFound and a failed collection fetch is ErrFetchFailed.
// Each request gets api.http_timeout on its own; ctx carries cancellation.
func (r *Repository) FetchOne(ctx context.Context, id string) (article.Article, error) {
	if id == "" {
		return article.Article{}, &FetchError{Kind: article.ErrNotFound, Op: "no article ID provided"}
	}

	log := debuglog.WithFields(debuglog.Fields{"op": "fetch_one", "id": id})

	// feed documents have no per-item endpoint
	if r.format == config.FormatFeed {
		return r.scanFor(ctx, id)
	}

	a, err := r.fetchDirect(ctx, id)
	if err == nil {
		return a, nil
	}
	log.Warnf("direct fetch failed: %v", err)

	if !r.fallbackScan {
		if errors.Is(err, article.ErrNotFound) {
			return article.Article{}, err
		}
		return article.Article{}, asFetchFailed(err)
	}
	return r.scanFor(ctx, id)
}

func (r *Repository) fetchDirect(ctx context.Context, id string) (article.Article, error) {
	itemURL := r.endpoint + "/" + url.PathEscape(id)

	body, err := r.get(ctx, itemURL, acceptJSON)
	if err != nil {
		return article.Article{}, err
	}

	a, err := r.parser.ParseOne(body)
	if err != nil {
		return article.Article{}, &FetchError{Kind: article.ErrFetchFailed, Op: "decoding article", URL: itemURL, Err: err}
	}
	return a, nil
}

func (r *Repository) scanFor(ctx context.Context, id string) (article.Article, error) {
	all, err := r.FetchAll(ctx)
	if err != nil {
		return article.Article{}, err
	}

	found, ok := lo.Find(all, func(a article.Article) bool {
		return a.ID == id
	})
	if !ok {
		return article.Article{}, &FetchError{Kind: article.ErrNotFound, Op: "looking up article " + id, URL: r.endpoint}
	}
	return found, nil
}

// get runs one request with its own timeout, so a slow direct lookup does
// not use up the budget of the collection scan that follows it.
func (r *Repository) get(ctx context.Context, url, accept string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.fetcher.Get(ctx, url, accept)
}

// asFetchFailed reclassifies a not-found collection response: only a
// single-item lookup can be NotFound.
func asFetchFailed(err error) error {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind != article.ErrFetchFailed {
		cp := *fe
		cp.Kind = article.ErrFetchFailed
		return &cp
	}
	return err
}
