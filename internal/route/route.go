// Package route maps the blog's URL paths to the view that renders them.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownRoute is returned for paths no view serves.
var ErrUnknownRoute = errors.New("unknown route")

type Kind int

const (
	Blog Kind = iota
	FindAnIdea
	StartingUp
	Marketing
	Latest
	ArticleDetail
	Search
)

var kindPaths = map[Kind]string{
	Blog:          "/",
	FindAnIdea:    "/find-an-idea",
	StartingUp:    "/starting-up",
	Marketing:     "/marketing",
	Latest:        "/latest",
	ArticleDetail: "/article-detail",
	Search:        "/search",
}

var kindLabels = map[Kind]string{
	Blog:          "Blog",
	FindAnIdea:    "Find an Idea",
	StartingUp:    "Starting Up",
	Marketing:     "Marketing",
	Latest:        "Latest",
	ArticleDetail: "Article",
	Search:        "Search",
}

// Label is the navigation title of the view.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsSection reports whether k is one of the static content sections.
func (k Kind) IsSection() bool {
	return k == FindAnIdea || k == StartingUp || k == Marketing
}

// NavLinks lists the views reachable from the navigation bar, in order.
func NavLinks() []Kind {
	return []Kind{Blog, FindAnIdea, StartingUp, Marketing, Latest}
}

// Route is a parsed path. ID is set for ArticleDetail, Query for Search.
type Route struct {
	Kind  Kind
	ID    string
	Query string
}

// Home is the root route.
func Home() Route { return Route{Kind: Blog} }

// Detail is the route of one article.
func Detail(id string) Route { return Route{Kind: ArticleDetail, ID: id} }

// SearchFor is the search route for q, trimmed.
func SearchFor(q string) Route { return Route{Kind: Search, Query: strings.TrimSpace(q)} }

// Parse resolves raw, a path with an optional query string, to a Route.
// Trailing slashes are ignored.
func Parse(raw string) (Route, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Route{}, fmt.Errorf("%w: %q: %v", ErrUnknownRoute, raw, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return Route{}, fmt.Errorf("%w: %q is not a path", ErrUnknownRoute, raw)
	}

	path := strings.TrimRight(u.EscapedPath(), "/")
	if path == "" {
		return Home(), nil
	}

	if rest, ok := strings.CutPrefix(path, kindPaths[ArticleDetail]+"/"); ok {
		if rest == "" || strings.Contains(rest, "/") {
			return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, raw)
		}
		id, err := url.PathUnescape(rest)
		if err != nil {
			return Route{}, fmt.Errorf("%w: %q: %v", ErrUnknownRoute, raw, err)
		}
		return Detail(id), nil
	}

	for _, k := range []Kind{FindAnIdea, StartingUp, Marketing, Latest, Search} {
		if path != kindPaths[k] {
			continue
		}
		if k == Search {
			return SearchFor(u.Query().Get("q")), nil
		}
		return Route{Kind: k}, nil
	}

	return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, raw)
}

// String renders the canonical path of r.
func (r Route) String() string {
	switch r.Kind {
	case ArticleDetail:
		return kindPaths[ArticleDetail] + "/" + url.PathEscape(r.ID)
	case Search:
		if r.Query == "" {
			return kindPaths[Search]
		}
		return kindPaths[Search] + "?" + url.Values{"q": {r.Query}}.Encode()
	default:
		if p, ok := kindPaths[r.Kind]; ok {
			return p
		}
		return "/"
	}
}
