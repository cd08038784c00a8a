package tui

import "github.com/pders01/blogr/internal/route"

type View int

const (
	ViewBlog View = iota
	ViewLatest
	ViewSearch
	ViewDetail
	ViewSection
)

func viewFor(k route.Kind) View {
	switch k {
	case route.Latest:
		return ViewLatest
	case route.Search:
		return ViewSearch
	case route.ArticleDetail:
		return ViewDetail
	case route.FindAnIdea, route.StartingUp, route.Marketing:
		return ViewSection
	default:
		return ViewBlog
	}
}

// fetches reports whether activating v loads data.
func (v View) fetches() bool {
	return v != ViewSection
}
