package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/content"
	"github.com/pders01/blogr/internal/media"
)

func (a *App) fetchArticles(activation int) tea.Cmd {
	repo := a.repo
	return func() tea.Msg {
		articles, err := repo.FetchAll(context.Background())
		return articlesLoadedMsg{activation: activation, articles: articles, err: err}
	}
}

func (a *App) fetchArticle(activation int, id string) tea.Cmd {
	repo := a.repo
	return func() tea.Msg {
		art, err := repo.FetchOne(context.Background(), id)
		return articleLoadedMsg{activation: activation, article: art, err: err}
	}
}

func (a *App) articleMarkdown(art article.Article) string {
	return ArticleMarkdown(art, a.launcher)
}

// ArticleMarkdown is the detail page of art as markdown. Covers the launcher
// cannot open are shown as a placeholder.
func ArticleMarkdown(art article.Article, launcher *media.Launcher) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", art.DisplayTitle())

	var meta []string
	if date := art.FormatDate(article.DateShort); date != "" {
		meta = append(meta, "*"+date+"*")
	}
	if art.Type != "" {
		meta = append(meta, "**"+art.Type+"**")
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " • "))
		b.WriteString("\n\n")
	}

	if launcher.HasCover(art) {
		fmt.Fprintf(&b, "Cover image: %s\n\n", launcher.CoverURL(art))
	} else {
		b.WriteString("Cover image: *placeholder*\n\n")
	}

	b.WriteString("---\n\n")

	body, err := content.ToMarkdown(art.DisplayContent())
	if err != nil || body == "" {
		body = content.PlainText(art.DisplayContent())
	}
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

func (a *App) renderArticle(activation int, art article.Article) tea.Cmd {
	md := a.articleMarkdown(art)
	r, rendererErr := a.getRenderer()

	return func() tea.Msg {
		if rendererErr != nil {
			return articleRenderedMsg{activation: activation, content: md}
		}
		rendered, err := r.Render(md)
		if err != nil {
			return articleRenderedMsg{activation: activation, content: md}
		}
		return articleRenderedMsg{activation: activation, content: rendered}
	}
}

func (a *App) openCover() tea.Cmd {
	if a.current == nil {
		return nil
	}
	art := *a.current
	if !a.launcher.HasCover(art) {
		a.setStatus(MsgNoCover, StatusWarn)
		return nil
	}

	a.setStatus(MsgOpeningCover, StatusInfo)
	launcher := a.launcher
	url := launcher.CoverURL(art)
	return func() tea.Msg {
		if err := launcher.OpenCover(art); err != nil {
			return errorMsg{err: fmt.Errorf("failed to open %s: %w", truncateMiddle(url, 60), err)}
		}
		return statusMsg{text: "Opened " + truncateMiddle(url, 60), kind: StatusSuccess}
	}
}
