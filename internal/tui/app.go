package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/content"
	"github.com/pders01/blogr/internal/debuglog"
	"github.com/pders01/blogr/internal/listing"
	"github.com/pders01/blogr/internal/media"
	"github.com/pders01/blogr/internal/route"
	"github.com/pders01/blogr/internal/search"
)

// Repository is the data source the views read from. Implementations bound
// each request themselves; the views never cancel a fetch.
type Repository interface {
	FetchAll(ctx context.Context) ([]article.Article, error)
	FetchOne(ctx context.Context, id string) (article.Article, error)
}

// nav bar, blank line, separator and status bar
const chromeHeight = 4

type App struct {
	config     *config.Config
	repo       Repository
	launcher   *media.Launcher
	keyHandler *KeyHandler
	keys       keyMap

	list        list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	paginator   paginator.Model
	spinner     spinner.Model
	help        help.Model

	view    View
	route   route.Route
	history []route.Route

	// activation identifies the current view activation. Async results
	// carrying an older activation are dropped.
	activation int
	loading    bool
	err        error
	status     string
	statusKind StatusKind

	snapshot []article.Article
	latest   []article.Article
	page     int
	searcher search.Searcher
	results  []*search.Result
	current  *article.Article

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	now             func() time.Time
}

func NewApp(repo Repository, cfg *config.Config, start route.Route) *App {
	ApplyTheme(cfg.UI.Colors)

	articles := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	articles.SetShowStatusBar(false)
	articles.SetFilteringEnabled(false)
	articles.SetShowHelp(false)
	articles.DisableQuitKeybindings()

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.ArabicFormat = "page %d/%d"
	pg.PerPage = cfg.Listing.PageSize

	si := textinput.New()
	si.Placeholder = "Search articles..."
	si.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SecondaryColor)

	app := &App{
		config:      cfg,
		repo:        repo,
		launcher:    media.NewLauncher(cfg),
		keys:        defaultKeyMap(),
		list:        articles,
		searchInput: si,
		viewport:    viewport.New(0, 0),
		paginator:   pg,
		spinner:     sp,
		help:        help.New(),
		view:        viewFor(start.Kind),
		route:       start,
		page:        1,
		now:         time.Now,
	}
	app.keyHandler = NewKeyHandler(app)

	return app
}

// Run starts the program at start and blocks until the user quits.
func Run(repo Repository, cfg *config.Config, start route.Route) error {
	p := tea.NewProgram(NewApp(repo, cfg, start), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return a.activate(a.route)
}

// activate starts a fresh activation of r. Everything held for the
// previous activation is discarded and the view's data is requested again.
func (a *App) activate(r route.Route) tea.Cmd {
	a.activation++
	a.route = r
	a.view = viewFor(r.Kind)
	a.err = nil
	a.clearStatus()
	a.snapshot = nil
	a.latest = nil
	a.results = nil
	a.page = 1
	a.current = nil
	a.closeSearcher()
	a.list.SetItems([]list.Item{})
	a.list.ResetSelected()
	a.viewport.SetContent("")
	a.loading = a.view.fetches()

	switch a.view {
	case ViewBlog:
		a.list.Title = "› blog"
	case ViewLatest:
		a.list.Title = "› latest"
	case ViewSearch:
		a.list.Title = "› search results"
		a.searchInput.SetValue(r.Query)
		a.searchInput.CursorEnd()
		if r.Query == "" {
			a.searchInput.Focus()
		} else {
			a.searchInput.Blur()
		}
	}
	a.layout()

	debuglog.WithFields(debuglog.Fields{"route": r.String(), "activation": a.activation}).Debugf("view activated")

	if !a.loading {
		return nil
	}
	if a.view == ViewDetail {
		return tea.Batch(a.spinner.Tick, a.fetchArticle(a.activation, r.ID))
	}
	return tea.Batch(a.spinner.Tick, a.fetchArticles(a.activation))
}

// navigate records the current route and activates r.
func (a *App) navigate(r route.Route) tea.Cmd {
	a.history = append(a.history, a.route)
	return a.activate(r)
}

// back re-activates the previous route. Leaving the first route quits.
func (a *App) back() tea.Cmd {
	if len(a.history) == 0 {
		return tea.Quit
	}
	prev := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	return a.activate(prev)
}

func (a *App) closeSearcher() {
	if a.searcher != nil {
		_ = a.searcher.Close()
		a.searcher = nil
	}
}

func (a *App) stale(activation int, kind string) bool {
	if activation == a.activation {
		return false
	}
	debuglog.WithFields(debuglog.Fields{"msg": kind, "activation": activation, "current": a.activation}).
		Debugf("dropping result of a previous activation")
	return true
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		if a.view == ViewDetail && a.current != nil && !a.loading {
			return a, a.renderArticle(a.activation, *a.current)
		}
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewDetail {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case articlesLoadedMsg:
		if a.stale(msg.activation, "articles") {
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.fail(msg.err)
			return a, nil
		}
		a.setSnapshot(msg.articles)

	case articleLoadedMsg:
		if a.stale(msg.activation, "article") {
			return a, nil
		}
		if msg.err != nil {
			a.loading = false
			a.fail(msg.err)
			return a, nil
		}
		art := msg.article
		a.current = &art
		return a, a.renderArticle(a.activation, art)

	case articleRenderedMsg:
		if a.stale(msg.activation, "render") {
			return a, nil
		}
		a.loading = false
		a.viewport.SetContent(msg.content)
		a.viewport.GotoTop()

	case statusMsg:
		a.setStatus(msg.text, msg.kind)

	case errorMsg:
		a.setStatus(msg.err.Error(), StatusError)
	}

	return a, nil
}

func (a *App) fail(err error) {
	a.err = err
	debuglog.WithFields(debuglog.Fields{"route": a.route.String()}).Errorf("view failed: %v", err)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

// setSnapshot runs the view's pipeline over a freshly fetched snapshot.
// The page resets to 1.
func (a *App) setSnapshot(items []article.Article) {
	a.snapshot = items
	a.page = 1

	switch a.view {
	case ViewLatest:
		a.latest = listing.Latest(items, a.now(), a.config.Listing.LatestWindowDays)
		a.showPage()
	case ViewSearch:
		a.searcher = search.New(a.config.Search, items)
		a.runSearch()
	default:
		a.showArticles(items, article.DateLong)
	}
}

func (a *App) showArticles(items []article.Article, style article.DateStyle) {
	listItems := make([]list.Item, len(items))
	for i, art := range items {
		listItems[i] = a.newArticleItem(art, style, "")
	}
	a.list.SetItems(listItems)
	a.list.ResetSelected()
}

func (a *App) totalPages() int {
	return listing.TotalPages(len(a.latest), a.config.Listing.PageSize)
}

func (a *App) showPage() {
	size := a.config.Listing.PageSize
	total := a.totalPages()
	a.page = listing.ClampPage(a.page, total)

	a.paginator.PerPage = size
	a.paginator.TotalPages = total
	a.paginator.Page = a.page - 1

	a.showArticles(listing.Paginate(a.latest, size, a.page), article.DateShort)
}

func (a *App) nextPage() {
	if a.page < a.totalPages() {
		a.page++
		a.showPage()
	}
}

func (a *App) prevPage() {
	if a.page > 1 {
		a.page--
		a.showPage()
	}
}

// runSearch filters the snapshot with the current input. It never fetches.
func (a *App) runSearch() {
	if a.searcher == nil {
		return
	}
	q := strings.TrimSpace(a.searchInput.Value())
	a.route = route.SearchFor(q)

	results, err := a.searcher.Search(q)
	if err != nil {
		a.setStatus(err.Error(), StatusError)
		return
	}
	a.results = results

	items := make([]list.Item, len(results))
	for i, r := range results {
		snippet := ""
		for _, m := range r.Matches {
			if m.Field == "content" {
				snippet = m.Text
			}
		}
		items[i] = a.newArticleItem(r.Article, article.DateShort, snippet)
	}
	a.list.SetItems(items)
	a.list.ResetSelected()
}

func (a *App) selectedArticle() (article.Article, bool) {
	item, ok := a.list.SelectedItem().(articleItem)
	if !ok {
		return article.Article{}, false
	}
	return item.article, true
}

func (a *App) layout() {
	bodyHeight := max(a.height-chromeHeight, 3)

	listHeight := bodyHeight
	switch a.view {
	case ViewLatest:
		listHeight -= 2
	case ViewSearch:
		listHeight -= 5
	}
	a.list.SetSize(a.width, max(listHeight, 3))

	a.viewport.Width = a.width
	a.viewport.Height = bodyHeight

	a.searchInput.Width = max(a.width-8, 10)
	a.help.Width = a.width
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	cfg := a.config.UI.Article
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > cfg.WordWrapMaxWidth {
		wordWrapWidth = cfg.WordWrapMaxWidth
	}
	if wordWrapWidth < cfg.WordWrapMinWidth {
		wordWrapWidth = cfg.WordWrapMinWidth
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) View() string {
	bodyHeight := max(a.height-chromeHeight, 3)

	var body string
	switch {
	case a.loading:
		text := MsgLoadingArticles
		if a.view == ViewDetail {
			text = MsgLoadingArticle
		}
		body = renderCentered(a.width, bodyHeight, a.spinner.View()+" "+renderMuted(text))
	case a.err != nil:
		body = renderCentered(a.width, bodyHeight, lipgloss.JoinVertical(
			lipgloss.Center,
			ErrorMessage.Render("✗ "+userMessage(a.view, a.err)),
			"",
			HelpStyle.Render("r: retry • esc: back"),
		))
	default:
		body = a.viewBody(bodyHeight)
	}

	body = ContentWrapper(a.width, bodyHeight).Render(body)

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Top, a.renderNav(), "", body, separator, a.renderStatusBar())
}

func (a *App) viewBody(height int) string {
	switch a.view {
	case ViewBlog:
		if len(a.snapshot) == 0 {
			return renderCentered(a.width, height, GetCompactBanner(MsgNoArticles))
		}
		return a.list.View()

	case ViewLatest:
		if len(a.latest) == 0 {
			return renderCentered(a.width, height, GetCompactBanner(MsgNoRecentArticles))
		}
		return lipgloss.JoinVertical(
			lipgloss.Top,
			a.list.View(),
			PageIndicator.Render(a.paginator.View()),
		)

	case ViewSearch:
		return a.viewSearch(height)

	case ViewDetail:
		return a.viewport.View()

	case ViewSection:
		return renderCentered(a.width, height, sectionView(a.route.Kind, a.width))
	}
	return ""
}

func (a *App) viewSearch(height int) string {
	q := strings.TrimSpace(a.searchInput.Value())

	header := "› search"
	if q != "" {
		header = "› results for \"" + q + "\""
	}

	count := ""
	if a.searcher != nil {
		count = MsgResultsCount(len(a.results))
	}

	var results string
	switch {
	case a.searcher == nil:
		results = ""
	case len(a.results) == 0:
		results = renderCentered(a.width, max(height-5, 1), renderMuted(MsgNoResultsFor(q)))
	default:
		results = a.list.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Top,
		renderHeader(header, count, a.width),
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
		results,
	)
}

func (a *App) renderNav() string {
	tabs := []string{HeaderStyle.Render(CompactLogo + " ")}
	tab := func(label string, active bool) {
		if active {
			tabs = append(tabs, TitleStyle.Render(label))
			return
		}
		tabs = append(tabs, renderMuted(" "+label+" "))
	}
	for _, k := range route.NavLinks() {
		tab(k.Label(), k == a.route.Kind)
	}
	tab("/ Search", a.view == ViewSearch)
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderStatusBar() string {
	if a.status != "" {
		return StatusBarStyle.Width(a.width).Render(a.statusKind.style().Render(a.status))
	}
	return StatusBarStyle.Width(a.width).Render(a.help.View(helpKeys{keys: a.keys, app: a}))
}

type articleItem struct {
	article article.Article
	style   article.DateStyle
	snippet string
}

func (a *App) newArticleItem(art article.Article, style article.DateStyle, snippet string) articleItem {
	if snippet == "" {
		snippet = content.Snippet(art.Content, a.config.UI.Article.MaxSnippetLength)
	}
	if snippet == "" {
		snippet = article.NoContentFallback
	}
	return articleItem{article: art, style: style, snippet: snippet}
}

func (i articleItem) Title() string {
	title := i.article.DisplayTitle()
	if i.article.Type != "" {
		title += " " + TypeBadgeStyle.Render("["+i.article.Type+"]")
	}
	return title
}

func (i articleItem) Description() string {
	date := i.article.FormatDate(i.style)
	if date == "" {
		return i.snippet
	}
	return TimeStyle.Render(date) + " • " + i.snippet
}

func (i articleItem) FilterValue() string { return i.article.Title }

type articlesLoadedMsg struct {
	activation int
	articles   []article.Article
	err        error
}

type articleLoadedMsg struct {
	activation int
	article    article.Article
	err        error
}

type articleRenderedMsg struct {
	activation int
	content    string
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}
