package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/blogr/internal/route"
)

type keyMap struct {
	Blog       key.Binding
	FindIdea   key.Binding
	StartingUp key.Binding
	Marketing  key.Binding
	Latest     key.Binding
	Search     key.Binding
	Open       key.Binding
	Back       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Cover      key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Blog:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "blog")),
		FindIdea:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "find an idea")),
		StartingUp: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "starting up")),
		Marketing:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "marketing")),
		Latest:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "latest")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		NextPage:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "prev page")),
		Cover:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open cover")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpKeys adapts keyMap to help.KeyMap for the current view.
type helpKeys struct {
	keys keyMap
	app  *App
}

func (h helpKeys) ShortHelp() []key.Binding {
	k := h.keys
	switch h.app.view {
	case ViewLatest:
		return []key.Binding{k.Open, k.NextPage, k.PrevPage, k.Back, k.Help}
	case ViewSearch:
		if h.app.searchInput.Focused() {
			return []key.Binding{
				key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/↓", "results")),
				k.Back,
			}
		}
		return []key.Binding{k.Open, k.Search, k.Back, k.Help}
	case ViewDetail:
		return []key.Binding{k.Cover, k.Back, k.Reload, k.Help}
	case ViewSection:
		return []key.Binding{k.Blog, k.Latest, k.Back, k.Help}
	default:
		return []key.Binding{k.Open, k.Latest, k.Search, k.Reload, k.Help}
	}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	k := h.keys
	return [][]key.Binding{
		{k.Blog, k.FindIdea, k.StartingUp, k.Marketing, k.Latest, k.Search},
		{k.Open, k.Back, k.NextPage, k.PrevPage, k.Cover},
		{k.Reload, k.Help, k.Quit},
	}
}

type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if cmd, handled := kh.handleGlobalKeys(msg); handled {
		return kh.app, cmd
	}

	// nothing below applies while loading or after a failed fetch
	if kh.app.loading || kh.app.err != nil {
		return kh.app, nil
	}

	switch kh.app.view {
	case ViewLatest:
		if cmd, handled := kh.handleLatestKeys(msg); handled {
			return kh.app, cmd
		}
	case ViewDetail:
		return kh.handleDetailKeys(msg)
	case ViewSection:
		return kh.app, nil
	}

	return kh.handleListKeys(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewSearch && kh.app.searchInput.Focused()
}

func (kh *KeyHandler) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	app, k := kh.app, kh.app.keys

	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit, true
	case key.Matches(msg, k.Help):
		app.help.ShowAll = !app.help.ShowAll
		return nil, true
	case key.Matches(msg, k.Back):
		return app.back(), true
	case key.Matches(msg, k.Reload):
		return app.activate(app.route), true
	case key.Matches(msg, k.Blog):
		return app.navigate(route.Home()), true
	case key.Matches(msg, k.FindIdea):
		return app.navigate(route.Route{Kind: route.FindAnIdea}), true
	case key.Matches(msg, k.StartingUp):
		return app.navigate(route.Route{Kind: route.StartingUp}), true
	case key.Matches(msg, k.Marketing):
		return app.navigate(route.Route{Kind: route.Marketing}), true
	case key.Matches(msg, k.Latest):
		return app.navigate(route.Route{Kind: route.Latest}), true
	case key.Matches(msg, k.Search):
		if app.view == ViewSearch {
			app.searchInput.Focus()
			return textinput.Blink, true
		}
		return app.navigate(route.SearchFor("")), true
	}
	return nil, false
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	switch msg.String() {
	case "ctrl+c":
		return app, tea.Quit
	case "esc":
		return app, app.back()
	case "enter", "tab", "down":
		if len(app.results) > 0 {
			app.searchInput.Blur()
			app.list.Select(0)
		}
		return app, nil
	}

	prev := app.searchInput.Value()
	var cmd tea.Cmd
	app.searchInput, cmd = app.searchInput.Update(msg)
	if app.searchInput.Value() != prev {
		app.runSearch()
	}
	return app, cmd
}

func (kh *KeyHandler) handleLatestKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.app.keys.NextPage):
		kh.app.nextPage()
		return nil, true
	case key.Matches(msg, kh.app.keys.PrevPage):
		kh.app.prevPage()
		return nil, true
	}
	return nil, false
}

func (kh *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.app.keys.Cover) {
		return kh.app, kh.app.openCover()
	}
	var cmd tea.Cmd
	kh.app.viewport, cmd = kh.app.viewport.Update(msg)
	return kh.app, cmd
}

// handleListKeys serves the Blog, Latest and Search result lists.
func (kh *KeyHandler) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	if key.Matches(msg, app.keys.Open) {
		art, ok := app.selectedArticle()
		if !ok {
			return app, nil
		}
		return app, app.navigate(route.Detail(art.ID))
	}

	if app.view == ViewSearch && msg.String() == "up" && app.list.Index() == 0 {
		app.searchInput.Focus()
		return app, textinput.Blink
	}

	var cmd tea.Cmd
	app.list, cmd = app.list.Update(msg)
	return app, cmd
}
