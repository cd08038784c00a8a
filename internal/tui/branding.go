package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/blogr/internal/config"
)

const AppName = "blogr"

// ASCII art logo lines for blogr - canonical definition
var LogoLines = []string{
	"█▀▀▄ █    ▄▀▀▄ ▄▀▀▀ █▀▀▄",
	"█▀▀▄ █    █  █ █ ▀█ █▄▄▀",
	"▀▀▀  ▀▀▀▀  ▀▀   ▀▀▀ ▀  ▀",
}

const CompactLogo = `blogr ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#1E3A8A"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FFD700"),
}

// Brand colors. ApplyTheme replaces them from configuration.
var (
	PrimaryColor   = lipgloss.Color("#1E3A8A") // Deep blue
	SecondaryColor = lipgloss.Color("#4ECDC4") // Teal
	AccentColor    = lipgloss.Color("#FFD700") // Gold

	SurfaceColor = lipgloss.Color("#16213E")
	TextColor    = lipgloss.Color("#EAEAEA")
	MutedColor   = lipgloss.Color("#94A3B8")

	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
	WarnColor    = lipgloss.Color("#FFE66D")
)

// Styled components
var (
	LogoStyle        lipgloss.Style
	TitleStyle       lipgloss.Style
	HeaderStyle      lipgloss.Style
	StatusBarStyle   lipgloss.Style
	HelpStyle        lipgloss.Style
	TimeStyle        lipgloss.Style
	TypeBadgeStyle   lipgloss.Style
	ArticleTitle     lipgloss.Style
	ErrorMessage     lipgloss.Style
	SeparatorStyle   lipgloss.Style
	PageIndicator    lipgloss.Style
	StatusInfoStyle  lipgloss.Style
	StatusOKStyle    lipgloss.Style
	StatusWarnStyle  lipgloss.Style
	StatusErrorStyle lipgloss.Style

	// Empty style for resetting
	EmptyStyle = lipgloss.NewStyle()
)

func init() {
	buildStyles()
}

// ApplyTheme sets the brand colors from configuration. Empty entries keep
// the built-in color.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(PrimaryColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	TimeStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Faint(true)

	TypeBadgeStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		Bold(true)

	ArticleTitle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	ErrorMessage = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	PageIndicator = lipgloss.NewStyle().
		Foreground(SecondaryColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusOKStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(WarnColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

// ContentWrapper returns a style for wrapping content with width and height constraints
func ContentWrapper(width, height int) lipgloss.Style {
	return EmptyStyle.Width(width).Height(height).MaxHeight(height)
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// ShowBanner writes the startup banner with the version tagline to w.
func ShowBanner(w io.Writer, version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("Community Blog Reader %s", versionTag))
	} else {
		lines = append(lines, "Community Blog Reader")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines)) // Bold for logo, normal for tagline

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	fmt.Fprintln(w, lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		Render(borderStyle.Render(banner)))
}
