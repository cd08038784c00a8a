package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/blogr/internal/route"
)

var sectionBlurbs = map[route.Kind]string{
	route.FindAnIdea: "Where every company starts: spotting problems worth solving and testing whether anyone will pay for the answer.",
	route.StartingUp: "From first commit to first customer. Incorporation, early funding and building a founding team.",
	route.Marketing:  "Getting the word out. Positioning, growth channels and turning early users into advocates.",
}

// SectionBlurb is the introduction shown on a section page.
func SectionBlurb(k route.Kind) string {
	return sectionBlurbs[k]
}

func sectionView(k route.Kind, width int) string {
	textWidth := min(max(width-8, 20), 72)
	return lipgloss.JoinVertical(
		lipgloss.Center,
		HeaderStyle.Render(k.Label()),
		"",
		lipgloss.NewStyle().Foreground(TextColor).Width(textWidth).Align(lipgloss.Center).Render(SectionBlurb(k)),
		"",
		HelpStyle.Render("b: browse all articles • l: latest • /: search"),
	)
}
