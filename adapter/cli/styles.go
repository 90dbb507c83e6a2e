package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette for the advisory colour tokens.
var palette = map[string]lipgloss.Color{
	"green":  lipgloss.Color("#A6E3A1"),
	"yellow": lipgloss.Color("#F9E2AF"),
	"red":    lipgloss.Color("#F38BA8"),
	"gray":   lipgloss.Color("#6C7086"),
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(palette["gray"])
)

// Colorize renders text in the colour named by an advisory token. Unknown
// tokens render gray.
func Colorize(token, text string) string {
	color, ok := palette[token]
	if !ok {
		color = palette["gray"]
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
}

// Heading renders a section title.
func Heading(text string) string {
	return headingStyle.Render(text)
}

// Muted renders secondary text.
func Muted(text string) string {
	return mutedStyle.Render(text)
}

// StatusIcon is the checklist marker for a task status.
func StatusIcon(status string, locked bool) string {
	switch {
	case status == "completed":
		return Colorize("green", "[x]")
	case status == "skipped":
		return Muted("[-]")
	case status == "in_progress":
		return Colorize("yellow", "[>]")
	case locked:
		return Muted("[#]")
	default:
		return "[ ]"
	}
}
