package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors the browser is drawn with. Each color adapts to light and dark terminals.
type Theme struct {
	Accent  lipgloss.AdaptiveColor // titles and the detail card border
	Saved   lipgloss.AdaptiveColor
	Failure lipgloss.AdaptiveColor
	Notice  lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
}

// MarvelTheme is the default red-on-neutral theme.
var MarvelTheme = Theme{
	Accent:  lipgloss.AdaptiveColor{Light: "#C8102E", Dark: "#ED1D24"},
	Saved:   lipgloss.AdaptiveColor{Light: "#03875A", Dark: "#04B575"},
	Failure: lipgloss.AdaptiveColor{Light: "#B00020", Dark: "#FF5F5F"},
	Notice:  lipgloss.AdaptiveColor{Light: "#B25E00", Dark: "#FFA500"},
	Muted:   lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"},
}

// detailWidth is the width of the detail card, borders excluded.
const detailWidth = 72

var styles = NewPalette(MarvelTheme)

// struct Palette is the stylesheet derived from a [Theme]
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	card  lipgloss.Style
}

func NewPalette(t Theme) *Palette {
	return &Palette{
		title: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		ok:    lipgloss.NewStyle().Foreground(t.Saved).Bold(true),
		err:   lipgloss.NewStyle().Foreground(t.Failure).Bold(true),
		warn:  lipgloss.NewStyle().Foreground(t.Notice),
		help:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1).
			Width(detailWidth),
	}
}
