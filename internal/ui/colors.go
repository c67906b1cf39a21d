package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = newPalette(paletteColors{
	accent: "#7D56F4",
	ok:     "#04B575",
	err:    "#FF0000",
	warn:   "#FFA500",
	muted:  "#626262",
})

type paletteColors struct {
	accent, ok, err, warn, muted string
}

// palette holds the dashboard's named styles.
type palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	label   lipgloss.Style
	focused lipgloss.Style
}

func newPalette(c paletteColors) *palette {
	return &palette{
		title:   bold(c.accent).MarginBottom(1),
		ok:      bold(c.ok),
		err:     bold(c.err),
		warn:    fg(c.warn),
		help:    fg(c.muted).Italic(true),
		label:   fg(c.muted).Width(10),
		focused: bold(c.accent).Width(10),
	}
}

// fieldLabel renders a form label, highlighted while its input has focus.
func (p *palette) fieldLabel(text string, focused bool) string {
	if focused {
		return p.focused.Render(text)
	}
	return p.label.Render(text)
}

// probeStatus colors a raw HTTP status line by class.
func (p *palette) probeStatus(status string) string {
	switch {
	case strings.HasPrefix(status, "2"):
		return p.ok.Render(status)
	case strings.HasPrefix(status, "4"):
		return p.err.Render(status)
	default:
		return p.warn.Render(status)
	}
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bold(color string) lipgloss.Style {
	return fg(color).Bold(true)
}
