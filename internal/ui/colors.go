package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tapedeck/internal/tasks"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// statusStyle picks the style for an event status.
func (p *Palette) statusStyle(kind string) lipgloss.Style {
	switch kind {
	case tasks.StatusDownloaded:
		return p.ok
	case tasks.StatusSkipped:
		return p.help
	case tasks.StatusNotFound:
		return p.warn
	default:
		return p.err
	}
}

// bar renders a fixed-width progress bar for done of total.
func (p *Palette) bar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(done*width/total, width)
	return p.ok.Render(strings.Repeat("█", filled)) + p.help.Render(strings.Repeat("░", width-filled))
}
