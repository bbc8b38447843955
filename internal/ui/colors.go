package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style

	cell        lipgloss.Style
	selected    lipgloss.Style
	cursor      lipgloss.Style
	caption     lipgloss.Style
	label       lipgloss.Style
	labelActive lipgloss.Style
}

// NewPalette builds the stylesheet from title, success, error, warning and muted colors.
func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),

		cell:        lipgloss.NewStyle(),
		selected:    NewBold("#FFFFFF").Background(lipgloss.Color(t)),
		cursor:      lipgloss.NewStyle().Underline(true).Bold(true),
		caption:     NewStyle(h),
		label:       NewStyle("#FFFFFF").Background(lipgloss.Color(h)),
		labelActive: NewBold("#FFFFFF").Background(lipgloss.Color(s)),
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
