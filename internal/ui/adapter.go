package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/labelgrid/internal/selection"
)

// handleMouse translates terminal mouse events into selection engine calls.
//
// A left press on a cell is a click: plain selects only that cell, ctrl or alt toggles it,
// shift extends from the anchor (keeping the selection when ctrl or alt is also held).
// A left press on empty grid space starts a marquee, additive with ctrl or alt. Motion while
// the button is held updates the marquee against the cells on screen right now, and release
// ends it wherever the pointer is. Terminals report the release even outside the grid.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.press(msg)
		case tea.MouseButtonWheelUp:
			m.moveCursor(0, -1, false)
		case tea.MouseButtonWheelDown:
			m.moveCursor(0, 1, false)
		}

	case tea.MouseActionMotion:
		if m.engine.Dragging() {
			m.engine.UpdateMarquee(msg.X, msg.Y, m.grid.visible)
		}

	case tea.MouseActionRelease:
		if m.engine.Dragging() {
			m.engine.UpdateMarquee(msg.X, msg.Y, m.grid.visible)
			m.engine.EndMarquee()
		}
	}
}

func (m *Model) press(msg tea.MouseMsg) {
	toggle := msg.Ctrl || msg.Alt

	if id, ok := selection.HitTest(m.grid.visible, msg.X, msg.Y); ok {
		m.cursor = m.grid.index(id)
		switch {
		case msg.Shift:
			m.engine.ExtendTo(id, m.grid.items, toggle)
		case toggle:
			m.engine.Toggle(id)
		default:
			m.engine.SelectSingle(id)
		}
		m.relayout()
		return
	}

	if id, ok := selection.HitTest(m.labels, msg.X, msg.Y); ok {
		for i, l := range m.content.Labels {
			if l.Path == id {
				m.labelIdx = i
			}
		}
		return
	}

	if m.grid.inArea(msg.Y) {
		m.engine.BeginMarquee(msg.X, msg.Y, toggle)
	}
}
