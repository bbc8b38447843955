package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up          key.Binding
	down        key.Binding
	left        key.Binding
	right       key.Binding
	extendUp    key.Binding
	extendDown  key.Binding
	extendLeft  key.Binding
	extendRight key.Binding
	toggle      key.Binding
	selectAll   key.Binding
	clear       key.Binding
	nextLabel   key.Binding
	prevLabel   key.Binding
	pickLabel   key.Binding
	assign      key.Binding
	open        key.Binding
	parent      key.Binding
	newLabel    key.Binding
	filter      key.Binding
	refresh     key.Binding
	help        key.Binding
	quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		extendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend up")),
		extendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend down")),
		extendLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "extend left")),
		extendRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "extend right")),
		toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		selectAll:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		nextLabel:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next label")),
		prevLabel:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev label")),
		pickLabel:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pick label")),
		assign:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "assign")),
		open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open label")),
		parent:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "up a folder")),
		newLabel:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new label")),
		filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.nextLabel, k.assign, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.extendUp, k.extendDown, k.extendLeft, k.extendRight},
		{k.toggle, k.selectAll, k.clear, k.filter},
		{k.nextLabel, k.prevLabel, k.pickLabel, k.assign},
		{k.open, k.parent, k.newLabel, k.refresh},
		{k.help, k.quit},
	}
}
