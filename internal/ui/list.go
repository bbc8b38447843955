package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/labelgrid/internal/models"
)

var (
	_ list.Item = labelItem{}
)

// labelItem wraps [models.Label] to implement [list.Item] for the label picker.
type labelItem struct {
	label models.Label
}

func (i labelItem) FilterValue() string { return i.label.Name }
func (i labelItem) Title() string       { return i.label.Name }
func (i labelItem) Description() string { return i.label.Path }

func labelItems(labels []models.Label) []list.Item {
	items := make([]list.Item, len(labels))
	for i, l := range labels {
		items[i] = labelItem{label: l}
	}
	return items
}
