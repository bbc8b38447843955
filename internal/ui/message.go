package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/labelgrid/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgContentLoaded MsgKind = iota
	MsgLabelCreated
	MsgAssignDone
	MsgStatusExpired
)

type contentLoaded struct {
	content *models.Content
	err     error
}

type labelCreated struct {
	label *models.Label
	err   error
}

type assignDone struct {
	label  string
	result *models.AssignResult
	err    error
}

// contentLoadedMsg is the constructor for [MsgContentLoaded]
func contentLoadedMsg(content *models.Content, err error) Msg {
	return Msg{kind: MsgContentLoaded, data: contentLoaded{content, err}}
}

// labelCreatedMsg is the constructor for [MsgLabelCreated]
func labelCreatedMsg(label *models.Label, err error) Msg {
	return Msg{kind: MsgLabelCreated, data: labelCreated{label, err}}
}

// assignDoneMsg is the constructor for [MsgAssignDone]
func assignDoneMsg(label string, result *models.AssignResult, err error) Msg {
	return Msg{kind: MsgAssignDone, data: assignDone{label, result, err}}
}

// statusExpiredMsg is the constructor for [MsgStatusExpired]. id identifies the status it clears.
func statusExpiredMsg(id int) Msg {
	return Msg{kind: MsgStatusExpired, data: id}
}
