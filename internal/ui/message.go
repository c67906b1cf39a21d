package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdsdash/internal/dashboard"
	"github.com/desertthunder/tdsdash/internal/models"
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
	MsgRouted MsgKind = iota
	MsgLoginDone
	MsgSearchDone
)

type routed struct {
	view  dashboard.View
	probe dashboard.ProbeResult
}

type searchDone struct {
	apps []models.Application
	err  error
}

// routedMsg is the constructor for [MsgRouted]
func routedMsg(view dashboard.View, probe dashboard.ProbeResult) Msg {
	return Msg{kind: MsgRouted, data: routed{view, probe}}
}

// loginDoneMsg is the constructor for [MsgLoginDone]
func loginDoneMsg(err error) Msg {
	return Msg{kind: MsgLoginDone, data: err}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(apps []models.Application, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{apps, err}}
}
