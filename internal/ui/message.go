package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/viewmodels"
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
	MsgCharactersFetched MsgKind = iota
	MsgDetailLoaded
	MsgSavedChanged
	MsgSavedClosed
	MsgStatus
)

type charactersFetched struct {
	characters []models.MarvelCharacter
	err        error
}

type status struct {
	text string
	err  error
}

type detailLoaded struct {
	vm    *viewmodels.CharacterDetail
	state viewmodels.CharacterUIState
}

// charactersFetchedMsg is the constructor for [MsgCharactersFetched]
func charactersFetchedMsg(res models.Result[[]models.MarvelCharacter]) Msg {
	if !res.Succeeded() {
		return Msg{kind: MsgCharactersFetched, data: charactersFetched{err: res.Err()}}
	}
	return Msg{kind: MsgCharactersFetched, data: charactersFetched{characters: res.Value()}}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded]. vm identifies which detail screen the state belongs to.
func detailLoadedMsg(vm *viewmodels.CharacterDetail, state viewmodels.CharacterUIState) Msg {
	return Msg{kind: MsgDetailLoaded, data: detailLoaded{vm: vm, state: state}}
}

// savedChangedMsg is the constructor for [MsgSavedChanged]
func savedChangedMsg(state viewmodels.SavedListState) Msg {
	return Msg{kind: MsgSavedChanged, data: state}
}

// savedClosedMsg is the constructor for [MsgSavedClosed]
func savedClosedMsg(state viewmodels.SavedListState) Msg {
	return Msg{kind: MsgSavedClosed, data: state}
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(text string, err error) Msg {
	return Msg{kind: MsgStatus, data: status{text: text, err: err}}
}
