package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/formatter"
	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
	"github.com/desertthunder/marvelx/internal/viewmodels"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	SavedView
	DetailView
)

// Catalog is everything the TUI reads from and writes to.
type Catalog interface {
	viewmodels.CharacterRepository
	viewmodels.SavedRepository
	GetCharactersFromWeb(ctx context.Context) models.Result[[]models.MarvelCharacter]
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	catalog Catalog
	logger  *log.Logger

	view   ViewState
	prev   ViewState
	width  int
	height int

	browse        list.Model
	browseLoading bool
	browseErr     error

	saved      list.Model
	savedVM    *viewmodels.SavedList
	savedState viewmodels.SavedListState

	detail      *viewmodels.CharacterDetail
	detailState viewmodels.CharacterUIState

	status  string
	err     error
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model. The saved list starts following the store immediately;
// call [Model.Close] once the program exits.
func NewModel(ctx context.Context, catalog Catalog, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	logger = shared.WithLogger(logger, "component", "ui")

	return &Model{
		ctx:           ctx,
		catalog:       catalog,
		logger:        logger,
		view:          BrowseView,
		browse:        newCharacterList("Marvel Characters"),
		browseLoading: true,
		saved:         newCharacterList("Saved Characters"),
		savedVM:       viewmodels.NewSavedList(ctx, catalog, logger),
		savedState:    viewmodels.SavedListState{Loading: true},
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init fetches the browse list and starts listening for saved list changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCharacters(), m.waitForSaved())
}

// Close releases the detail and saved view models.
func (m *Model) Close() {
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
	m.savedVM.Close()
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState {
	return m.view
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browse.SetSize(msg.Width-4, msg.Height-6)
		m.saved.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case SavedView:
			return m.handleSavedKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCharactersFetched:
		data := msg.data.(charactersFetched)
		m.browseLoading = false
		m.browseErr = data.err
		if data.err != nil {
			m.logger.Warn("browse list unavailable", "err", data.err)
			return m, nil
		}
		return m, m.browse.SetItems(characterItems(data.characters))

	case MsgDetailLoaded:
		data := msg.data.(detailLoaded)
		if data.vm != m.detail {
			return m, nil
		}
		m.detailState = data.state
		return m, nil

	case MsgSavedChanged:
		m.savedState = msg.data.(viewmodels.SavedListState)
		return m, tea.Batch(m.saved.SetItems(characterItems(m.savedState.Characters)), m.waitForSaved())

	case MsgSavedClosed:
		m.savedState = msg.data.(viewmodels.SavedListState)
		return m, m.saved.SetItems(characterItems(m.savedState.Characters))

	case MsgStatus:
		data := msg.data.(status)
		m.status = data.text
		m.err = data.err
		return m, nil
	}
	return m, nil
}

func (m *Model) filtering(l list.Model) bool {
	return l.FilterState() == list.Filtering
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering(m.browse) {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.tab):
			m.view = SavedView
			return m, nil
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.browse.SelectedItem().(characterItem); ok {
				return m, m.openDetail(item.character.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

func (m *Model) handleSavedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering(m.saved) {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.tab):
			m.view = BrowseView
			return m, nil
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.saved.SelectedItem().(characterItem); ok {
				return m, m.openDetail(item.character.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.remove):
			if item, ok := m.saved.SelectedItem().(characterItem); ok {
				return m, m.removeSaved(item.character)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.saved, cmd = m.saved.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closeDetail()
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		m.browse, cmd = m.browse.Update(msg)
	case SavedView:
		m.saved, cmd = m.saved.Update(msg)
	}
	return m, cmd
}

func (m *Model) openDetail(id string) tea.Cmd {
	if m.detail != nil {
		m.detail.Close()
	}

	vm := viewmodels.NewCharacterDetail(m.ctx, m.catalog, id, m.logger)
	m.detail = vm
	m.detailState = vm.State()
	m.prev = m.view
	m.view = DetailView
	m.status, m.err = "", nil

	return func() tea.Msg {
		return detailLoadedMsg(vm, vm.Load())
	}
}

func (m *Model) closeDetail() {
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
	m.detailState = viewmodels.CharacterUIState{}
	m.view = m.prev
}

func (m *Model) toggleFavorite() tea.Cmd {
	vm := m.detail
	if vm == nil || m.detailState.Loading || m.detailState.Character == nil {
		return nil
	}
	return func() tea.Msg {
		return detailLoadedMsg(vm, vm.OnFavoritePressed())
	}
}

func (m *Model) removeSaved(c models.MarvelCharacter) tea.Cmd {
	vm := m.savedVM
	return func() tea.Msg {
		if err := vm.Remove(c); err != nil {
			return statusMsg("", err)
		}
		return statusMsg(fmt.Sprintf("Removed %s", c.Name), nil)
	}
}

func (m *Model) fetchCharacters() tea.Cmd {
	return func() tea.Msg {
		return charactersFetchedMsg(m.catalog.GetCharactersFromWeb(m.ctx))
	}
}

func (m *Model) waitForSaved() tea.Cmd {
	vm := m.savedVM
	return func() tea.Msg {
		select {
		case <-vm.Changed():
			return savedChangedMsg(vm.State())
		case <-vm.Done():
			return savedClosedMsg(vm.State())
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case BrowseView:
		body = m.renderBrowse()
	case SavedView:
		body = m.renderSaved()
	case DetailView:
		body = m.renderDetail()
	}

	var footer string
	switch {
	case m.err != nil:
		footer = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		footer = styles.ok.Render(m.status)
	}

	if footer == "" {
		return body
	}
	return fmt.Sprintf("%s\n%s", body, footer)
}

func (m *Model) renderBrowse() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.tab, m.keys.quit})

	switch {
	case m.browseLoading:
		return fmt.Sprintf("%s Loading characters...\n\n%s", m.spinner.View(), helpView)
	case m.browseErr != nil:
		msg := styles.warn.Render(fmt.Sprintf("Characters unavailable: %v", m.browseErr))
		return fmt.Sprintf("%s\n\n%s", msg, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.browse.View(), helpView)
}

func (m *Model) renderSaved() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.remove, m.keys.tab, m.keys.quit})

	switch {
	case m.savedState.Loading:
		return fmt.Sprintf("%s Loading saved characters...\n\n%s", m.spinner.View(), helpView)
	case m.savedState.Error != "":
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(m.savedState.Error), helpView)
	case len(m.savedState.Characters) == 0:
		return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render("Saved Characters"), styles.help.Render("No saved characters yet."), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.saved.View(), helpView)
}

func (m *Model) renderDetail() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.favorite, m.keys.back, m.keys.quit})
	state := m.detailState

	switch {
	case state.Loading:
		return fmt.Sprintf("%s Loading character...\n\n%s", m.spinner.View(), helpView)
	case state.Character == nil:
		msg := state.Error
		if msg == "" {
			msg = "Character unavailable"
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	c := *state.Character

	var b strings.Builder
	b.WriteString(styles.title.Render(c.Name))
	b.WriteString("\n")
	if state.IsSaved {
		b.WriteString(styles.ok.Render("★ Saved"))
	} else {
		b.WriteString(styles.help.Render("☆ Not saved"))
	}
	b.WriteString("\n\n")
	b.WriteString(formatter.DescriptionText(c))
	b.WriteString("\n\n")
	if c.HasThumbnail() {
		b.WriteString(fmt.Sprintf("%s: %s", formatter.ThumbnailAltText(c), c.ThumbnailURL))
	} else {
		b.WriteString(styles.help.Render(formatter.ThumbnailAltText(c)))
	}

	body := styles.card.Render(b.String())
	if state.Error != "" {
		body = fmt.Sprintf("%s\n%s", body, styles.err.Render(state.Error))
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}
