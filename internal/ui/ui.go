package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/dashboard"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	HomeView
)

const (
	focusUsername = iota
	focusPassword
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	dash     *dashboard.Dashboard
	doc      *dom.Document
	cookies  cookies.Map
	width    int
	height   int
	spinner  spinner.Model
	username textinput.Model
	password textinput.Model
	focus    int
	search   textinput.Model
	results  list.Model
	listed   bool
	apps     []models.Application
	busy     bool
	alert    string
	status   string
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI over dash, whose flows must render into doc.
//
// m is the Cookie Map read at startup; it decides the first view and is never modified.
func NewModel(ctx context.Context, dash *dashboard.Dashboard, doc *dom.Document, m cookies.Map) *Model {
	username := textinput.New()
	username.Placeholder = "Username"
	username.Prompt = ""

	password := textinput.New()
	password.Placeholder = "Password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	search := textinput.New()
	search.Placeholder = "Application Name"
	search.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:      ctx,
		view:     LoadingView,
		dash:     dash,
		doc:      doc,
		cookies:  m,
		spinner:  sp,
		username: username,
		password: password,
		search:   search,
		results:  list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// State returns the current view state.
func (m *Model) State() ViewState { return m.view }

// Init starts the session probe. Routing happens when its result arrives.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.route())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case HomeView:
			return m.handleHomeKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateInputs(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	m.busy = false

	switch msg.kind {
	case MsgRouted:
		r := msg.data.(routed)
		m.status = r.probe.Status
		return m, m.sync()

	case MsgLoginDone:
		if err, _ := msg.data.(error); err == nil {
			m.password.SetValue("")
		}
		return m, m.sync()

	case MsgSearchDone:
		r := msg.data.(searchDone)
		if r.err == nil {
			m.apps = r.apps
			m.listed = true
			m.results.SetItems(applicationItems(r.apps))
			m.results.Title = fmt.Sprintf("Applications matching %q", m.search.Value())
		}
		return m, m.sync()
	}

	return m, nil
}

// sync reads the mounted view and alert back from the document.
func (m *Model) sync() tea.Cmd {
	m.alert = m.doc.Text(dom.MountAlert)

	switch dashboard.CurrentView(m.doc) {
	case dashboard.ViewHome:
		if m.view != HomeView {
			m.view = HomeView
			m.username.Blur()
			m.password.Blur()
			return m.search.Focus()
		}
	case dashboard.ViewLogin:
		if m.view != LoginView {
			m.view = LoginView
			m.search.Blur()
			return m.focusLogin(focusUsername)
		}
	}
	return nil
}

func (m *Model) focusLogin(field int) tea.Cmd {
	m.focus = field
	if field == focusUsername {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next, m.keys.prev, m.keys.up, m.keys.down):
		return m, m.focusLogin((m.focus + 1) % 2)
	case key.Matches(msg, m.keys.submit):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.submitLogin())
	}
	return m.updateInputs(msg)
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next, m.keys.prev):
		if m.search.Focused() {
			m.search.Blur()
			return m, nil
		}
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.submit) && m.search.Focused():
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.submitSearch())
	}

	if !m.search.Focused() {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LoginView:
		if m.focus == focusUsername {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case HomeView:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m *Model) route() tea.Cmd {
	return func() tea.Msg {
		view, probe := m.dash.Router.RouteWithResult(m.ctx, m.cookies)
		return routedMsg(view, probe)
	}
}

func (m *Model) submitLogin() tea.Cmd {
	values := models.FormValues{"username": m.username.Value(), "password": m.password.Value()}
	return func() tea.Msg {
		return loginDoneMsg(m.dash.Login.Submit(m.ctx, values))
	}
}

func (m *Model) submitSearch() tea.Cmd {
	values := models.FormValues{"name": m.search.Value()}
	return func() tea.Msg {
		apps, err := m.dash.Home.Submit(m.ctx, values)
		return searchDoneMsg(apps, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("%s Checking session...\n", m.spinner.View())
	case LoginView:
		return m.renderLogin()
	case HomeView:
		return m.renderHome()
	default:
		return ""
	}
}

func (m *Model) renderAlert() string {
	if m.alert == "" {
		return ""
	}
	return "\n" + styles.err.Render("✗ "+m.alert) + "\n"
}

func (m *Model) renderBusy(label string) string {
	if !m.busy {
		return ""
	}
	return fmt.Sprintf("\n%s %s\n", m.spinner.View(), label)
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("TDS Login"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%s\n", styles.fieldLabel("Username", m.focus == focusUsername), m.username.View())
	fmt.Fprintf(&b, "%s%s\n", styles.fieldLabel("Password", m.focus == focusPassword), m.password.View())
	b.WriteString(m.renderAlert())
	b.WriteString(m.renderBusy("Logging in..."))
	if m.status != "" && m.alert == "" {
		b.WriteString("\n" + styles.warn.Render("Session check: ") + styles.probeStatus(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.submit, m.keys.quit}))
	return b.String()
}

func (m *Model) renderHome() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("TDS Applications"))
	b.WriteString("\n")
	b.WriteString(m.search.View() + "\n")
	b.WriteString(m.renderAlert())
	b.WriteString(m.renderBusy("Searching..."))

	switch {
	case !m.listed:
		b.WriteString("\n" + styles.help.Render("Type an application name and press enter.") + "\n")
	case len(m.apps) == 0:
		b.WriteString("\n" + styles.warn.Render("No applications found.") + "\n")
	default:
		b.WriteString("\n" + styles.ok.Render(fmt.Sprintf("%d application(s)", len(m.apps))) + "\n")
		b.WriteString(m.results.View() + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.submit, m.keys.up, m.keys.down, m.keys.quit}))
	return b.String()
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(ctx context.Context, model *Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
