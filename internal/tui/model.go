// Package tui implements the interactive chatlens workspace.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/render"
	"github.com/hay-kot/chatlens/internal/styles"
	"github.com/hay-kot/chatlens/internal/workspace"
)

// FetchingLabel is shown next to the spinner while a fetch is outstanding.
const FetchingLabel = "Fetching..."

// Section identifies which part of the workspace the viewport shows.
type Section int

const (
	SectionMessages Section = iota
	SectionTopics
	SectionSummary
)

var sections = []Section{SectionMessages, SectionTopics, SectionSummary}

func (s Section) String() string {
	switch s {
	case SectionMessages:
		return "Messages"
	case SectionTopics:
		return "Topics"
	case SectionSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// UIState represents the current mode of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateCredentials
	stateTopicSelect
)

// Fixed rows around the viewport: tabs, divider, status and help.
const chromeHeight = 4

// Model is the bubbletea model for the workspace.
type Model struct {
	ctx     context.Context
	svc     *workspace.Service
	opts    render.Options
	notices chan workspace.Notice

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	state UIState
	form  *huh.Form
	creds *credentials.Credentials
	topic *string

	section  Section
	pending  int
	fetching bool
	status   workspace.Notice

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a Model bound to svc. Service notices are routed to the
// status line for as long as the model runs.
func New(ctx context.Context, svc *workspace.Service, opts render.Options) Model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.SpinnerStyle),
	)

	return Model{
		ctx:     ctx,
		svc:     svc,
		opts:    opts,
		notices: noticeQueue(svc),
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: s,
		section: SectionMessages,
	}
}

// Init starts the notice listener.
func (m Model) Init() tea.Cmd {
	return listenNotices(m.notices)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width)
		}
		return m, nil

	case noticeMsg:
		m.status = workspace.Notice(msg)
		return m, listenNotices(m.notices)

	case opDoneMsg:
		return m.handleDone(msg), nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state != stateNormal {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleDone(msg opDoneMsg) Model {
	if m.pending > 0 {
		m.pending--
	}
	if msg.op == opFetch {
		m.fetching = false
	}

	if msg.err != nil {
		m.status = workspace.Notice{Level: workspace.LevelError, Text: workspace.UserMessage(msg.err)}
	} else {
		switch msg.op {
		case opFetch, opLoad:
			m.section = SectionMessages
		case opTopics:
			m.section = SectionTopics
		case opSummarize:
			m.section = SectionSummary
		}
	}

	m.refresh()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.section = sections[(int(m.section)+1)%len(sections)]
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.section = sections[(int(m.section)+len(sections)-1)%len(sections)]
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Config):
		c := m.svc.Credentials()
		m.creds = &c
		return m.openForm(stateCredentials, CredentialsForm(m.creds))

	case key.Matches(msg, m.keys.Status):
		return m.start(checkStatus(m.ctx, m.svc))

	case key.Matches(msg, m.keys.Fetch):
		if m.fetching || m.svc.Busy() {
			return m, nil
		}
		m.fetching = true
		return m.start(fetchMessages(m.ctx, m.svc))

	case key.Matches(msg, m.keys.Load):
		return m.start(loadMessages(m.ctx, m.svc))

	case key.Matches(msg, m.keys.Topics):
		return m.start(analyzeTopics(m.ctx, m.svc))

	case key.Matches(msg, m.keys.Summarize):
		topic := m.svc.State().SelectedTopic
		s := string(topic)
		m.topic = &s
		return m.openForm(stateTopicSelect, TopicForm(m.svc.State().Topics, m.topic))
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// start runs cmd in the background and spins while any call is pending.
func (m Model) start(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.pending++
	if m.pending == 1 {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) openForm(state UIState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.state = state
	m.form = form
	if m.width > 0 {
		m.form = m.form.WithWidth(m.width)
	}
	return m, m.form.Init()
}

func (m Model) closeForm() Model {
	m.state = stateNormal
	m.form = nil
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			return m.closeForm(), nil
		}
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m.closeForm(), nil
	case huh.StateCompleted:
		state := m.state
		m = m.closeForm()
		switch state {
		case stateCredentials:
			return m.start(saveCredentials(m.ctx, m.svc, *m.creds))
		case stateTopicSelect:
			return m.start(summarize(m.ctx, m.svc, analysis.Topic(*m.topic)))
		}
		return m, nil
	}

	return m, cmd
}

func (m *Model) resize() {
	h := m.height - chromeHeight
	if h < 1 {
		h = 1
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, h)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = h
	}
	m.help.Width = m.width
	m.refresh()
}

// refresh replaces the viewport content with the active section.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.sectionContent())
	m.viewport.GotoTop()
}
