package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/chatlens/internal/render"
	"github.com/hay-kot/chatlens/internal/styles"
	"github.com/hay-kot/chatlens/internal/workspace"
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	if m.state != stateNormal && m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.formTitle(),
			m.form.View(),
			m.statusLine(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.tabs(),
		styles.DividerStyle.Render(strings.Repeat("─", max(m.width, 1))),
		m.viewport.View(),
		m.statusLine(),
		m.help.View(m.keys),
	)
}

func (m Model) formTitle() string {
	switch m.state {
	case stateCredentials:
		return styles.SectionTitleStyle.Render("Configuration") + styles.HelpStyle.Render("  esc to cancel")
	case stateTopicSelect:
		return styles.SectionTitleStyle.Render(render.SelectTopic) + styles.HelpStyle.Render("  esc to cancel")
	default:
		return ""
	}
}

func (m Model) tabs() string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s == m.section {
			parts = append(parts, styles.SectionActiveStyle.Render(s.String()))
			continue
		}
		parts = append(parts, styles.SectionInactiveStyle.Render(s.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) statusLine() string {
	var b strings.Builder
	if m.pending > 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		if m.fetching {
			b.WriteString(styles.NoticeInfoStyle.Render(FetchingLabel))
			return b.String()
		}
	}

	if m.status.Text == "" {
		return b.String()
	}

	switch m.status.Level {
	case workspace.LevelSuccess:
		b.WriteString(styles.NoticeSuccessStyle.Render(m.status.Text))
	case workspace.LevelError:
		b.WriteString(styles.NoticeErrorStyle.Render(m.status.Text))
	default:
		b.WriteString(styles.NoticeInfoStyle.Render(m.status.Text))
	}
	return b.String()
}

// sectionContent renders the active section wrapped to the viewport width.
func (m Model) sectionContent() string {
	state := m.svc.State()

	var b strings.Builder
	switch m.section {
	case SectionMessages:
		_ = render.Messages(&b, state.Messages, m.opts)
	case SectionTopics:
		_ = render.Topics(&b, state.Topics, m.opts)
	case SectionSummary:
		if state.SelectedTopic != "" && state.Summary != "" {
			b.WriteString(styles.TopicStyle.Render("# " + string(state.SelectedTopic)))
			b.WriteString("\n\n")
		}
		var d render.Decorator = render.Plain{}
		if m.opts.Color {
			d = render.Terminal{}
		}
		_ = render.Summary(&b, state.Summary, d)
	}

	content := strings.TrimRight(b.String(), "\n")
	if m.viewport.Width > 0 {
		content = lipgloss.NewStyle().Width(m.viewport.Width).Render(content)
	}
	return content
}
