package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/backend/backendtest"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/poller"
	"github.com/hay-kot/chatlens/internal/render"
	"github.com/hay-kot/chatlens/internal/store/jsonfile"
	"github.com/hay-kot/chatlens/internal/workspace"
)

func newTestModel(t *testing.T, creds credentials.Credentials) (Model, *backendtest.Server) {
	t.Helper()

	srv := backendtest.New(t)
	dir := t.TempDir()

	store := jsonfile.NewCredentialStore(jsonfile.NewKVStore(filepath.Join(dir, "storage.json")))
	require.NoError(t, store.Save(context.Background(), creds))

	svc := workspace.New(context.Background(), workspace.Options{
		Credentials: store,
		Snapshots:   jsonfile.NewSnapshotStore(filepath.Join(dir, "workspace.json")),
		Backend:     backend.NewClient(srv.URL, 5*time.Second, zerolog.Nop()),
		Clock:       poller.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		Logger:      zerolog.Nop(),
	})

	m := New(context.Background(), svc, render.Options{Location: time.UTC})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, srv
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and any batched commands, returning the opDoneMsg.
func collect(t *testing.T, cmd tea.Cmd) (opDoneMsg, bool) {
	t.Helper()
	if cmd == nil {
		return opDoneMsg{}, false
	}
	switch msg := cmd().(type) {
	case opDoneMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if done, ok := collect(t, c); ok {
				return done, true
			}
		}
	}
	return opDoneMsg{}, false
}

var validCreds = credentials.Credentials{
	DiscordToken: "token",
	ServerID:     "1",
	ChannelID:    "2",
	GeminiKey:    "key",
}

func TestModel_SectionCycling(t *testing.T) {
	m, _ := newTestModel(t, validCreds)
	assert.Equal(t, SectionMessages, m.section)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, SectionTopics, m.section)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, SectionMessages, m.section, "wraps around")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, SectionSummary, m.section)
}

func TestModel_ViewShowsPlaceholders(t *testing.T) {
	m, _ := newTestModel(t, validCreds)
	assert.Contains(t, m.View(), render.NoMessages)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), render.NoTopics)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), render.NoSummary)
}

func TestModel_FetchIgnoredWhileFetching(t *testing.T) {
	m, _ := newTestModel(t, validCreds)

	next, cmd := m.Update(runes("f"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.fetching)
	assert.Equal(t, 1, m.pending)
	assert.Contains(t, m.View(), FetchingLabel)

	next, cmd = m.Update(runes("f"))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.pending)
}

func TestModel_OperationErrorShownInStatus(t *testing.T) {
	m, _ := newTestModel(t, validCreds)
	m.pending = 1
	m.fetching = true

	m = update(t, m, opDoneMsg{op: opFetch, err: credentials.ErrIncomplete})

	assert.False(t, m.fetching)
	assert.Equal(t, 0, m.pending)
	assert.Equal(t, workspace.LevelError, m.status.Level)
	assert.Equal(t, "Please fill in all configuration fields", m.status.Text)
	assert.NotContains(t, m.View(), FetchingLabel)
}

func TestModel_SummarizeErrorWithoutTopic(t *testing.T) {
	m, _ := newTestModel(t, validCreds)
	m.pending = 1

	m = update(t, m, opDoneMsg{op: opSummarize, err: workspace.ErrNoTopic})
	assert.Equal(t, "Please select a topic to summarize", m.status.Text)
	assert.Equal(t, SectionMessages, m.section, "failed summary keeps the section")
}

func TestModel_SuccessSwitchesSection(t *testing.T) {
	tests := []struct {
		op   operation
		want Section
	}{
		{op: opTopics, want: SectionTopics},
		{op: opSummarize, want: SectionSummary},
		{op: opLoad, want: SectionMessages},
	}

	for _, tt := range tests {
		m, _ := newTestModel(t, validCreds)
		m.section = SectionTopics
		m.pending = 1
		m = update(t, m, opDoneMsg{op: tt.op})
		assert.Equal(t, tt.want, m.section)
	}
}

func TestModel_CheckStatusRoutesNotices(t *testing.T) {
	m, srv := newTestModel(t, validCreds)
	srv.Respond(backend.PathCheckStatus, map[string]any{"status": "success", "discord_ok": true, "gemini_ok": true})

	next, cmd := m.Update(runes("s"))
	m = next.(Model)
	assert.Equal(t, 1, m.pending)

	done, ok := collect(t, cmd)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, 1, srv.Calls(backend.PathCheckStatus))

	first := listenNotices(m.notices)()
	assert.Equal(t, noticeMsg{Level: workspace.LevelInfo, Text: "Checking API connectivity..."}, first)

	m = update(t, m, first)
	assert.Equal(t, "Checking API connectivity...", m.status.Text)

	m = update(t, m, listenNotices(m.notices)())
	m = update(t, m, done)
	assert.Equal(t, workspace.Notice{Level: workspace.LevelSuccess, Text: "All configurations are valid!"}, m.status)
	assert.Equal(t, 0, m.pending)
}

func TestModel_ConfigFormOpensAndCancels(t *testing.T) {
	m, _ := newTestModel(t, validCreds)

	m = update(t, m, runes("c"))
	require.Equal(t, stateCredentials, m.state)
	require.NotNil(t, m.form)
	assert.Equal(t, validCreds, *m.creds, "form prefilled with saved values")
	assert.Contains(t, m.View(), "Configuration")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateNormal, m.state)
	assert.Nil(t, m.form)
}

func TestModel_TopicFormOpens(t *testing.T) {
	m, _ := newTestModel(t, validCreds)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateTopicSelect, m.state)
	assert.Contains(t, m.View(), render.SelectTopic)
	assert.Empty(t, *m.topic)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, validCreds)

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}
