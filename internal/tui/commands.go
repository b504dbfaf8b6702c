package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/workspace"
)

// noticeBuffer bounds how many notices can queue while the UI is busy
// rendering. Older notices are dropped once it fills.
const noticeBuffer = 64

type operation int

const (
	opSave operation = iota
	opStatus
	opFetch
	opLoad
	opTopics
	opSummarize
)

// noticeMsg carries a service notice into the update loop.
type noticeMsg workspace.Notice

// opDoneMsg reports that a service call finished.
type opDoneMsg struct {
	op  operation
	err error
}

// noticeQueue returns a channel fed by the service notifier. Sends never
// block the service goroutine.
func noticeQueue(svc *workspace.Service) chan workspace.Notice {
	ch := make(chan workspace.Notice, noticeBuffer)
	svc.SetNotifier(func(n workspace.Notice) {
		select {
		case ch <- n:
		default:
		}
	})
	return ch
}

// listenNotices waits for the next notice. The update loop re-issues it
// after every noticeMsg.
func listenNotices(ch <-chan workspace.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func saveCredentials(ctx context.Context, svc *workspace.Service, c credentials.Credentials) tea.Cmd {
	return func() tea.Msg {
		svc.SaveCredentials(ctx, c)
		return opDoneMsg{op: opSave}
	}
}

func checkStatus(ctx context.Context, svc *workspace.Service) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.CheckStatus(ctx)
		return opDoneMsg{op: opStatus, err: err}
	}
}

func fetchMessages(ctx context.Context, svc *workspace.Service) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.FetchMessages(ctx)
		return opDoneMsg{op: opFetch, err: err}
	}
}

func loadMessages(ctx context.Context, svc *workspace.Service) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.LoadMessages(ctx)
		return opDoneMsg{op: opLoad, err: err}
	}
}

func analyzeTopics(ctx context.Context, svc *workspace.Service) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.AnalyzeTopics(ctx)
		return opDoneMsg{op: opTopics, err: err}
	}
}

func summarize(ctx context.Context, svc *workspace.Service, topic analysis.Topic) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.Summarize(ctx, topic)
		return opDoneMsg{op: opSummarize, err: err}
	}
}
