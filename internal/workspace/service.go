// Package workspace owns the client's application state and implements the
// user-facing operations against the analysis backend.
package workspace

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/poller"
)

// Backend is the subset of backend.Client the workspace calls.
type Backend interface {
	CheckStatus(ctx context.Context, req backend.CheckStatusRequest) (backend.CheckStatusResponse, error)
	FetchMessages(ctx context.Context, req backend.FetchMessagesRequest) (backend.FetchMessagesResponse, error)
	DisplayedMessages(ctx context.Context, req backend.MessagesRequest) (backend.MessagesResponse, error)
	Topics(ctx context.Context, req backend.TopicsRequest) (backend.TopicsResponse, error)
	Summary(ctx context.Context, req backend.SummaryRequest) (backend.SummaryResponse, error)
}

var _ Backend = (*backend.Client)(nil)

// Options configures a Service.
type Options struct {
	Credentials credentials.Store
	// Snapshots is optional. When set, results are restored on start and
	// saved after every change.
	Snapshots SnapshotStore
	Backend   Backend

	PollInterval time.Duration
	PollTimeout  time.Duration
	Clock        poller.Clock

	Logger zerolog.Logger
	Notify Notifier
}

// Service is the workspace controller. It is safe for concurrent use.
type Service struct {
	creds     credentials.Store
	snapshots SnapshotStore
	backend   Backend

	pollInterval time.Duration
	pollTimeout  time.Duration
	clock        poller.Clock

	log    zerolog.Logger
	notify Notifier

	mu    sync.RWMutex
	state State
	busy  atomic.Bool
}

// New creates a Service and loads persisted credentials and results.
// Load failures are logged and leave the affected state empty.
func New(ctx context.Context, opts Options) *Service {
	s := &Service{
		creds:        opts.Credentials,
		snapshots:    opts.Snapshots,
		backend:      opts.Backend,
		pollInterval: opts.PollInterval,
		pollTimeout:  opts.PollTimeout,
		clock:        opts.Clock,
		log:          opts.Logger,
		notify:       opts.Notify,
	}
	if s.clock == nil {
		s.clock = poller.RealClock{}
	}
	if s.notify == nil {
		s.notify = func(Notice) {}
	}

	c, err := s.creds.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load saved credentials, starting empty")
	}
	s.state.Credentials = c

	if s.snapshots != nil {
		snap, err := s.snapshots.Load(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to load workspace snapshot")
		} else {
			s.state.Messages = snap.Messages
			s.state.Topics = snap.Topics
			s.state.SelectedTopic = snap.SelectedTopic
			s.state.Summary = snap.Summary
		}
	}

	return s
}

// State returns a copy of the current workspace state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Credentials returns the in-memory credentials.
func (s *Service) Credentials() credentials.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Credentials
}

// Busy reports whether a message fetch is outstanding.
func (s *Service) Busy() bool {
	return s.busy.Load()
}

// SetNotifier replaces the notice receiver.
func (s *Service) SetNotifier(n Notifier) {
	if n == nil {
		n = func(Notice) {}
	}
	s.mu.Lock()
	s.notify = n
	s.mu.Unlock()
}

func (s *Service) emit(level Level, text string) {
	s.mu.RLock()
	n := s.notify
	s.mu.RUnlock()
	n(Notice{Level: level, Text: text})
}

// SaveCredentials replaces the credentials in memory and on disk. A write
// failure is logged only; the in-memory record is still updated.
func (s *Service) SaveCredentials(ctx context.Context, c credentials.Credentials) {
	s.mu.Lock()
	s.state.Credentials = c
	s.mu.Unlock()

	if err := s.creds.Save(ctx, c); err != nil {
		s.log.Error().Err(err).Msg("failed to persist credentials")
	}
	s.emit(LevelSuccess, "Configuration saved to local storage")
}

// ResetCredentials clears the credentials in memory and on disk.
func (s *Service) ResetCredentials(ctx context.Context) error {
	s.mu.Lock()
	s.state.Credentials = credentials.Credentials{}
	s.mu.Unlock()

	if err := s.creds.Reset(ctx); err != nil {
		return err
	}
	s.emit(LevelInfo, "Configuration cleared")
	return nil
}

// requireCredentials is the gate in front of every backend call.
func (s *Service) requireCredentials() (credentials.Credentials, error) {
	c := s.Credentials()
	if err := c.Require(); err != nil {
		return c, err
	}
	return c, nil
}

// StatusReport is the result of a connectivity check.
type StatusReport struct {
	DiscordOK bool
	GeminiOK  bool
}

// CheckStatus asks the backend to verify all four credentials.
func (s *Service) CheckStatus(ctx context.Context) (StatusReport, error) {
	c, err := s.requireCredentials()
	if err != nil {
		return StatusReport{}, err
	}

	s.emit(LevelInfo, "Checking API connectivity...")

	resp, err := s.backend.CheckStatus(ctx, backend.CheckStatusRequest{
		DiscordToken: c.DiscordToken,
		ServerID:     c.ServerID,
		ChannelID:    c.ChannelID,
		GeminiKey:    c.GeminiKey,
	})
	if err != nil {
		return StatusReport{}, err
	}

	report := StatusReport{DiscordOK: resp.DiscordOK, GeminiOK: resp.GeminiOK}
	if resp.Status != backend.StatusSuccess {
		return report, &backend.AppError{
			Endpoint: backend.PathCheckStatus,
			Status:   resp.Status,
			Message:  checkFailureMessage(resp),
		}
	}

	s.emit(LevelSuccess, "All configurations are valid!")
	return report, nil
}

func checkFailureMessage(resp backend.CheckStatusResponse) string {
	var b strings.Builder
	b.WriteString("Configuration check failed:")
	if !resp.DiscordOK {
		b.WriteString(" Discord token is invalid.")
	}
	if !resp.GeminiOK {
		b.WriteString(" Gemini API key is invalid.")
	}
	return b.String()
}

// persist saves the result part of the state. Failures are logged.
func (s *Service) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}

	st := s.State()
	snap := Snapshot{
		Messages:      st.Messages,
		Topics:        st.Topics,
		SelectedTopic: st.SelectedTopic,
		Summary:       st.Summary,
		SavedAt:       s.clock.Now(),
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.log.Warn().Err(err).Msg("failed to save workspace snapshot")
	}
}
