package workspace

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/poller"
)

// TimedOutMessage is shown when the poll deadline passes without messages.
const TimedOutMessage = "Message fetching may still be in progress. Try viewing messages in a moment."

// fetchJob adapts the fetch and poll endpoints to poller.Job.
type fetchJob struct {
	backend Backend
	creds   credentials.Credentials
	ack     backend.FetchMessagesResponse
}

func (j *fetchJob) Start(ctx context.Context) (poller.Ack, error) {
	resp, err := j.backend.FetchMessages(ctx, backend.FetchMessagesRequest{
		DiscordToken: j.creds.DiscordToken,
		ServerID:     j.creds.ServerID,
		ChannelID:    j.creds.ChannelID,
	})
	if err != nil {
		return poller.Ack{}, err
	}
	j.ack = resp
	return poller.Ack{Accepted: resp.Accepted(), Message: resp.Message}, nil
}

func (j *fetchJob) Poll(ctx context.Context) (poller.Batch[analysis.Message], error) {
	resp, err := j.backend.DisplayedMessages(ctx, backend.MessagesRequest{
		ServerID:  j.creds.ServerID,
		ChannelID: j.creds.ChannelID,
	})
	if err != nil {
		return poller.Batch[analysis.Message]{}, err
	}
	return poller.Batch[analysis.Message]{
		OK:      resp.Status == backend.StatusSuccess,
		Records: resp.Messages,
	}, nil
}

// FetchResult summarizes a FetchMessages run.
type FetchResult struct {
	State    poller.State
	Messages int
	Polls    int
}

// FetchMessages starts a scraping job and polls until messages appear, the
// job fails, or the poll deadline passes. Only one fetch may run at a time;
// a second call returns ErrBusy. A timeout is not an error: the result has
// State poller.StateTimedOut.
func (s *Service) FetchMessages(ctx context.Context) (FetchResult, error) {
	c, err := s.requireCredentials()
	if err != nil {
		return FetchResult{}, err
	}

	if !s.busy.CompareAndSwap(false, true) {
		return FetchResult{}, ErrBusy
	}
	defer s.busy.Store(false)

	s.emit(LevelInfo, "Fetching messages from Discord...")

	job := &fetchJob{backend: s.backend, creds: c}
	p := poller.New[analysis.Message](job, poller.Options{
		Interval: s.pollInterval,
		Timeout:  s.pollTimeout,
		Clock:    s.clock,
		Logger:   s.log,
		OnAccepted: func(ack poller.Ack) {
			if ack.Message != "" {
				s.emit(LevelInfo, ack.Message)
			}
		},
	})

	out := p.Run(ctx)
	res := FetchResult{State: out.State, Polls: out.Polls}

	switch out.State {
	case poller.StateSucceeded:
		s.mu.Lock()
		s.state.Messages = out.Records
		s.mu.Unlock()
		s.persist(ctx)

		res.Messages = len(out.Records)
		s.emit(LevelSuccess, loadedMessage(len(out.Records)))
		return res, nil

	case poller.StateTimedOut:
		s.emit(LevelInfo, TimedOutMessage)
		return res, nil
	}

	return res, fetchError(out, job.ack)
}

func fetchError(out poller.Outcome[analysis.Message], ack backend.FetchMessagesResponse) error {
	switch {
	case errors.Is(out.Err, poller.ErrRejected):
		return fmt.Errorf("failed to fetch messages: %w", &backend.AppError{
			Endpoint: backend.PathFetchMessages,
			Status:   ack.Status,
			Message:  ack.Message,
		})
	case out.Polls > 0:
		return fmt.Errorf("error checking message status: %w", out.Err)
	default:
		return out.Err
	}
}

// LoadMessages reads the messages the backend currently holds, without
// starting a job. A success replaces the messages even when none exist.
func (s *Service) LoadMessages(ctx context.Context) ([]analysis.Message, error) {
	c, err := s.requireCredentials()
	if err != nil {
		return nil, err
	}

	s.emit(LevelInfo, "Loading messages from database...")

	resp, err := s.backend.DisplayedMessages(ctx, backend.MessagesRequest{
		ServerID:  c.ServerID,
		ChannelID: c.ChannelID,
	})
	if err != nil {
		return nil, err
	}
	if resp.Status != backend.StatusSuccess {
		return nil, fmt.Errorf("failed to load messages: %w", &backend.AppError{
			Endpoint: backend.PathGetDisplayedMessages,
			Status:   resp.Status,
			Message:  resp.Message,
		})
	}

	s.mu.Lock()
	s.state.Messages = resp.Messages
	s.mu.Unlock()
	s.persist(ctx)

	s.emit(LevelSuccess, loadedMessage(len(resp.Messages)))
	return resp.Messages, nil
}

func loadedMessage(n int) string {
	return "Loaded " + strconv.Itoa(n) + " messages"
}
