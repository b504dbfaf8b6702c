package workspace_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/backend/backendtest"
	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/poller"
	"github.com/hay-kot/chatlens/internal/store/jsonfile"
	"github.com/hay-kot/chatlens/internal/workspace"
)

var validCreds = credentials.Credentials{
	DiscordToken: "discord-token",
	ServerID:     "1001",
	ChannelID:    "2002",
	GeminiKey:    "gemini-key",
}

type recorder struct {
	mu      sync.Mutex
	notices []workspace.Notice
}

func (r *recorder) notify(n workspace.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Text
	}
	return out
}

func (r *recorder) last() workspace.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return workspace.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type harness struct {
	srv   *backendtest.Server
	clock *poller.FakeClock
	rec   *recorder
	dir   string
	svc   *workspace.Service
}

func newHarness(t *testing.T, creds credentials.Credentials) *harness {
	t.Helper()

	h := &harness{
		srv:   backendtest.New(t),
		clock: poller.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		rec:   &recorder{},
		dir:   t.TempDir(),
	}

	store := jsonfile.NewCredentialStore(jsonfile.NewKVStore(filepath.Join(h.dir, "storage.json")))
	require.NoError(t, store.Save(context.Background(), creds))

	h.svc = h.open(t)
	return h
}

func (h *harness) open(t *testing.T) *workspace.Service {
	t.Helper()
	return workspace.New(context.Background(), workspace.Options{
		Credentials: jsonfile.NewCredentialStore(jsonfile.NewKVStore(filepath.Join(h.dir, "storage.json"))),
		Snapshots:   jsonfile.NewSnapshotStore(filepath.Join(h.dir, "workspace.json")),
		Backend:     backend.NewClient(h.srv.URL, 5*time.Second, zerolog.Nop()),
		Clock:       h.clock,
		Logger:      zerolog.Nop(),
		Notify:      h.rec.notify,
	})
}

func TestService_LoadsSavedCredentials(t *testing.T) {
	h := newHarness(t, validCreds)
	assert.Equal(t, validCreds, h.svc.Credentials())
}

func TestService_SaveCredentials(t *testing.T) {
	h := newHarness(t, credentials.Credentials{})

	updated := credentials.Credentials{DiscordToken: "new", ServerID: "", ChannelID: "c", GeminiKey: "g"}
	h.svc.SaveCredentials(context.Background(), updated)

	assert.Equal(t, workspace.Notice{Level: workspace.LevelSuccess, Text: "Configuration saved to local storage"}, h.rec.last())
	assert.Equal(t, updated, h.svc.Credentials())
	assert.Equal(t, updated, h.open(t).Credentials(), "reload from disk")
}

type failingStore struct{}

func (failingStore) Load(context.Context) (credentials.Credentials, error) {
	return credentials.Credentials{}, errors.New("corrupt")
}

func (failingStore) Save(context.Context, credentials.Credentials) error {
	return errors.New("disk full")
}

func (failingStore) Reset(context.Context) error { return errors.New("disk full") }

func TestService_SaveCredentials_WriteFailureNotSurfaced(t *testing.T) {
	rec := &recorder{}
	svc := workspace.New(context.Background(), workspace.Options{
		Credentials: failingStore{},
		Logger:      zerolog.Nop(),
		Notify:      rec.notify,
	})
	assert.Equal(t, credentials.Credentials{}, svc.Credentials(), "load failure starts empty")

	svc.SaveCredentials(context.Background(), validCreds)
	assert.Equal(t, "Configuration saved to local storage", rec.last().Text)
	assert.Equal(t, validCreds, svc.Credentials())
}

func TestService_ResetCredentials(t *testing.T) {
	h := newHarness(t, validCreds)

	require.NoError(t, h.svc.ResetCredentials(context.Background()))
	assert.Equal(t, credentials.Credentials{}, h.svc.Credentials())
	assert.Equal(t, credentials.Credentials{}, h.open(t).Credentials())
}

func TestService_IncompleteCredentialsNeverCallBackend(t *testing.T) {
	h := newHarness(t, credentials.Credentials{DiscordToken: "t", ServerID: "s", ChannelID: "c"})
	ctx := context.Background()

	_, err := h.svc.CheckStatus(ctx)
	assert.ErrorIs(t, err, credentials.ErrIncomplete)
	_, err = h.svc.FetchMessages(ctx)
	assert.ErrorIs(t, err, credentials.ErrIncomplete)
	_, err = h.svc.LoadMessages(ctx)
	assert.ErrorIs(t, err, credentials.ErrIncomplete)
	_, err = h.svc.AnalyzeTopics(ctx)
	assert.ErrorIs(t, err, credentials.ErrIncomplete)
	_, err = h.svc.Summarize(ctx, "release")
	assert.ErrorIs(t, err, credentials.ErrIncomplete)

	assert.Equal(t, "Please fill in all configuration fields", workspace.UserMessage(err))
	assert.Empty(t, h.srv.Requests(""))
}

func TestService_CheckStatus(t *testing.T) {
	tests := []struct {
		name      string
		resp      map[string]any
		wantErr   string
		wantOK    [2]bool
		wantFinal string
	}{
		{
			name:      "all valid",
			resp:      map[string]any{"status": "success", "discord_ok": true, "gemini_ok": true},
			wantOK:    [2]bool{true, true},
			wantFinal: "All configurations are valid!",
		},
		{
			name:    "gemini invalid",
			resp:    map[string]any{"status": "error", "discord_ok": true, "gemini_ok": false},
			wantErr: "Configuration check failed: Gemini API key is invalid.",
			wantOK:  [2]bool{true, false},
		},
		{
			name:    "both invalid",
			resp:    map[string]any{"status": "error", "discord_ok": false, "gemini_ok": false},
			wantErr: "Configuration check failed: Discord token is invalid. Gemini API key is invalid.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, validCreds)
			h.srv.Respond(backend.PathCheckStatus, tt.resp)

			report, err := h.svc.CheckStatus(context.Background())
			assert.Equal(t, tt.wantOK, [2]bool{report.DiscordOK, report.GeminiOK})

			if tt.wantErr != "" {
				var appErr *backend.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFinal, h.rec.last().Text)
		})
	}
}

func TestService_CheckStatus_TransportError(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Close()

	_, err := h.svc.CheckStatus(context.Background())
	var tErr *backend.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, workspace.UserMessage(err), "Connection error: ")
}

func emptyMessages() map[string]any {
	return map[string]any{"status": "success", "messages": []any{}}
}

func scrapingInitiated() map[string]any {
	return map[string]any{"status": "scraping_initiated", "message": "Message scraping started"}
}

type fetchCall struct {
	res workspace.FetchResult
	err error
}

func (h *harness) startFetch() <-chan fetchCall {
	done := make(chan fetchCall, 1)
	go func() {
		res, err := h.svc.FetchMessages(context.Background())
		done <- fetchCall{res: res, err: err}
	}()
	return done
}

func (h *harness) tick(t *testing.T, wantPolls int) {
	t.Helper()
	h.clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool {
		return h.srv.Calls(backend.PathGetDisplayedMessages) >= wantPolls
	}, 2*time.Second, 5*time.Millisecond)
}

func waitFetch(t *testing.T, done <-chan fetchCall) fetchCall {
	t.Helper()
	select {
	case c := <-done:
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("FetchMessages did not return")
		return fetchCall{}
	}
}

func TestService_FetchMessages_SucceedsAfterPolling(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathFetchMessages, scrapingInitiated())
	h.srv.Handle(backend.PathGetDisplayedMessages, func(call int, _ map[string]any) (int, any) {
		if call < 2 {
			return http.StatusOK, emptyMessages()
		}
		return http.StatusOK, map[string]any{
			"status": "success",
			"messages": []map[string]any{
				{"author_name": "ana", "content": "shipping today", "timestamp": 1714564800000},
			},
		}
	})

	done := h.startFetch()
	h.clock.BlockUntil(2)
	assert.True(t, h.svc.Busy())

	for i := 1; i <= 3; i++ {
		h.tick(t, i)
	}

	c := waitFetch(t, done)
	require.NoError(t, c.err)
	assert.Equal(t, poller.StateSucceeded, c.res.State)
	assert.Equal(t, 1, c.res.Messages)
	assert.Equal(t, 3, c.res.Polls)
	assert.False(t, h.svc.Busy())

	assert.Equal(t, []analysis.Message{{AuthorName: "ana", Content: "shipping today", Timestamp: 1714564800000}}, h.svc.State().Messages)
	assert.Equal(t, []string{
		"Fetching messages from Discord...",
		"Message scraping started",
		"Loaded 1 messages",
	}, h.rec.texts())
	assert.Zero(t, h.clock.Active())

	h.clock.Advance(time.Minute)
	assert.Equal(t, 3, h.srv.Calls(backend.PathGetDisplayedMessages))

	// fetch request carries exactly the three job fields
	reqs := h.srv.Requests(backend.PathFetchMessages)
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{
		"discord_token": "discord-token",
		"server_id":     "1001",
		"channel_id":    "2002",
	}, reqs[0].Body)

	assert.Len(t, h.open(t).State().Messages, 1, "messages restored from snapshot")
}

func TestService_FetchMessages_TimesOut(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathFetchMessages, scrapingInitiated())
	h.srv.Respond(backend.PathGetDisplayedMessages, emptyMessages())

	done := h.startFetch()
	h.clock.BlockUntil(2)

	for i := 1; i <= 14; i++ {
		h.tick(t, i)
	}
	h.clock.Advance(2 * time.Second)

	c := waitFetch(t, done)
	require.NoError(t, c.err)
	assert.Equal(t, poller.StateTimedOut, c.res.State)
	assert.Empty(t, h.svc.State().Messages)
	assert.Equal(t, workspace.Notice{Level: workspace.LevelInfo, Text: workspace.TimedOutMessage}, h.rec.last())
	assert.NotContains(t, h.rec.texts(), "Loaded 0 messages")
	assert.False(t, h.svc.Busy())
	assert.Zero(t, h.clock.Active())
}

func TestService_FetchMessages_UnsuccessfulPollsKeepPolling(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathFetchMessages, scrapingInitiated())
	h.srv.Handle(backend.PathGetDisplayedMessages, func(call int, _ map[string]any) (int, any) {
		if call == 0 {
			return http.StatusOK, map[string]any{"status": "error", "message": "not ready"}
		}
		return http.StatusOK, map[string]any{
			"status":   "success",
			"messages": []map[string]any{{"author_name": "bo", "content": "x", "timestamp": 1}},
		}
	})

	done := h.startFetch()
	h.clock.BlockUntil(2)
	h.tick(t, 1)
	h.tick(t, 2)

	c := waitFetch(t, done)
	require.NoError(t, c.err)
	assert.Equal(t, poller.StateSucceeded, c.res.State)
}

func TestService_FetchMessages_Busy(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathFetchMessages, scrapingInitiated())
	h.srv.Handle(backend.PathGetDisplayedMessages, func(int, map[string]any) (int, any) {
		return http.StatusOK, map[string]any{
			"status":   "success",
			"messages": []map[string]any{{"author_name": "bo", "content": "x", "timestamp": 1}},
		}
	})

	done := h.startFetch()
	h.clock.BlockUntil(2)

	_, err := h.svc.FetchMessages(context.Background())
	assert.ErrorIs(t, err, workspace.ErrBusy)
	assert.Equal(t, 1, h.srv.Calls(backend.PathFetchMessages))

	h.tick(t, 1)
	c := waitFetch(t, done)
	require.NoError(t, c.err)
	assert.False(t, h.svc.Busy())
}

func TestService_FetchMessages_Rejected(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathFetchMessages, map[string]any{"status": "error", "message": "Invalid Discord token"})

	res, err := h.svc.FetchMessages(context.Background())
	require.Error(t, err)
	assert.Equal(t, poller.StateFailed, res.State)
	assert.Equal(t, "failed to fetch messages: Invalid Discord token", err.Error())
	assert.Equal(t, "Failed to fetch messages: Invalid Discord token", workspace.UserMessage(err))

	var appErr *backend.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, backend.StatusError, appErr.Status)

	assert.Zero(t, h.srv.Calls(backend.PathGetDisplayedMessages))
	assert.Zero(t, h.clock.Active())
	assert.False(t, h.svc.Busy())
}

func TestService_FetchMessages_PollTransportError(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathFetchMessages, scrapingInitiated())
	h.srv.Handle(backend.PathGetDisplayedMessages, func(int, map[string]any) (int, any) {
		return http.StatusInternalServerError, nil
	})

	done := h.startFetch()
	h.clock.BlockUntil(2)
	h.tick(t, 1)

	c := waitFetch(t, done)
	require.Error(t, c.err)
	assert.Equal(t, poller.StateFailed, c.res.State)
	assert.Contains(t, c.err.Error(), "error checking message status")

	var tErr *backend.TransportError
	assert.ErrorAs(t, c.err, &tErr)
	assert.False(t, h.svc.Busy())
}

func TestService_LoadMessages(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathGetDisplayedMessages, emptyMessages())

	msgs, err := h.svc.LoadMessages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, "Loaded 0 messages", h.rec.last().Text)

	reqs := h.srv.Requests(backend.PathGetDisplayedMessages)
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{"server_id": "1001", "channel_id": "2002"}, reqs[0].Body)
}

func TestService_LoadMessages_Failure(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathGetDisplayedMessages, map[string]any{"status": "error", "message": "Channel not found"})

	_, err := h.svc.LoadMessages(context.Background())
	assert.EqualError(t, err, "failed to load messages: Channel not found")
}

func TestService_AnalyzeTopics(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathGetTopics, map[string]any{"status": "success", "topics": []string{"Release", "Bugs"}})

	topics, err := h.svc.AnalyzeTopics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []analysis.Topic{"Release", "Bugs"}, topics)
	assert.Equal(t, topics, h.svc.State().Topics)
	assert.Equal(t, "Found 2 topics", h.rec.last().Text)

	reqs := h.srv.Requests(backend.PathGetTopics)
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{"server_id": "1001", "channel_id": "2002", "gemini_key": "gemini-key"}, reqs[0].Body)
}

func TestService_AnalyzeTopics_Failure(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathGetTopics, map[string]any{"status": "error", "message": "No messages found"})

	_, err := h.svc.AnalyzeTopics(context.Background())
	assert.EqualError(t, err, "failed to analyze topics: No messages found")
	assert.Empty(t, h.svc.State().Topics)
}

func TestService_Summarize(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Handle(backend.PathGetSummary, func(call int, _ map[string]any) (int, any) {
		if call == 0 {
			return http.StatusOK, map[string]any{"status": "success", "summary": "Shipped [ana·10:02]"}
		}
		return http.StatusOK, map[string]any{"status": "error", "message": "quota exceeded"}
	})
	ctx := context.Background()

	summary, err := h.svc.Summarize(ctx, "Release")
	require.NoError(t, err)
	assert.Equal(t, "Shipped [ana·10:02]", summary)
	assert.Equal(t, "Summary generated successfully", h.rec.last().Text)

	st := h.svc.State()
	assert.Equal(t, analysis.Topic("Release"), st.SelectedTopic)
	assert.Equal(t, summary, st.Summary)

	reqs := h.srv.Requests(backend.PathGetSummary)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Release", reqs[0].Body["topic"])

	_, err = h.svc.Summarize(ctx, "Release")
	assert.EqualError(t, err, "failed to generate summary: quota exceeded")
	assert.Empty(t, h.svc.State().Summary, "failure clears the summary")
}

func TestService_Summarize_NoTopicCheckedFirst(t *testing.T) {
	h := newHarness(t, credentials.Credentials{})

	_, err := h.svc.Summarize(context.Background(), "")
	assert.ErrorIs(t, err, workspace.ErrNoTopic)
	assert.Equal(t, "Please select a topic to summarize", workspace.UserMessage(err))
	assert.Empty(t, h.srv.Requests(""))
}

func TestService_Summarize_TransportErrorClearsSummary(t *testing.T) {
	h := newHarness(t, validCreds)
	h.srv.Respond(backend.PathGetSummary, map[string]any{"status": "success", "summary": "ok"})
	_, err := h.svc.Summarize(context.Background(), "Release")
	require.NoError(t, err)

	h.srv.Handle(backend.PathGetSummary, func(int, map[string]any) (int, any) {
		return http.StatusBadGateway, nil
	})
	_, err = h.svc.Summarize(context.Background(), "Release")

	var tErr *backend.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Empty(t, h.svc.State().Summary)
}
