package doctor

import (
	"context"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/core/credentials"
)

// StatusChecker is the backend call the check relies on.
type StatusChecker interface {
	CheckStatus(ctx context.Context, req backend.CheckStatusRequest) (backend.CheckStatusResponse, error)
}

// BackendCheck verifies the backend is reachable and accepts the stored
// credentials.
type BackendCheck struct {
	client StatusChecker
	store  credentials.Store
	url    string
}

// NewBackendCheck creates a backend check.
func NewBackendCheck(client StatusChecker, store credentials.Store, url string) *BackendCheck {
	return &BackendCheck{client: client, store: store, url: url}
}

func (c *BackendCheck) Name() string {
	return "Backend"
}

func (c *BackendCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	creds, err := c.store.Load(ctx)
	if err != nil || !creds.Complete() {
		result.warn("Status check", "skipped, credentials incomplete")
		return result
	}

	resp, err := c.client.CheckStatus(ctx, backend.CheckStatusRequest{
		DiscordToken: creds.DiscordToken,
		ServerID:     creds.ServerID,
		ChannelID:    creds.ChannelID,
		GeminiKey:    creds.GeminiKey,
	})
	if err != nil {
		result.fail("Reachable", err.Error())
		return result
	}
	result.pass("Reachable", c.url)

	if resp.DiscordOK {
		result.pass("Discord token", "accepted")
	} else {
		result.fail("Discord token", "Discord token is invalid.")
	}
	if resp.GeminiOK {
		result.pass("Gemini API key", "accepted")
	} else {
		result.fail("Gemini API key", "Gemini API key is invalid.")
	}
	return result
}
