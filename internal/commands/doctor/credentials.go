package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/chatlens/internal/core/credentials"
)

// CredentialsCheck reports which credential fields are set.
type CredentialsCheck struct {
	store credentials.Store
}

// NewCredentialsCheck creates a credentials check reading from store.
func NewCredentialsCheck(store credentials.Store) *CredentialsCheck {
	return &CredentialsCheck{store: store}
}

func (c *CredentialsCheck) Name() string {
	return "Credentials"
}

func (c *CredentialsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	creds, err := c.store.Load(ctx)
	if err != nil {
		result.fail("Stored credentials", err.Error())
		return result
	}

	err = creds.Validate()
	if err == nil {
		masked := creds.Masked()
		result.pass("Discord token", masked.DiscordToken)
		result.pass("Server ID", creds.ServerID)
		result.pass("Channel ID", creds.ChannelID)
		result.pass("Gemini API key", masked.GeminiKey)
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.fail("validation", err.Error())
		return result
	}
	for _, fe := range fieldErrs {
		result.fail(fe.Field, fe.Err.Error()+", run 'chatlens config edit'")
	}
	return result
}
