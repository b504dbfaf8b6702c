// Package credentials defines the four-field backend configuration record.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/chatlens/internal/core/validate"
)

// StorageKey is the fixed key the record is persisted under.
const StorageKey = "discordAnalyzerConfig"

// ErrIncomplete is returned when any credential field is empty.
var ErrIncomplete = errors.New("please fill in all configuration fields")

// Credentials holds the values every backend call is built from.
// JSON names match the blob written by earlier clients.
type Credentials struct {
	DiscordToken string `json:"discordToken"`
	ServerID     string `json:"serverId"`
	ChannelID    string `json:"channelId"`
	GeminiKey    string `json:"geminiKey"`
}

// Validate returns criterio field errors naming every empty field, or nil.
func (c Credentials) Validate() error {
	var errs criterio.FieldErrorsBuilder

	fields := []struct {
		name  string
		label string
		value string
	}{
		{"discord_token", "Discord token", c.DiscordToken},
		{"server_id", "Server ID", c.ServerID},
		{"channel_id", "Channel ID", c.ChannelID},
		{"gemini_key", "Gemini API key", c.GeminiKey},
	}

	for _, f := range fields {
		if err := validate.Required(f.label, f.value); err != nil {
			errs = errs.Append(f.name, err)
		}
	}

	return errs.ToError()
}

// Require returns an error matching ErrIncomplete, and carrying the
// criterio field errors, when any field is empty.
func (c Credentials) Require() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	return nil
}

// Complete reports whether all four fields are set.
func (c Credentials) Complete() bool {
	return c.Validate() == nil
}

// Masked returns a copy with secrets shortened for display.
func (c Credentials) Masked() Credentials {
	c.DiscordToken = mask(c.DiscordToken)
	c.GeminiKey = mask(c.GeminiKey)
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

// Store persists a single Credentials record.
type Store interface {
	// Load returns the stored record. A missing record yields an empty
	// Credentials and a nil error.
	Load(ctx context.Context) (Credentials, error)
	// Save overwrites the stored record.
	Save(ctx context.Context, c Credentials) error
	// Reset removes the stored record.
	Reset(ctx context.Context) error
}
