package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/render"
	"github.com/hay-kot/chatlens/internal/styles"
)

// CredentialsForm builds the four-field credentials editor bound to c.
// Secrets are masked while typing.
func CredentialsForm(c *credentials.Credentials) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Discord Token").
				EchoMode(huh.EchoModePassword).
				Value(&c.DiscordToken),
			huh.NewInput().
				Title("Server ID").
				Value(&c.ServerID),
			huh.NewInput().
				Title("Channel ID").
				Value(&c.ChannelID),
			huh.NewInput().
				Title("Gemini API Key").
				EchoMode(huh.EchoModePassword).
				Value(&c.GeminiKey),
		),
	).WithTheme(styles.FormTheme())
}

// TopicForm builds a selector whose first option is the empty placeholder.
func TopicForm(topics []analysis.Topic, value *string) *huh.Form {
	options := render.TopicOptions(topics)
	huhOpts := make([]huh.Option[string], len(options))
	for i, o := range options {
		huhOpts[i] = huh.NewOption(o.Label, o.Value)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Topic").
				Options(huhOpts...).
				Value(value).
				Filtering(true).
				Height(10),
		),
	).WithTheme(styles.FormTheme())
}
