package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/printer"
	"github.com/hay-kot/chatlens/internal/tui"
)

type ConfigCmd struct {
	flags *Flags

	format string
	reveal bool
	set    credentials.Credentials
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	formatFlag := &cli.StringFlag{
		Name:        "format",
		Usage:       "output format (text, json)",
		Value:       "text",
		Destination: &cmd.format,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Manage backend credentials and configuration",
		Commands: []*cli.Command{
			{
				Name:        "edit",
				Usage:       "Edit credentials interactively",
				UsageText:   "chatlens config edit",
				Description: "Opens a form prefilled with the saved Discord token, server ID, channel ID and Gemini API key.",
				Action:      cmd.runEdit,
			},
			{
				Name:      "set",
				Usage:     "Set credential fields from flags",
				UsageText: "chatlens config set [--discord-token T] [--server-id S] [--channel-id C] [--gemini-key K]",
				Description: `Updates only the fields whose flags are given and saves the record.
Values may also come from CHATLENS_DISCORD_TOKEN, CHATLENS_SERVER_ID,
CHATLENS_CHANNEL_ID and CHATLENS_GEMINI_KEY.`,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "discord-token", Sources: cli.EnvVars("CHATLENS_DISCORD_TOKEN"), Destination: &cmd.set.DiscordToken},
					&cli.StringFlag{Name: "server-id", Sources: cli.EnvVars("CHATLENS_SERVER_ID"), Destination: &cmd.set.ServerID},
					&cli.StringFlag{Name: "channel-id", Sources: cli.EnvVars("CHATLENS_CHANNEL_ID"), Destination: &cmd.set.ChannelID},
					&cli.StringFlag{Name: "gemini-key", Sources: cli.EnvVars("CHATLENS_GEMINI_KEY"), Destination: &cmd.set.GeminiKey},
				},
				Action: cmd.runSet,
			},
			{
				Name:      "show",
				Usage:     "Show saved credentials",
				UsageText: "chatlens config show [--reveal] [--format json]",
				Flags: []cli.Flag{
					formatFlag,
					&cli.BoolFlag{
						Name:        "reveal",
						Usage:       "print secrets unmasked",
						Destination: &cmd.reveal,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "reset",
				Usage:     "Delete saved credentials",
				UsageText: "chatlens config reset",
				Action:    cmd.runReset,
			},
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "chatlens config validate [options]",
				Description: "Validates the configuration file: backend URL, poll timings and display settings.",
				Flags:       []cli.Flag{formatFlag},
				Action:      cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runEdit(ctx context.Context, _ *cli.Command) error {
	if !isTerminal(os.Stdin) {
		return errors.New("config edit needs an interactive terminal, use 'chatlens config set' instead")
	}

	c := cmd.flags.Service.Credentials()
	form := tui.CredentialsForm(&c)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			printer.Ctx(ctx).Infof("Cancelled")
			return nil
		}
		return fmt.Errorf("credentials form: %w", err)
	}

	cmd.flags.Service.SaveCredentials(ctx, c)
	return nil
}

func (cmd *ConfigCmd) runSet(ctx context.Context, c *cli.Command) error {
	current := cmd.flags.Service.Credentials()

	changed := false
	apply := func(flag string, dst *string, val string) {
		if c.IsSet(flag) {
			*dst = val
			changed = true
		}
	}
	apply("discord-token", &current.DiscordToken, cmd.set.DiscordToken)
	apply("server-id", &current.ServerID, cmd.set.ServerID)
	apply("channel-id", &current.ChannelID, cmd.set.ChannelID)
	apply("gemini-key", &current.GeminiKey, cmd.set.GeminiKey)

	if !changed {
		return errors.New("no fields given, see 'chatlens config set --help'")
	}

	cmd.flags.Service.SaveCredentials(ctx, current)

	if err := current.Validate(); err != nil {
		printer.Ctx(ctx).Warnf("Some fields are still empty, backend commands will refuse to run")
	}
	return nil
}

func (cmd *ConfigCmd) runShow(ctx context.Context, c *cli.Command) error {
	creds := cmd.flags.Service.Credentials()
	if !cmd.reveal {
		creds = creds.Masked()
	}

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(creds)
	}

	p := printer.Ctx(ctx)
	p.Section("Credentials")
	item := func(label, value string) {
		if value == "" {
			p.FailItem(label, "not set")
			return
		}
		p.CheckItem(label, value)
	}
	item("Discord token", creds.DiscordToken)
	item("Server ID", creds.ServerID)
	item("Channel ID", creds.ChannelID)
	item("Gemini API key", creds.GeminiKey)
	return nil
}

func (cmd *ConfigCmd) runReset(ctx context.Context, _ *cli.Command) error {
	return cmd.flags.Service.ResetCredentials(ctx)
}
