package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/printer"
)

type StatusCmd struct {
	flags *Flags
}

// NewStatusCmd creates a new status command.
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds the status command to the application.
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "status",
		Usage:       "Check that the backend accepts the saved credentials",
		UsageText:   "chatlens status",
		Description: "Sends all four credentials to the backend and reports which of them are valid.",
		Action:      cmd.run,
	})
	return app
}

func (cmd *StatusCmd) run(ctx context.Context, _ *cli.Command) error {
	report, err := cmd.flags.Service.CheckStatus(ctx)
	var appErr *backend.AppError
	if err != nil && !errors.As(err, &appErr) {
		return err
	}

	p := printer.Ctx(ctx)
	item := func(label string, ok bool) {
		if ok {
			p.CheckItem(label, "valid")
		} else {
			p.FailItem(label, "invalid")
		}
	}
	item("Discord token", report.DiscordOK)
	item("Gemini API key", report.GeminiOK)

	return err
}
