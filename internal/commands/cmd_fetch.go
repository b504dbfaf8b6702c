package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/chatlens/internal/poller"
	"github.com/hay-kot/chatlens/internal/render"
)

type FetchCmd struct {
	flags *Flags
	quiet bool
}

// NewFetchCmd creates a new fetch command.
func NewFetchCmd(flags *Flags) *FetchCmd {
	return &FetchCmd{flags: flags}
}

// Register adds the fetch command to the application.
func (cmd *FetchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch recent messages from Discord",
		UsageText: "chatlens fetch [--quiet]",
		Description: `Asks the backend to scrape the configured channel, then polls until
messages are available or the poll timeout passes. A timeout is not an
error: scraping may still finish, try 'chatlens messages --refresh' later.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "do not print the fetched messages",
				Destination: &cmd.quiet,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *FetchCmd) run(ctx context.Context, c *cli.Command) error {
	res, err := cmd.flags.Service.FetchMessages(ctx)
	if err != nil {
		return err
	}

	if res.State != poller.StateSucceeded || cmd.quiet {
		return nil
	}

	return render.Messages(c.Root().Writer, cmd.flags.Service.State().Messages, cmd.flags.RenderOptions())
}
