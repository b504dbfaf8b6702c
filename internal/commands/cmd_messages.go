package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/chatlens/internal/render"
)

type MessagesCmd struct {
	flags    *Flags
	refresh  bool
	template string
}

// NewMessagesCmd creates a new messages command.
func NewMessagesCmd(flags *Flags) *MessagesCmd {
	return &MessagesCmd{flags: flags}
}

// Register adds the messages command to the application.
func (cmd *MessagesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "messages",
		Usage:     "Show fetched messages",
		UsageText: "chatlens messages [--refresh] [--template TEMPLATE]",
		Description: `Prints the messages from the last fetch. With --refresh the backend is
asked for the messages it currently holds, without starting a new fetch.

--template renders each message with a Go template. Fields: .AuthorName,
.Content, .Timestamp (Unix ms) and .Time (formatted). Functions: ts, trunc,
oneline, upper, lower.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "refresh",
				Aliases:     []string{"r"},
				Usage:       "load messages from the backend",
				Destination: &cmd.refresh,
			},
			&cli.StringFlag{
				Name:        "template",
				Aliases:     []string{"t"},
				Usage:       "Go template applied to each message",
				Destination: &cmd.template,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *MessagesCmd) run(ctx context.Context, c *cli.Command) error {
	msgs := cmd.flags.Service.State().Messages
	if cmd.refresh {
		loaded, err := cmd.flags.Service.LoadMessages(ctx)
		if err != nil {
			return err
		}
		msgs = loaded
	}

	out := c.Root().Writer
	if cmd.template != "" {
		return render.MessagesTemplate(out, msgs, cmd.template, cmd.flags.RenderOptions())
	}
	return render.Messages(out, msgs, cmd.flags.RenderOptions())
}
