package commands

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/render"
)

type TopicsCmd struct {
	flags  *Flags
	cached bool
	format string
}

// NewTopicsCmd creates a new topics command.
func NewTopicsCmd(flags *Flags) *TopicsCmd {
	return &TopicsCmd{flags: flags}
}

// Register adds the topics command to the application.
func (cmd *TopicsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "topics",
		Usage:       "Analyze discussion topics",
		UsageText:   "chatlens topics [--cached] [--format json]",
		Description: "Asks the backend to extract topics from the fetched messages. The result feeds 'chatlens summary'.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "cached",
				Usage:       "print the last analyzed topics without calling the backend",
				Destination: &cmd.cached,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *TopicsCmd) run(ctx context.Context, c *cli.Command) error {
	topics := cmd.flags.Service.State().Topics
	if !cmd.cached {
		analyzed, err := cmd.flags.Service.AnalyzeTopics(ctx)
		if err != nil {
			return err
		}
		topics = analyzed
	}

	if cmd.format == "json" {
		if topics == nil {
			topics = []analysis.Topic{}
		}
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(topics)
	}

	return render.Topics(c.Root().Writer, topics, cmd.flags.RenderOptions())
}
