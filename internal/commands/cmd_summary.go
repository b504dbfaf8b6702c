package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/render"
	"github.com/hay-kot/chatlens/internal/tui"
	"github.com/hay-kot/chatlens/internal/workspace"
)

type SummaryCmd struct {
	flags  *Flags
	topic  string
	format string
}

// NewSummaryCmd creates a new summary command.
func NewSummaryCmd(flags *Flags) *SummaryCmd {
	return &SummaryCmd{flags: flags}
}

// Register adds the summary command to the application.
func (cmd *SummaryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "summary",
		Usage:     "Summarize one topic",
		UsageText: "chatlens summary [--topic TOPIC|GLOB] [--format FORMAT]",
		Description: `Generates a summary of one topic from the last 'chatlens topics' run.

--topic accepts the topic name or a glob such as "release*" that matches
exactly one known topic. Without --topic an interactive selector is shown.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "topic",
				Usage:       "topic name or glob pattern",
				Destination: &cmd.topic,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (terminal, plain, html, markdown); defaults to terminal on a TTY",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SummaryCmd) run(ctx context.Context, c *cli.Command) error {
	decorator, err := cmd.decorator()
	if err != nil {
		return err
	}

	topic, err := cmd.resolveTopic(ctx)
	if err != nil {
		return err
	}

	summary, err := cmd.flags.Service.Summarize(ctx, topic)
	if err != nil {
		return err
	}

	return render.Summary(c.Root().Writer, summary, decorator)
}

func (cmd *SummaryCmd) decorator() (render.Decorator, error) {
	format := cmd.format
	if format == "" {
		format = "plain"
		if isTerminal(os.Stdout) {
			format = "terminal"
		}
	}

	switch format {
	case "terminal":
		return render.Terminal{}, nil
	case "plain":
		return render.Plain{}, nil
	case "html":
		return render.HTML{}, nil
	case "markdown", "md":
		return render.Markdown{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func (cmd *SummaryCmd) resolveTopic(ctx context.Context) (analysis.Topic, error) {
	topics := cmd.flags.Service.State().Topics

	if cmd.topic != "" {
		return workspace.MatchTopic(topics, cmd.topic)
	}

	if len(topics) == 0 || !isTerminal(os.Stdin) {
		return "", nil
	}

	var selected string
	err := tui.TopicForm(topics, &selected).RunWithContext(ctx)
	if err != nil && !errors.Is(err, huh.ErrUserAborted) {
		return "", fmt.Errorf("topic selector: %w", err)
	}
	return analysis.Topic(selected), nil
}
