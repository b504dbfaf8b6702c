package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/chatlens/internal/render"
)

type ReportCmd struct {
	flags *Flags
	raw   bool
	width int
}

// NewReportCmd creates a new report command.
func NewReportCmd(flags *Flags) *ReportCmd {
	return &ReportCmd{flags: flags}
}

// Register adds the report command to the application.
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "report",
		Usage:       "Print the workspace as a report",
		UsageText:   "chatlens report [--raw] [--width N]",
		Description: "Renders the last fetched messages, analyzed topics and summary as Markdown.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print Markdown without terminal rendering",
				Destination: &cmd.raw,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "wrap width (defaults to the terminal width)",
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ReportCmd) run(ctx context.Context, c *cli.Command) error {
	md := render.Report(cmd.flags.Service.State(), cmd.flags.RenderOptions())

	out := c.Root().Writer
	if cmd.raw || !isTerminal(os.Stdout) {
		_, err := fmt.Fprint(out, md)
		return err
	}

	width := cmd.width
	if width <= 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w - 4
		}
	}

	_, err := fmt.Fprint(out, render.Glamour(md, width))
	return err
}
