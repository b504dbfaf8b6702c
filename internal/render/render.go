// Package render projects workspace state into text for the CLI and TUI.
// Every function fully replaces its output; none of them mutate state.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/styles"
	"github.com/hay-kot/chatlens/pkg/tmpl"
)

// Placeholders shown for empty sections.
const (
	NoMessages  = "No messages loaded."
	NoTopics    = "No topics analyzed."
	NoSummary   = "No summary generated."
	SelectTopic = "Select a topic to summarize"
)

// Options controls timestamp formatting and colour.
type Options struct {
	Location   *time.Location
	TimeFormat string
	Color      bool
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) layout() string {
	if o.TimeFormat == "" {
		return tmpl.DefaultTimeLayout
	}
	return o.TimeFormat
}

// Timestamp formats a message time in the configured zone and layout.
func (o Options) Timestamp(m analysis.Message) string {
	return m.Time().In(o.location()).Format(o.layout())
}

func (o Options) style(render func(...string) string, s string) string {
	if !o.Color {
		return s
	}
	return render(s)
}

// Messages writes one block per message in the order given.
func Messages(w io.Writer, msgs []analysis.Message, opts Options) error {
	if len(msgs) == 0 {
		_, err := fmt.Fprintln(w, opts.style(styles.PlaceholderStyle.Render, NoMessages))
		return err
	}

	for i, m := range msgs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s  %s\n%s\n",
			opts.style(styles.AuthorStyle.Render, m.AuthorName),
			opts.style(styles.TimestampStyle.Render, opts.Timestamp(m)),
			indent(m.Content, "  "),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// MessageView is the data passed to message templates.
type MessageView struct {
	AuthorName string
	Content    string
	Timestamp  int64
	Time       string
}

// MessagesTemplate renders each message with a user template, one per line.
func MessagesTemplate(w io.Writer, msgs []analysis.Message, text string, opts Options) error {
	t, err := tmpl.Parse(text)
	if err != nil {
		return err
	}

	for _, m := range msgs {
		out, err := t.Execute(MessageView{
			AuthorName: m.AuthorName,
			Content:    m.Content,
			Timestamp:  m.Timestamp,
			Time:       opts.Timestamp(m),
		})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

// Topics writes one "# topic" line per topic.
func Topics(w io.Writer, topics []analysis.Topic, opts Options) error {
	if len(topics) == 0 {
		_, err := fmt.Fprintln(w, opts.style(styles.PlaceholderStyle.Render, NoTopics))
		return err
	}

	for _, t := range topics {
		if _, err := fmt.Fprintln(w, opts.style(styles.TopicStyle.Render, "# "+string(t))); err != nil {
			return err
		}
	}
	return nil
}

// Option is one entry of the topic selector.
type Option struct {
	Label string
	Value string
}

// TopicOptions returns the selector entries: a placeholder with an empty
// value followed by one entry per topic.
func TopicOptions(topics []analysis.Topic) []Option {
	opts := make([]Option, 0, len(topics)+1)
	opts = append(opts, Option{Label: SelectTopic, Value: ""})
	for _, t := range topics {
		opts = append(opts, Option{Label: string(t), Value: string(t)})
	}
	return opts
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
