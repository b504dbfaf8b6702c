package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/hay-kot/chatlens/internal/workspace"
)

// Report returns the workspace as a Markdown document.
func Report(st workspace.State, opts Options) string {
	var b strings.Builder

	b.WriteString("# Channel report\n\n")
	if st.Credentials.ServerID != "" || st.Credentials.ChannelID != "" {
		fmt.Fprintf(&b, "Server `%s` · Channel `%s`\n\n", st.Credentials.ServerID, st.Credentials.ChannelID)
	}

	fmt.Fprintf(&b, "## Messages (%d)\n\n", len(st.Messages))
	if len(st.Messages) == 0 {
		b.WriteString("_" + NoMessages + "_\n\n")
	}
	for _, m := range st.Messages {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", m.AuthorName, opts.Timestamp(m), strings.Join(strings.Fields(m.Content), " "))
	}
	if len(st.Messages) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Topics (%d)\n\n", len(st.Topics))
	if len(st.Topics) == 0 {
		b.WriteString("_" + NoTopics + "_\n\n")
	}
	for _, t := range st.Topics {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	if len(st.Topics) > 0 {
		b.WriteString("\n")
	}

	if st.SelectedTopic != "" {
		fmt.Fprintf(&b, "## Summary: %s\n\n", st.SelectedTopic)
	} else {
		b.WriteString("## Summary\n\n")
	}
	if st.Summary == "" {
		b.WriteString("_" + NoSummary + "_\n")
	} else {
		b.WriteString(FormatSummary(st.Summary, Markdown{}) + "\n")
	}

	return b.String()
}

// Glamour renders Markdown for a terminal of the given width. On renderer
// errors the Markdown is returned unchanged.
func Glamour(markdown string, width int) string {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
