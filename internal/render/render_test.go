package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/workspace"
)

var utc = Options{Location: time.UTC, TimeFormat: "2006-01-02 15:04"}

var sampleMessages = []analysis.Message{
	{AuthorName: "ana", Content: "shipping today", Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC).UnixMilli()},
	{AuthorName: "bo", Content: "line one\nline two", Timestamp: time.Date(2024, 5, 1, 9, 31, 0, 0, time.UTC).UnixMilli()},
}

func TestMessages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Messages(&buf, sampleMessages, utc))

	want := "ana  2024-05-01 09:30\n  shipping today\n\nbo  2024-05-01 09:31\n  line one\n  line two\n"
	assert.Equal(t, want, buf.String())
}

func TestMessages_Placeholder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Messages(&buf, nil, utc))
	assert.Equal(t, NoMessages+"\n", buf.String())
}

func TestMessages_ReplacesNotAppends(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Messages(&first, sampleMessages, utc))
	require.NoError(t, Messages(&second, sampleMessages, utc))
	assert.Equal(t, first.String(), second.String())
}

func TestMessagesTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MessagesTemplate(&buf, sampleMessages, "{{ .AuthorName }}|{{ .Time }}|{{ oneline .Content }}", utc))

	assert.Equal(t, "ana|2024-05-01 09:30|shipping today\nbo|2024-05-01 09:31|line one line two\n", buf.String())
}

func TestMessagesTemplate_BadTemplate(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, MessagesTemplate(&buf, sampleMessages, "{{ .Nope }}", utc))
	assert.Error(t, MessagesTemplate(&buf, sampleMessages, "{{ .AuthorName", utc))
}

func TestTopics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Topics(&buf, []analysis.Topic{"Release", "Bugs"}, utc))
	assert.Equal(t, "# Release\n# Bugs\n", buf.String())

	buf.Reset()
	require.NoError(t, Topics(&buf, nil, utc))
	assert.Equal(t, NoTopics+"\n", buf.String())
}

func TestTopicOptions(t *testing.T) {
	opts := TopicOptions([]analysis.Topic{"Release", "Bugs"})
	assert.Equal(t, []Option{
		{Label: SelectTopic, Value: ""},
		{Label: "Release", Value: "Release"},
		{Label: "Bugs", Value: "Bugs"},
	}, opts)

	assert.Equal(t, []Option{{Label: SelectTopic, Value: ""}}, TopicOptions(nil))
}

func TestReport(t *testing.T) {
	st := workspace.State{
		Credentials:   credentials.Credentials{ServerID: "1001", ChannelID: "2002"},
		Messages:      sampleMessages,
		Topics:        []analysis.Topic{"Release"},
		SelectedTopic: "Release",
		Summary:       "Shipped [ana·09:30]",
	}

	md := Report(st, utc)
	assert.Contains(t, md, "Server `1001` · Channel `2002`")
	assert.Contains(t, md, "## Messages (2)")
	assert.Contains(t, md, "- **bo** (2024-05-01 09:31): line one line two")
	assert.Contains(t, md, "- Release")
	assert.Contains(t, md, "## Summary: Release")
	assert.Contains(t, md, "Shipped **[ana**·_09:30_**]**")
}

func TestReport_Empty(t *testing.T) {
	md := Report(workspace.State{}, utc)
	assert.Contains(t, md, NoMessages)
	assert.Contains(t, md, NoTopics)
	assert.Contains(t, md, NoSummary)
	assert.NotContains(t, md, "Server `")
}

func TestGlamour(t *testing.T) {
	out := Glamour("# Title\n\nbody text", 40)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
	assert.True(t, strings.Contains(out, "\n"))
}
