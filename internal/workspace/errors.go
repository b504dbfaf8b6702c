package workspace

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/hay-kot/chatlens/internal/core/credentials"
)

var (
	// ErrNoTopic is returned by Summarize when no topic is selected.
	ErrNoTopic = errors.New("please select a topic to summarize")
	// ErrBusy is returned by FetchMessages while another fetch is running.
	ErrBusy = errors.New("a message fetch is already in progress")
	// ErrNoMatch is returned by MatchTopic when a pattern matches nothing.
	ErrNoMatch = errors.New("no topic matches")
	// ErrAmbiguous is returned by MatchTopic when a pattern matches more
	// than one topic.
	ErrAmbiguous = errors.New("pattern matches more than one topic")
)

// UserMessage returns the status-line text for an operation error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, credentials.ErrIncomplete):
		return "Please fill in all configuration fields"
	case errors.Is(err, ErrNoTopic):
		return "Please select a topic to summarize"
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
