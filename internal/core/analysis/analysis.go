// Package analysis defines the records produced by the analysis backend.
package analysis

import "time"

// Message is a single chat message as returned by the backend.
type Message struct {
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	// Timestamp is Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Time returns the message timestamp as a time.Time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Topic is an opaque discussion label extracted by the backend.
type Topic string
