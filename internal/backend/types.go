package backend

import "github.com/hay-kot/chatlens/internal/core/analysis"

// Status values used in response envelopes.
const (
	StatusSuccess           = "success"
	StatusScrapingInitiated = "scraping_initiated"
	StatusError             = "error"
)

// Endpoint paths.
const (
	PathCheckStatus          = "/check_status"
	PathFetchMessages        = "/fetch_messages"
	PathGetDisplayedMessages = "/get_displayed_messages"
	PathGetTopics            = "/get_topics"
	PathGetSummary           = "/get_summary"
)

// Envelope is the common part of every response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CheckStatusRequest is the body of a connectivity check.
type CheckStatusRequest struct {
	DiscordToken string `json:"discord_token"`
	ServerID     string `json:"server_id"`
	ChannelID    string `json:"channel_id"`
	GeminiKey    string `json:"gemini_key"`
}

// CheckStatusResponse reports which external credentials are usable.
type CheckStatusResponse struct {
	Envelope
	DiscordOK bool `json:"discord_ok"`
	GeminiOK  bool `json:"gemini_ok"`
}

// FetchMessagesRequest starts an asynchronous scraping job.
type FetchMessagesRequest struct {
	DiscordToken string `json:"discord_token"`
	ServerID     string `json:"server_id"`
	ChannelID    string `json:"channel_id"`
}

// FetchMessagesResponse acknowledges a scraping job.
type FetchMessagesResponse struct {
	Envelope
}

// Accepted reports whether the backend started the job.
func (r FetchMessagesResponse) Accepted() bool {
	return r.Status == StatusScrapingInitiated
}

// MessagesRequest asks for the messages stored for a channel.
type MessagesRequest struct {
	ServerID  string `json:"server_id"`
	ChannelID string `json:"channel_id"`
}

// MessagesResponse carries stored messages.
type MessagesResponse struct {
	Envelope
	Messages []analysis.Message `json:"messages"`
}

// TopicsRequest asks the backend to extract topics.
type TopicsRequest struct {
	ServerID  string `json:"server_id"`
	ChannelID string `json:"channel_id"`
	GeminiKey string `json:"gemini_key"`
}

// TopicsResponse carries extracted topics.
type TopicsResponse struct {
	Envelope
	Topics []analysis.Topic `json:"topics"`
}

// SummaryRequest asks for a summary of one topic.
type SummaryRequest struct {
	ServerID  string `json:"server_id"`
	ChannelID string `json:"channel_id"`
	GeminiKey string `json:"gemini_key"`
	Topic     string `json:"topic"`
}

// SummaryResponse carries a generated summary.
type SummaryResponse struct {
	Envelope
	Summary string `json:"summary"`
}
