// Package backend is the HTTP client for the chat analysis backend.
//
// Every endpoint takes a JSON body over POST and answers with a JSON
// envelope whose status field decides success. Methods return the decoded
// envelope and only fail with *TransportError; interpreting the status is
// left to the caller because a failure status is not always an error (the
// fetch poller treats it as "not ready yet").
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxResponseBodySize = 8 << 20 // 8MB, message lists can be large

// Client talks to the analysis backend.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Client for the backend at baseURL. A zero timeout
// leaves requests bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        log,
	}
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckStatus verifies the credentials with the backend.
func (c *Client) CheckStatus(ctx context.Context, req CheckStatusRequest) (CheckStatusResponse, error) {
	var resp CheckStatusResponse
	err := c.post(ctx, PathCheckStatus, req, &resp)
	return resp, err
}

// FetchMessages starts the asynchronous scraping job.
func (c *Client) FetchMessages(ctx context.Context, req FetchMessagesRequest) (FetchMessagesResponse, error) {
	var resp FetchMessagesResponse
	err := c.post(ctx, PathFetchMessages, req, &resp)
	return resp, err
}

// DisplayedMessages returns the messages the backend currently holds for the channel.
func (c *Client) DisplayedMessages(ctx context.Context, req MessagesRequest) (MessagesResponse, error) {
	var resp MessagesResponse
	err := c.post(ctx, PathGetDisplayedMessages, req, &resp)
	return resp, err
}

// Topics asks the backend to extract discussion topics.
func (c *Client) Topics(ctx context.Context, req TopicsRequest) (TopicsResponse, error) {
	var resp TopicsResponse
	err := c.post(ctx, PathGetTopics, req, &resp)
	return resp, err
}

// Summary asks the backend to summarize one topic.
func (c *Client) Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error) {
	var resp SummaryResponse
	err := c.post(ctx, PathGetSummary, req, &resp)
	return resp, err
}

// post sends body as JSON and decodes the response envelope into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	fail := func(err error) error {
		return &TransportError{Endpoint: path, Err: err}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fail(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("create request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("endpoint", path).Str("request_id", requestID).Msg("request failed")
		return fail(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fail(fmt.Errorf("read response: %w", err))
	}

	c.log.Debug().
		Str("endpoint", path).
		Str("request_id", requestID).
		Int("status_code", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend response")

	if err := json.Unmarshal(data, out); err != nil {
		return fail(fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err))
	}

	return nil
}
