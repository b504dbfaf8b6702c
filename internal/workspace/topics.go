package workspace

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/validate"
)

// AnalyzeTopics asks the backend to extract topics from the stored
// messages. A success replaces the topic list and clears the selection.
func (s *Service) AnalyzeTopics(ctx context.Context) ([]analysis.Topic, error) {
	c, err := s.requireCredentials()
	if err != nil {
		return nil, err
	}

	s.emit(LevelInfo, "Analyzing topics with Gemini...")

	resp, err := s.backend.Topics(ctx, backend.TopicsRequest{
		ServerID:  c.ServerID,
		ChannelID: c.ChannelID,
		GeminiKey: c.GeminiKey,
	})
	if err != nil {
		return nil, err
	}
	if resp.Status != backend.StatusSuccess {
		return nil, fmt.Errorf("failed to analyze topics: %w", &backend.AppError{
			Endpoint: backend.PathGetTopics,
			Status:   resp.Status,
			Message:  resp.Message,
		})
	}

	s.mu.Lock()
	s.state.Topics = resp.Topics
	s.state.SelectedTopic = ""
	s.mu.Unlock()
	s.persist(ctx)

	s.emit(LevelSuccess, "Found "+strconv.Itoa(len(resp.Topics))+" topics")
	return resp.Topics, nil
}

// Summarize requests a summary for topic. The topic is checked before the
// credentials. Any failure clears the stored summary.
func (s *Service) Summarize(ctx context.Context, topic analysis.Topic) (string, error) {
	if err := validate.Topic(string(topic)); err != nil {
		return "", ErrNoTopic
	}

	c, err := s.requireCredentials()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.state.SelectedTopic = topic
	s.mu.Unlock()

	s.emit(LevelInfo, fmt.Sprintf("Generating summary for topic: %s...", topic))

	resp, err := s.backend.Summary(ctx, backend.SummaryRequest{
		ServerID:  c.ServerID,
		ChannelID: c.ChannelID,
		GeminiKey: c.GeminiKey,
		Topic:     string(topic),
	})
	if err == nil && resp.Status != backend.StatusSuccess {
		err = fmt.Errorf("failed to generate summary: %w", &backend.AppError{
			Endpoint: backend.PathGetSummary,
			Status:   resp.Status,
			Message:  resp.Message,
		})
	}
	if err != nil {
		s.mu.Lock()
		s.state.Summary = ""
		s.mu.Unlock()
		s.persist(ctx)
		return "", err
	}

	s.mu.Lock()
	s.state.Summary = resp.Summary
	s.mu.Unlock()
	s.persist(ctx)

	s.emit(LevelSuccess, "Summary generated successfully")
	return resp.Summary, nil
}

// MatchTopic resolves a user-supplied topic. A value without glob
// metacharacters is returned verbatim. A glob must match exactly one of
// topics; matching is case-insensitive.
func MatchTopic(topics []analysis.Topic, pattern string) (analysis.Topic, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", ErrNoTopic
	}
	if !strings.ContainsAny(pattern, "*?[{") {
		return analysis.Topic(pattern), nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return "", fmt.Errorf("invalid topic pattern %q", pattern)
	}

	lower := strings.ToLower(pattern)
	var matches []analysis.Topic
	for _, t := range topics {
		ok, err := doublestar.Match(lower, strings.ToLower(string(t)))
		if err != nil {
			return "", fmt.Errorf("match topic pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w %q", ErrNoMatch, pattern)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = string(m)
		}
		return "", fmt.Errorf("%w: %s", ErrAmbiguous, strings.Join(names, ", "))
	}
}
