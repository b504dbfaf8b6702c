package workspace

import (
	"context"
	"slices"
	"time"

	"github.com/hay-kot/chatlens/internal/core/analysis"
	"github.com/hay-kot/chatlens/internal/core/credentials"
)

// State is everything the workspace displays. Render functions take it as
// a parameter; only Service mutates it.
type State struct {
	Credentials   credentials.Credentials
	Messages      []analysis.Message
	Topics        []analysis.Topic
	SelectedTopic analysis.Topic
	Summary       string
}

func (s State) clone() State {
	s.Messages = slices.Clone(s.Messages)
	s.Topics = slices.Clone(s.Topics)
	return s
}

// Snapshot is the persisted subset of State. Credentials are stored
// separately.
type Snapshot struct {
	Messages      []analysis.Message `json:"messages"`
	Topics        []analysis.Topic   `json:"topics"`
	SelectedTopic analysis.Topic     `json:"selected_topic"`
	Summary       string             `json:"summary"`
	SavedAt       time.Time          `json:"saved_at"`
}

// SnapshotStore persists the last workspace results.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Level classifies a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-facing status line.
type Notice struct {
	Level Level
	Text  string
}

// Notifier receives notices as operations progress. It may be called from
// the goroutine running the operation.
type Notifier func(Notice)
