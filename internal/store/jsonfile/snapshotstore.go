package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hay-kot/chatlens/internal/workspace"
)

// SnapshotStore persists the last workspace results so separate CLI
// invocations can build on each other.
type SnapshotStore struct {
	path string
	mu   sync.RWMutex
}

var _ workspace.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore creates a snapshot store at the given path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load returns the stored snapshot, or a zero snapshot if none was written.
func (s *SnapshotStore) Load(ctx context.Context) (workspace.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return workspace.Snapshot{}, nil
		}
		return workspace.Snapshot{}, fmt.Errorf("read workspace file: %w", err)
	}

	if len(data) == 0 {
		return workspace.Snapshot{}, nil
	}

	var snap workspace.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return workspace.Snapshot{}, fmt.Errorf("parse workspace file: %w", err)
	}
	return snap, nil
}

// Save replaces the stored snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snap workspace.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
