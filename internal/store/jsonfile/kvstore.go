// Package jsonfile provides JSON file-backed stores for credentials and the
// workspace snapshot.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ErrKeyNotFound is returned when a key has no entry.
var ErrKeyNotFound = errors.New("key not found")

// Entry is one key/value pair. Values are opaque strings, as in browser
// local storage.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KVFile is the root JSON structure stored on disk for KV data.
type KVFile struct {
	Entries map[string]Entry `json:"entries"`
}

// KVStore is a string key/value store persisted to a single JSON file.
// Access is serialized within the process by a RWMutex and across processes
// by flock on a sibling lock file.
type KVStore struct {
	path string
	mu   sync.RWMutex
	now  func() time.Time
}

// NewKVStore creates a KV store at the given path. The file is created on
// first write.
func NewKVStore(path string) *KVStore {
	return &KVStore{path: path, now: time.Now}
}

// Path returns the file backing the store.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) lockPath() string {
	return s.path + ".lock"
}

func (s *KVStore) withSharedLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_SH, fn)
}

func (s *KVStore) withExclusiveLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_EX, fn)
}

func (s *KVStore) withFileLock(lockType int, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// Get returns the entry for key, or ErrKeyNotFound.
func (s *KVStore) Get(ctx context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		entry Entry
		found bool
	)

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		entry, found = file.Entries[key]
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	if !found {
		return Entry{}, ErrKeyNotFound
	}
	return entry, nil
}

// Set creates or overwrites the value for key.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		now := s.now()
		entry, exists := file.Entries[key]
		if !exists {
			entry = Entry{Key: key, CreatedAt: now}
		}
		entry.Value = value
		entry.UpdatedAt = now

		file.Entries[key] = entry
		return s.save(file)
	})
}

// Delete removes key. It returns ErrKeyNotFound if there was no entry.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notFound bool

	err := s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		if _, ok := file.Entries[key]; !ok {
			notFound = true
			return nil
		}

		delete(file.Entries, key)
		return s.save(file)
	})
	if err != nil {
		return err
	}
	if notFound {
		return ErrKeyNotFound
	}
	return nil
}

// Keys returns the stored keys with the given prefix, sorted.
func (s *KVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		for k := range file.Entries {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *KVStore) load() (KVFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return KVFile{Entries: make(map[string]Entry)}, nil
		}
		return KVFile{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return KVFile{Entries: make(map[string]Entry)}, nil
	}

	var file KVFile
	if err := json.Unmarshal(data, &file); err != nil {
		return KVFile{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if file.Entries == nil {
		file.Entries = make(map[string]Entry)
	}
	return file, nil
}

// save writes the file atomically through a temp file and rename.
func (s *KVStore) save(file KVFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	// the file holds API tokens
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
