package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hay-kot/chatlens/internal/core/credentials"
)

// CredentialStore keeps the credentials record as a JSON blob under
// credentials.StorageKey in a KVStore.
type CredentialStore struct {
	kv *KVStore
}

var _ credentials.Store = (*CredentialStore)(nil)

// NewCredentialStore wraps kv.
func NewCredentialStore(kv *KVStore) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Load returns the stored credentials. A missing key yields an empty record.
// A blob that cannot be decoded yields an empty record and an error.
func (s *CredentialStore) Load(ctx context.Context) (credentials.Credentials, error) {
	entry, err := s.kv.Get(ctx, credentials.StorageKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return credentials.Credentials{}, nil
		}
		return credentials.Credentials{}, err
	}

	var c credentials.Credentials
	if err := json.Unmarshal([]byte(entry.Value), &c); err != nil {
		return credentials.Credentials{}, fmt.Errorf("decode stored credentials: %w", err)
	}
	return c, nil
}

// Save overwrites the stored blob with all four fields, empty ones included.
func (s *CredentialStore) Save(ctx context.Context, c credentials.Credentials) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return s.kv.Set(ctx, credentials.StorageKey, string(data))
}

// Reset deletes the stored blob. Resetting an empty store is not an error.
func (s *CredentialStore) Reset(ctx context.Context) error {
	err := s.kv.Delete(ctx, credentials.StorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	return err
}
