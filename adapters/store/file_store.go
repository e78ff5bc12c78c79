package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

const sessionsFile = "sessions.json" // map[origin:storageKey]credential

// FileStore keeps credentials of all origins in one JSON file
type FileStore struct {
	dir string
	key string
	mu  sync.Mutex
}

// NewFileStore creates a store for the credential of origin under storageKey
func NewFileStore(dir, origin, storageKey string) *FileStore {
	return &FileStore{
		dir: dir,
		key: origin + ":" + storageKey,
	}
}

var _ ports.SessionStore = (*FileStore)(nil)

// Load returns the stored credential, if any
func (s *FileStore) Load(ctx context.Context) (core.Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.read()
	if err != nil {
		return "", false, err
	}

	cred := core.Credential(sessions[s.key])
	return cred, cred.Valid(), nil
}

// Save replaces the stored credential, keeping entries of other origins
func (s *FileStore) Save(ctx context.Context, cred core.Credential) error {
	if !cred.Valid() {
		return core.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.read()
	if err != nil {
		return err
	}
	sessions[s.key] = string(cred)

	raw, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, sessionsFile), raw, 0o600); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}

	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	sessions := make(map[string]string)

	raw, err := os.ReadFile(filepath.Join(s.dir, sessionsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return sessions, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	return sessions, nil
}
