package store

import (
	"context"
	"sync"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

// MemoryStore keeps the session credential for the lifetime of the process
type MemoryStore struct {
	cred core.Credential
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// Load returns the stored credential, if any
func (s *MemoryStore) Load(ctx context.Context) (core.Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cred, s.cred.Valid(), nil
}

// Save replaces the stored credential
func (s *MemoryStore) Save(ctx context.Context, cred core.Credential) error {
	if !cred.Valid() {
		return core.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = cred
	return nil
}
