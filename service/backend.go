package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/internal/logger"
	"github.com/layer-3/walletauth/ports"
)

var (
	ErrInvalidChallenge = errors.New("invalid challenge")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrSecretNotFound   = errors.New("secret not found")
)

const secretDigits = 6

// Backend is a development implementation of the authentication backend.
// It verifies signed challenges, issues credentials and guards one secret per address.
type Backend struct {
	tokenizer  ports.Tokenizer
	logger     *logger.Logger
	sessionTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	secrets map[string]string
}

// NewBackend creates a new development backend
func NewBackend(tokenizer ports.Tokenizer, log *logger.Logger, sessionTTL time.Duration) *Backend {
	return &Backend{
		tokenizer:  tokenizer,
		logger:     log,
		sessionTTL: sessionTTL,
		now:        time.Now,
		secrets:    make(map[string]string),
	}
}

// SignIn verifies that message is the challenge of address signed by its key and issues a credential
func (b *Backend) SignIn(ctx context.Context, address string, signature core.Signature, message string) (core.Credential, error) {
	challenge := core.NewChallenge(address)
	if address == "" || message != challenge.Message {
		return "", ErrInvalidChallenge
	}

	if err := b.tokenizer.VerifySignature(challenge, signature); err != nil {
		return "", fmt.Errorf("signature verification failed: %w", err)
	}

	now := b.now()
	session := &core.Session{
		ID:        uuid.New().String(),
		Address:   address,
		IssuedAt:  now,
		ExpiresAt: now.Add(b.sessionTTL),
	}

	cred, err := b.tokenizer.SessionToCredential(session)
	if err != nil {
		return "", fmt.Errorf("failed to create credential: %w", err)
	}

	if err := b.ensureSecret(address); err != nil {
		return "", err
	}

	b.logger.Info("session issued", "address", address, "session", session.ID)
	return cred, nil
}

// CheckSession reports whether cred was issued to address and is still valid
func (b *Backend) CheckSession(ctx context.Context, address string, cred core.Credential) bool {
	_, err := b.session(address, cred)
	return err == nil
}

// Secret returns the secret of address to the holder of a valid credential
func (b *Backend) Secret(ctx context.Context, address string, cred core.Credential) (string, error) {
	if _, err := b.session(address, cred); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	secret, ok := b.secrets[normalize(address)]
	if !ok {
		return "", ErrSecretNotFound
	}

	return secret, nil
}

func (b *Backend) session(address string, cred core.Credential) (*core.Session, error) {
	if !cred.Valid() {
		return nil, ErrUnauthorized
	}

	session, err := b.tokenizer.CredentialToSession(cred)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if normalize(session.Address) != normalize(address) {
		return nil, ErrUnauthorized
	}

	return session, nil
}

func (b *Backend) ensureSecret(address string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := normalize(address)
	if _, ok := b.secrets[key]; ok {
		return nil
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}

	b.secrets[key] = fmt.Sprintf("%0*d", secretDigits, n.Int64())
	return nil
}

// normalize makes hex addresses comparable regardless of checksum casing
func normalize(address string) string {
	return strings.ToLower(address)
}
