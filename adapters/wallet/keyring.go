package wallet

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyringSource is the source name of accounts held by a Keyring
const KeyringSource = "keyring"

var (
	ErrNotEnabled      = errors.New("keyring has not been enabled")
	ErrUnknownAccount  = errors.New("account is not held by this keyring")
	ErrUnsupportedType = errors.New("unsupported payload type")
)

// ApproveFunc is consulted before every signature. Returning an error rejects the request.
type ApproveFunc func(ctx context.Context, payload SignRawPayload) error

// Keyring is a local extension holding secp256k1 keys.
// Signatures follow EIP-191 personal messages with V in {27, 28}.
type Keyring struct {
	keys    []*ecdsa.PrivateKey
	approve ApproveFunc
	enabled string
	mu      sync.RWMutex
}

// NewKeyring creates a keyring holding keys
func NewKeyring(keys ...*ecdsa.PrivateKey) *Keyring {
	return &Keyring{keys: keys}
}

// LoadKeyring reads hex encoded private keys, one per line. A missing file yields an empty keyring.
func LoadKeyring(path string) (*Keyring, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewKeyring(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	defer f.Close()

	var keys []*ecdsa.PrivateKey
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(line, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	return NewKeyring(keys...), nil
}

// Save writes the keys to path, readable by the owner only
func (k *Keyring) Save(path string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var b strings.Builder
	for _, key := range k.keys {
		b.WriteString(hexutil.Encode(crypto.FromECDSA(key)))
		b.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create keyring dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}

	return nil
}

// Generate adds a fresh key and returns its address
func (k *Keyring) Generate() (common.Address, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to generate key: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.keys = append(k.keys, key)
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// SetApproval installs the hook consulted before every signature
func (k *Keyring) SetApproval(fn ApproveFunc) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.approve = fn
}

// Name returns KeyringSource
func (k *Keyring) Name() string { return KeyringSource }

// Enable grants appName access to the keyring
func (k *Keyring) Enable(ctx context.Context, appName string) error {
	if appName == "" {
		return fmt.Errorf("app name is required")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.enabled = appName
	return nil
}

// Accounts lists the addresses of all held keys in insertion order
func (k *Keyring) Accounts(ctx context.Context) ([]InjectedAccount, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.enabled == "" {
		return nil, ErrNotEnabled
	}

	out := make([]InjectedAccount, 0, len(k.keys))
	for i, key := range k.keys {
		out = append(out, InjectedAccount{
			Address: crypto.PubkeyToAddress(key.PublicKey).Hex(),
			Meta: AccountMeta{
				Source: KeyringSource,
				Name:   fmt.Sprintf("key-%d", i+1),
			},
		})
	}

	return out, nil
}

// Signer returns the keyring itself: every held key can sign raw payloads
func (k *Keyring) Signer(ctx context.Context) (RawSigner, error) {
	return k, nil
}

// SignRaw signs the EIP-191 hash of the hex decoded payload data
func (k *Keyring) SignRaw(ctx context.Context, payload SignRawPayload) (SignerResult, error) {
	if payload.Type != PayloadTypeBytes {
		return SignerResult{}, fmt.Errorf("%w: %s", ErrUnsupportedType, payload.Type)
	}

	data, err := hexutil.Decode(payload.Data)
	if err != nil {
		return SignerResult{}, fmt.Errorf("failed to decode payload: %w", err)
	}

	k.mu.RLock()
	key := k.find(payload.Address)
	approve := k.approve
	k.mu.RUnlock()

	if key == nil {
		return SignerResult{}, ErrUnknownAccount
	}

	if approve != nil {
		if err := approve(ctx, payload); err != nil {
			return SignerResult{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return SignerResult{}, err
	}

	sig, err := crypto.Sign(accounts.TextHash(data), key)
	if err != nil {
		return SignerResult{}, fmt.Errorf("failed to sign: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return SignerResult{Signature: hexutil.Encode(sig)}, nil
}

func (k *Keyring) find(address string) *ecdsa.PrivateKey {
	if !common.IsHexAddress(address) {
		return nil
	}
	want := common.HexToAddress(address)

	for _, key := range k.keys {
		if crypto.PubkeyToAddress(key.PublicKey) == want {
			return key
		}
	}

	return nil
}
