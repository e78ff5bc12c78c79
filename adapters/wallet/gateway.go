package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/internal/logger"
	"github.com/layer-3/walletauth/ports"
)

// Gateway implements the WalletGateway interface over a set of extensions
type Gateway struct {
	extensions []Extension
	bySource   map[string]Extension
	logger     *logger.Logger
}

// NewGateway creates a gateway. Discovery order follows the order of extensions.
func NewGateway(extensions ...Extension) *Gateway {
	bySource := make(map[string]Extension, len(extensions))
	for _, ext := range extensions {
		bySource[ext.Name()] = ext
	}

	return &Gateway{
		extensions: extensions,
		bySource:   bySource,
	}
}

var _ ports.WalletGateway = (*Gateway)(nil)

// WithLogger reports extensions skipped during discovery to log
func (g *Gateway) WithLogger(log *logger.Logger) *Gateway {
	g.logger = log
	return g
}

// EnableAndDiscover enables every extension for appName and lists their accounts.
// An extension that fails is skipped; discovery fails only when every extension does.
func (g *Gateway) EnableAndDiscover(ctx context.Context, appName string) ([]core.Account, error) {
	var (
		accounts []core.Account
		failures []error
	)

	for _, ext := range g.extensions {
		injected, err := discover(ctx, ext, appName)
		if err != nil {
			if g.logger != nil {
				g.logger.Warn("skipping wallet extension", "extension", ext.Name(), "error", err)
			}
			failures = append(failures, err)
			continue
		}

		for _, a := range injected {
			source := a.Meta.Source
			if source == "" {
				source = ext.Name()
			}
			accounts = append(accounts, core.Account{
				Address: a.Address,
				Source:  source,
				Name:    a.Meta.Name,
			})
		}
	}

	if len(g.extensions) > 0 && len(failures) == len(g.extensions) {
		return nil, errors.Join(failures...)
	}
	if len(accounts) == 0 {
		return nil, core.ErrNoExtension
	}

	return accounts, nil
}

func discover(ctx context.Context, ext Extension, appName string) ([]InjectedAccount, error) {
	if err := ext.Enable(ctx, appName); err != nil {
		return nil, fmt.Errorf("failed to enable %s: %w", ext.Name(), err)
	}

	injected, err := ext.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts of %s: %w", ext.Name(), err)
	}

	return injected, nil
}

// RequestSignature asks the extension that controls account to sign message as raw bytes
func (g *Gateway) RequestSignature(ctx context.Context, account core.Account, message string) (core.Signature, error) {
	ext, ok := g.bySource[account.Source]
	if !ok {
		return "", fmt.Errorf("unknown source %q: %w", account.Source, core.ErrSignerUnavailable)
	}

	signer, err := ext.Signer(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve signer: %w", core.ErrSignature, err)
	}
	if signer == nil {
		return "", core.ErrSignerUnavailable
	}

	res, err := signer.SignRaw(ctx, SignRawPayload{
		Address: account.Address,
		Data:    hexutil.Encode([]byte(message)),
		Type:    PayloadTypeBytes,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", core.ErrSignature, err)
	}
	if res.Signature == "" {
		return "", fmt.Errorf("%w: empty signature", core.ErrSignature)
	}

	return core.Signature(res.Signature), nil
}
