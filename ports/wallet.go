package ports

import (
	"context"

	"github.com/layer-3/walletauth/core"
)

// WalletGateway is the boundary to wallet extensions
type WalletGateway interface {
	// EnableAndDiscover asks for permission on behalf of appName and lists the
	// accounts exposed by every extension. Returns core.ErrNoExtension when
	// nothing is exposed.
	EnableAndDiscover(ctx context.Context, appName string) ([]core.Account, error)

	// RequestSignature asks the extension behind account.Source to sign message.
	// It may block until the operator answers in the extension; cancel ctx to abandon.
	RequestSignature(ctx context.Context, account core.Account, message string) (core.Signature, error)
}
