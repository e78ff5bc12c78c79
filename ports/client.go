package ports

import (
	"context"

	"github.com/layer-3/walletauth/core"
)

// AuthClient performs the backend round trips of the sign-in flow.
// None of the calls retry.
type AuthClient interface {
	SignIn(ctx context.Context, address string, signature core.Signature, message string) (core.Credential, error)
	CheckSession(ctx context.Context, address string, cred core.Credential) (bool, error)
	FetchSecret(ctx context.Context, address string, cred core.Credential) (string, error)
}
