package ports

import (
	"context"

	"github.com/layer-3/walletauth/core"
)

// SessionStore persists the single session credential of the current origin.
// Load reports ok=false when nothing is stored; that is not an error.
type SessionStore interface {
	Load(ctx context.Context) (cred core.Credential, ok bool, err error)
	Save(ctx context.Context, cred core.Credential) error
}
