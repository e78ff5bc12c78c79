package ports

import (
	"context"

	"github.com/layer-3/walletauth/core"
)

// Notifier delivers user facing outcomes to the presentation layer
type Notifier interface {
	Notify(ctx context.Context, n core.Notification) error
}
