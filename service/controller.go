package service

import (
	"context"
	"errors"
	"sync"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/internal/logger"
	"github.com/layer-3/walletauth/ports"
)

// Notification texts
const (
	MsgWalletConnected = "Wallet Connected"
	MsgNoExtension     = "There is no enabled wallet extension."
	MsgAuthenticated   = "Successfully authenticated"
	MsgSessionNotSaved = "Failed to persist session"
	MsgFallback        = "Something went wrong"
)

// SessionController drives the wallet sign-in lifecycle of one client instance.
//
// Triggers (Connect, SignIn) are serialized; a trigger that arrives while
// another one is running is refused with core.ErrBusy. Failures of the wallet,
// the store or the backend never escape: they are logged, reported once through
// the notifier, and the state falls back to the nearest stable phase.
type SessionController struct {
	wallet   ports.WalletGateway
	store    ports.SessionStore
	client   ports.AuthClient
	notifier ports.Notifier
	logger   *logger.Logger
	appName  string

	op sync.Mutex

	mu    sync.RWMutex
	state core.AuthState
	cred  core.Credential // credential behind state.Authenticated
}

// NewSessionController creates a controller in the idle phase
func NewSessionController(
	wallet ports.WalletGateway,
	store ports.SessionStore,
	client ports.AuthClient,
	notifier ports.Notifier,
	log *logger.Logger,
	appName string,
) *SessionController {
	return &SessionController{
		wallet:   wallet,
		store:    store,
		client:   client,
		notifier: notifier,
		logger:   log,
		appName:  appName,
		state:    core.AuthState{Phase: core.PhaseIdle},
	}
}

// State returns a snapshot of the current state. It never blocks on a running trigger.
func (c *SessionController) State() core.AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state.Clone()
}

// Connect discovers wallet accounts, selects the first one and revalidates the
// persisted session for it. Any previous account and session are discarded.
// The returned error is non-nil only when the trigger was refused.
func (c *SessionController) Connect(ctx context.Context) error {
	if !c.op.TryLock() {
		return core.ErrBusy
	}
	defer c.op.Unlock()

	c.set(func(s *core.AuthState) {
		*s = core.AuthState{Phase: core.PhaseConnecting, Connecting: true}
	}, "")

	accounts, err := c.wallet.EnableAndDiscover(ctx, c.appName)
	if err == nil && len(accounts) == 0 {
		err = core.ErrNoExtension
	}
	if err != nil {
		c.set(func(s *core.AuthState) {
			s.Phase = core.PhaseDisconnected
			s.Connecting = false
		}, "")

		if errors.Is(err, core.ErrNoExtension) {
			c.logger.Warn("no wallet accounts discovered", "app", c.appName)
			c.notify(ctx, core.SeverityError, MsgNoExtension)
			return nil
		}

		c.logger.Error("wallet discovery failed", "app", c.appName, "error", err)
		c.notify(ctx, core.SeverityError, core.Detail(err))
		return nil
	}

	account := accounts[0]
	c.set(func(s *core.AuthState) {
		s.Phase = core.PhaseConnected
		s.Connecting = false
		s.Account = &account
	}, "")
	c.logger.Info("wallet connected", "address", account.Address, "source", account.Source, "accounts", len(accounts))
	c.notify(ctx, core.SeveritySuccess, MsgWalletConnected)

	c.restore(ctx, account)
	return nil
}

// restore authenticates with the persisted credential when the backend still accepts it.
// A rejected credential is left in the store.
func (c *SessionController) restore(ctx context.Context, account core.Account) {
	log := c.logger.With("address", account.Address)

	cred, ok, err := c.store.Load(ctx)
	if err != nil {
		log.Warn("failed to load persisted session", "error", err)
		ok = false
	}
	if !ok {
		c.setPhase(core.PhaseUnauthenticated)
		return
	}

	valid, err := c.client.CheckSession(ctx, account.Address, cred)
	if err != nil {
		log.Error("session check failed", "error", err)
		c.setPhase(core.PhaseUnauthenticated)
		c.notify(ctx, core.SeverityError, core.Detail(err))
		return
	}
	if !valid {
		log.Info("persisted session is no longer valid")
		c.setPhase(core.PhaseUnauthenticated)
		return
	}

	c.authenticate(ctx, account, cred)
}

// SignIn proves control of the connected account and exchanges the signature for
// a new session. When the wallet cannot sign raw messages nothing happens.
// The returned error is non-nil only when the trigger was refused.
func (c *SessionController) SignIn(ctx context.Context) error {
	if !c.op.TryLock() {
		return core.ErrBusy
	}
	defer c.op.Unlock()

	prev, prevCred := c.snapshot()
	if prev.Account == nil {
		return core.ErrNotConnected
	}
	account := *prev.Account
	log := c.logger.With("address", account.Address)

	rollback := func() {
		c.set(func(s *core.AuthState) {
			*s = prev
			if !prev.Authenticated {
				s.Phase = core.PhaseUnauthenticated
			}
		}, prevCred)
	}

	c.setPhase(core.PhaseSigningIn)

	challenge := core.NewChallenge(account.Address)
	signature, err := c.wallet.RequestSignature(ctx, account, challenge.Message)
	switch {
	case errors.Is(err, core.ErrSignerUnavailable):
		log.Warn("wallet cannot sign raw messages, sign-in skipped", "source", account.Source)
		c.set(func(s *core.AuthState) { *s = prev }, prevCred)
		return nil
	case err != nil && ctx.Err() != nil:
		log.Info("sign-in abandoned", "error", err)
		rollback()
		return nil
	case err != nil:
		log.Error("signature request failed", "error", err)
		rollback()
		c.notify(ctx, core.SeverityError, core.Detail(err))
		return nil
	}

	cred, err := c.client.SignIn(ctx, account.Address, signature, challenge.Message)
	if err != nil {
		log.Error("sign-in rejected", "error", err)
		rollback()
		c.notify(ctx, core.SeverityError, core.Detail(err))
		return nil
	}

	if err := c.store.Save(ctx, cred); err != nil {
		log.Error("failed to persist session", "error", err)
		rollback()
		c.notify(ctx, core.SeverityError, MsgSessionNotSaved)
		return nil
	}

	c.set(func(s *core.AuthState) { s.Secret = nil }, prevCred)
	c.authenticate(ctx, account, cred)
	return nil
}

func (c *SessionController) authenticate(ctx context.Context, account core.Account, cred core.Credential) {
	c.set(func(s *core.AuthState) {
		s.Phase = core.PhaseAuthenticated
		s.Authenticated = true
	}, cred)
	c.logger.Info("authenticated", "address", account.Address)
	c.notify(ctx, core.SeveritySuccess, MsgAuthenticated)

	c.fetchSecret(ctx, account, cred)
}

// fetchSecret is best effort: a failure is reported but keeps the session authenticated
func (c *SessionController) fetchSecret(ctx context.Context, account core.Account, cred core.Credential) {
	secret, err := c.client.FetchSecret(ctx, account.Address, cred)
	if err != nil {
		c.logger.Error("secret fetch failed", "address", account.Address, "error", err)
		c.notify(ctx, core.SeverityError, core.Detail(err))
		return
	}

	c.set(func(s *core.AuthState) { s.Secret = &secret }, cred)
}

func (c *SessionController) snapshot() (core.AuthState, core.Credential) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state.Clone(), c.cred
}

func (c *SessionController) set(fn func(s *core.AuthState), cred core.Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.state)
	c.cred = cred
}

func (c *SessionController) setPhase(phase core.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Phase = phase
}

func (c *SessionController) notify(ctx context.Context, severity core.Severity, message string) {
	if message == "" {
		message = MsgFallback
	}

	state := c.State()
	n := core.Notification{
		Message:  message,
		Severity: severity,
		Phase:    state.Phase,
	}
	if state.Account != nil {
		n.Address = state.Account.Address
	}

	if err := c.notifier.Notify(ctx, n); err != nil {
		c.logger.Warn("failed to deliver notification", "message", message, "error", err)
	}
}
