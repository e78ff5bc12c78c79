package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/layer-3/walletauth/core"
)

type mockWallet struct{ mock.Mock }

func (m *mockWallet) EnableAndDiscover(ctx context.Context, appName string) ([]core.Account, error) {
	args := m.Called(ctx, appName)
	accounts, _ := args.Get(0).([]core.Account)
	return accounts, args.Error(1)
}

func (m *mockWallet) RequestSignature(ctx context.Context, account core.Account, message string) (core.Signature, error) {
	args := m.Called(ctx, account, message)
	return core.Signature(args.String(0)), args.Error(1)
}

type mockClient struct{ mock.Mock }

func (m *mockClient) SignIn(ctx context.Context, address string, signature core.Signature, message string) (core.Credential, error) {
	args := m.Called(ctx, address, signature, message)
	return core.Credential(args.String(0)), args.Error(1)
}

func (m *mockClient) CheckSession(ctx context.Context, address string, cred core.Credential) (bool, error) {
	args := m.Called(ctx, address, cred)
	return args.Bool(0), args.Error(1)
}

func (m *mockClient) FetchSecret(ctx context.Context, address string, cred core.Credential) (string, error) {
	args := m.Called(ctx, address, cred)
	return args.String(0), args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Load(ctx context.Context) (core.Credential, bool, error) {
	args := m.Called(ctx)
	return core.Credential(args.String(0)), args.Bool(1), args.Error(2)
}

func (m *mockStore) Save(ctx context.Context, cred core.Credential) error {
	return m.Called(ctx, cred).Error(0)
}

// recorder collects notifications in delivery order
type recorder struct {
	mu   sync.Mutex
	err  error
	list []core.Notification
}

func (r *recorder) Notify(ctx context.Context, n core.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.list = append(r.list, n)
	return r.err
}

func (r *recorder) all() []core.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]core.Notification(nil), r.list...)
}

func (r *recorder) last() core.Notification {
	all := r.all()
	if len(all) == 0 {
		return core.Notification{}
	}
	return all[len(all)-1]
}

func (r *recorder) messages() []string {
	var out []string
	for _, n := range r.all() {
		out = append(out, n.Message)
	}
	return out
}
