package http

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/walletauth/adapters/tokenizer"
	"github.com/layer-3/walletauth/adapters/wallet"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/internal/testutil"
	"github.com/layer-3/walletauth/service"
)

const basePath = "/api/v1"

func newRouter(t *testing.T) (*gin.Engine, *service.Backend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	backend := service.NewBackend(tokenizer.NewJWTTokenizer(key), testutil.MakeNoopLogger(), time.Hour)
	return SetupRouter(backend, basePath, testutil.MakeNoopLogger()), backend
}

func newKeyring(t *testing.T) (*wallet.Keyring, string) {
	t.Helper()

	keyring := wallet.NewKeyring()
	address, err := keyring.Generate()
	require.NoError(t, err)
	return keyring, address.Hex()
}

func sign(t *testing.T, keyring *wallet.Keyring, address, message string) core.Signature {
	t.Helper()
	ctx := context.Background()

	gw := wallet.NewGateway(keyring)
	_, err := gw.EnableAndDiscover(ctx, "Litentry")
	require.NoError(t, err)

	sig, err := gw.RequestSignature(ctx, core.Account{Address: address, Source: wallet.KeyringSource}, message)
	require.NoError(t, err)
	return sig
}

func perform(router http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var payload string
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = string(raw)
	}

	req := httptest.NewRequest(method, basePath+path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignIn(t *testing.T) {
	router, _ := newRouter(t)
	keyring, address := newKeyring(t)
	message := core.NewChallenge(address).Message
	sig := sign(t, keyring, address, message)

	t.Run("valid signature", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/signin", gin.H{"address": address, "signature": sig, "message": message}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Body.String())
	})

	t.Run("signature of another key", func(t *testing.T) {
		other, otherAddress := newKeyring(t)
		forged := sign(t, other, otherAddress, message)

		w := perform(router, http.MethodPost, "/signin", gin.H{"address": address, "signature": forged, "message": message}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid signature", w.Body.String())
	})

	t.Run("message is not the challenge", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/signin", gin.H{"address": address, "signature": sig, "message": "hello"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid challenge", w.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/signin", gin.H{"address": address}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request", w.Body.String())
	})
}

func TestCheckSessionAndSecret(t *testing.T) {
	router, backend := newRouter(t)
	keyring, address := newKeyring(t)
	message := core.NewChallenge(address).Message

	cred, err := backend.SignIn(context.Background(), address, sign(t, keyring, address, message), message)
	require.NoError(t, err)

	w := perform(router, http.MethodPost, "/checkSession", gin.H{"address": address, "hash": cred}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	w = perform(router, http.MethodPost, "/checkSession", gin.H{"address": address, "hash": "h1"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", w.Body.String())

	w = perform(router, http.MethodGet, "/secret/"+address, nil, map[string]string{"Authorization": string(cred)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Body.String(), 6)

	w = perform(router, http.MethodGet, "/secret/"+address, nil, map[string]string{"Authorization": "Bearer " + string(cred)})
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/secret/"+address, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authorization header is required", w.Body.String())

	w = perform(router, http.MethodGet, "/secret/0x0000000000000000000000000000000000000001", nil, map[string]string{"Authorization": string(cred)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", w.Body.String())
}
