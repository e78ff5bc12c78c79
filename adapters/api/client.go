package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

const (
	opSignIn       = "signin"
	opCheckSession = "checkSession"
	opFetchSecret  = "secret"
)

// SignInRequest is the body of POST /signin
type SignInRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
	Message   string `json:"message"`
}

// CheckSessionRequest is the body of POST /checkSession
type CheckSessionRequest struct {
	Address string `json:"address"`
	Hash    string `json:"hash"`
}

// Client talks to the authentication backend over JSON/HTTP
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the backend rooted at base.
// A nil httpClient selects http.DefaultClient.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		base: strings.TrimRight(base, "/"),
		http: httpClient,
	}
}

var _ ports.AuthClient = (*Client)(nil)

// SignIn exchanges a signed challenge for a session credential
func (c *Client) SignIn(ctx context.Context, address string, signature core.Signature, message string) (core.Credential, error) {
	if address == "" || signature == "" || message == "" {
		return "", c.invalid(opSignIn, core.ErrAuthRejected, "address, signature and message are required")
	}

	body, err := c.post(ctx, opSignIn, core.ErrAuthRejected, "/signin", SignInRequest{
		Address:   address,
		Signature: string(signature),
		Message:   message,
	})
	if err != nil {
		return "", err
	}

	cred := core.Credential(strings.TrimSpace(body))
	if !cred.Valid() {
		return "", &core.RemoteError{Op: opSignIn, Kind: core.ErrAuthRejected, StatusCode: http.StatusOK, Err: fmt.Errorf("empty credential")}
	}

	return cred, nil
}

// CheckSession asks whether cred is still valid for address
func (c *Client) CheckSession(ctx context.Context, address string, cred core.Credential) (bool, error) {
	if address == "" || !cred.Valid() {
		return false, c.invalid(opCheckSession, core.ErrSessionCheck, "address and hash are required")
	}

	body, err := c.post(ctx, opCheckSession, core.ErrSessionCheck, "/checkSession", CheckSessionRequest{
		Address: address,
		Hash:    string(cred),
	})
	if err != nil {
		return false, err
	}

	valid, err := parseBool(body)
	if err != nil {
		return false, &core.RemoteError{Op: opCheckSession, Kind: core.ErrSessionCheck, StatusCode: http.StatusOK, Err: err}
	}

	return valid, nil
}

// FetchSecret retrieves the protected resource of address, presenting cred as the authorization
func (c *Client) FetchSecret(ctx context.Context, address string, cred core.Credential) (string, error) {
	if address == "" || !cred.Valid() {
		return "", c.invalid(opFetchSecret, core.ErrSecretFetch, "address and hash are required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/secret/"+url.PathEscape(address), nil)
	if err != nil {
		return "", &core.RemoteError{Op: opFetchSecret, Kind: core.ErrSecretFetch, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", string(cred))

	return c.do(req, opFetchSecret, core.ErrSecretFetch)
}

func (c *Client) post(ctx context.Context, op string, kind error, path string, in any) (string, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return "", &core.RemoteError{Op: op, Kind: kind, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return "", &core.RemoteError{Op: op, Kind: kind, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, op, kind)
}

func (c *Client) do(req *http.Request, op string, kind error) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &core.RemoteError{Op: op, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &core.RemoteError{Op: op, Kind: kind, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode/100 != 2 {
		return "", &core.RemoteError{
			Op:         op,
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return string(raw), nil
}

func (c *Client) invalid(op string, kind error, reason string) error {
	return &core.RemoteError{Op: op, Kind: kind, Err: fmt.Errorf("%w: %s", core.ErrInvalidArgument, reason)}
}

// parseBool accepts the boolean spellings of strconv plus JSON encoded strings
func parseBool(body string) (bool, error) {
	s := strings.TrimSpace(body)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("unexpected session check answer %q", body)
	}

	return v, nil
}
