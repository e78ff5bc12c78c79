package wallet

import "context"

// PayloadTypeBytes marks a raw payload that holds arbitrary bytes rather than a transaction
const PayloadTypeBytes = "bytes"

// InjectedAccount is an account as listed by an extension
type InjectedAccount struct {
	Address string
	Meta    AccountMeta
}

// AccountMeta describes where an injected account comes from
type AccountMeta struct {
	Source string
	Name   string
}

// SignRawPayload is a request to sign raw data
type SignRawPayload struct {
	Address string
	Data    string // 0x prefixed hex
	Type    string
}

// SignerResult is the answer of a raw signing request
type SignerResult struct {
	ID        string
	Signature string
}

// RawSigner signs raw payloads on behalf of the accounts of one extension
type RawSigner interface {
	SignRaw(ctx context.Context, payload SignRawPayload) (SignerResult, error)
}

// Extension is an out-of-process agent holding keys
type Extension interface {
	// Name is the source identifier carried by the extension's accounts
	Name() string
	Enable(ctx context.Context, appName string) error
	Accounts(ctx context.Context) ([]InjectedAccount, error)
	// Signer returns nil when the extension has no raw signing capability
	Signer(ctx context.Context) (RawSigner, error)
}
