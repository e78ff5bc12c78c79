package ports

import "github.com/layer-3/walletauth/core"

// Tokenizer converts between backend sessions and credentials
type Tokenizer interface {
	SessionToCredential(session *core.Session) (core.Credential, error)
	CredentialToSession(cred core.Credential) (*core.Session, error)

	// VerifySignature checks that signature was produced over challenge.Message
	// by the key behind challenge.Address
	VerifySignature(challenge core.Challenge, signature core.Signature) error
}
