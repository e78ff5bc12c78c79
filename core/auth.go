package core

import "fmt"

// ChallengePrefix is the fixed text preceding the address in a sign-in challenge
const ChallengePrefix = "Sign-in request for address "

// Account identifies a key controlled by a wallet extension
type Account struct {
	Address string // Public address, format depends on the chain
	Source  string // Name of the extension that controls the key
	Name    string // Optional display name exposed by the extension
}

// Challenge is the message an operator signs to prove control of an address
type Challenge struct {
	Address string
	Message string
}

// NewChallenge builds the sign-in challenge for an address
func NewChallenge(address string) Challenge {
	return Challenge{
		Address: address,
		Message: fmt.Sprintf("%s%s", ChallengePrefix, address),
	}
}

// Signature is the hex encoded signature returned by a wallet extension
type Signature string

// Credential is the opaque session hash issued by the backend
type Credential string

// Valid reports whether the credential can be presented to the backend
func (c Credential) Valid() bool {
	return c != ""
}
