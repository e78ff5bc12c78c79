package tokenizer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

const AudienceSession = "session:access"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAddressMismatch  = errors.New("address mismatch")
)

// JWTTokenizer implements the Tokenizer interface using ES256 JWTs
type JWTTokenizer struct {
	signKey *ecdsa.PrivateKey
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(signKey *ecdsa.PrivateKey) *JWTTokenizer {
	return &JWTTokenizer{signKey: signKey}
}

var _ ports.Tokenizer = (*JWTTokenizer)(nil)

// SessionToCredential signs a session into a credential
func (j *JWTTokenizer) SessionToCredential(session *core.Session) (core.Credential, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Address,
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(j.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return core.Credential(signedToken), nil
}

// CredentialToSession verifies a credential and returns the session behind it.
// Expired credentials fail verification.
func (j *JWTTokenizer) CredentialToSession(cred core.Credential) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(string(cred), &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &j.signKey.PublicKey, nil
	}, jwt.WithAudience(AudienceSession), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &core.Session{
		ID:        claims.ID,
		Address:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// VerifySignature verifies an EIP-191 personal signature of the challenge message
func (j *JWTTokenizer) VerifySignature(challenge core.Challenge, signature core.Signature) error {
	if !common.IsHexAddress(challenge.Address) {
		return fmt.Errorf("malformed address: %w", ErrInvalidSignature)
	}

	sig, err := hexutil.Decode(string(signature))
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", ErrInvalidSignature)
	}
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("signature must be %d bytes: %w", crypto.SignatureLength, ErrInvalidSignature)
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(challenge.Message)), sig)
	if err != nil {
		return fmt.Errorf("failed to recover key: %w", ErrInvalidSignature)
	}

	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(challenge.Address) {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, ErrAddressMismatch)
	}

	return nil
}
