package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims of a session credential
type SessionClaims struct {
	jwt.RegisteredClaims
}
