package core

import "time"

// Session is the backend's record behind an issued credential
type Session struct {
	ID        string    // Unique session identifier
	Address   string    // Address the credential was issued to
	IssuedAt  time.Time // When the credential was created
	ExpiresAt time.Time // When the credential stops being accepted
}
