package core

// Phase is a node of the authentication state machine
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseConnecting      Phase = "connecting"
	PhaseDisconnected    Phase = "disconnected"
	PhaseConnected       Phase = "connected"
	PhaseUnauthenticated Phase = "unauthenticated"
	PhaseSigningIn       Phase = "signing_in"
	PhaseAuthenticated   Phase = "authenticated"
)

// AuthState is the view of the authentication lifecycle exposed to the presentation layer
type AuthState struct {
	Phase         Phase
	Connecting    bool
	Account       *Account // nil until an account is connected
	Authenticated bool
	Secret        *string // nil until the protected resource is fetched
}

// Clone returns a copy that shares no pointers with s
func (s AuthState) Clone() AuthState {
	out := s
	if s.Account != nil {
		account := *s.Account
		out.Account = &account
	}
	if s.Secret != nil {
		secret := *s.Secret
		out.Secret = &secret
	}
	return out
}

// Severity classifies a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a user facing outcome emitted by the session controller
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Phase    Phase    `json:"phase"`
	Address  string   `json:"address,omitempty"`
}
