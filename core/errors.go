package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoExtension       = errors.New("there is no enabled wallet extension")
	ErrSignerUnavailable = errors.New("wallet extension cannot sign raw messages")
	ErrSignature         = errors.New("signature request failed")
	ErrAuthRejected      = errors.New("sign-in rejected")
	ErrSessionCheck      = errors.New("session check failed")
	ErrSecretFetch       = errors.New("secret fetch failed")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotConnected      = errors.New("no wallet account connected")
	ErrBusy              = errors.New("another operation is in progress")
)

// RemoteError describes a failed round trip to the backend.
// Kind is one of ErrAuthRejected, ErrSessionCheck or ErrSecretFetch.
type RemoteError struct {
	Op         string
	Kind       error
	StatusCode int    // Zero when the request never produced a response
	Body       string // Response body as returned by the backend
	Err        error  // Transport or decoding cause, if any
}

func (e *RemoteError) Error() string {
	switch {
	case e.Body != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

func (e *RemoteError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Detail returns the most specific human readable reason for a failure.
// Backend bodies are returned verbatim.
func Detail(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Body != "" {
		return remote.Body
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
