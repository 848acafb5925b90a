package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential indicates no API key was resolvable from either
	// the explicit argument or the environment. Raised before any network
	// activity.
	ErrMissingCredential = errors.New("api key not provided and not set in environment")

	// ErrBackendInit indicates the backend transport could not be
	// constructed. Fatal to the provider instance; no request was attempted.
	ErrBackendInit = errors.New("backend client initialization failed")
)

// BackendError wraps any transport, auth, quota, or model error raised by the
// generation call itself. The original backend message is preserved for
// diagnostics; the call is never retried here.
type BackendError struct {
	Provider string
	Model    string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: model %q: %v", e.Provider, e.Model, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
