package provider

import "fmt"

// TransportError indicates the vendor could not be reached at the HTTP layer
// (connection failure, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteRejectionError indicates the vendor answered with HTTP >= 400, or
// reported failure in its own response envelope.
type RemoteRejectionError struct {
	StatusCode int
	Body       string
}

func (e *RemoteRejectionError) Error() string {
	return fmt.Sprintf("remote rejected request (status %d): %s", e.StatusCode, e.Body)
}

// MalformedResponseError indicates the vendor response body could not be
// parsed as the expected structure.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed vendor response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// AuthStepError identifies which step of a staged authentication chain failed.
// The chain short-circuits on the first failing step.
type AuthStepError struct {
	Step string
	Err  error
}

func (e *AuthStepError) Error() string {
	return fmt.Sprintf("authentication step %q failed: %v", e.Step, e.Err)
}

func (e *AuthStepError) Unwrap() error {
	return e.Err
}
