package nba

import "fmt"

// UnavailableError wraps a transport-level failure: the upstream could not be
// reached at all. Such failures are retried by the HTTP transport before they
// surface here.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("nba: upstream unavailable: %v", e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *UnavailableError) Unwrap() error { return e.Err }

// Code identifies the failure class for log summaries.
func (e *UnavailableError) Code() string { return "NBA_UNAVAILABLE" }

// StatusError is a non-2xx answer from the upstream. It carries a decision by
// the API and is never retried.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nba: %s returned status %d", e.Endpoint, e.StatusCode)
}

// Code identifies the failure class for log summaries.
func (e *StatusError) Code() string { return fmt.Sprintf("NBA_HTTP_%d", e.StatusCode) }

// ProtocolError means the response decoded but violated the expected shape,
// for example a list endpoint answering without a meta envelope.
type ProtocolError struct {
	Endpoint string
	Reason   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("nba: %s protocol violation: %s", e.Endpoint, e.Reason)
}

// Code identifies the failure class for log summaries.
func (e *ProtocolError) Code() string { return "NBA_PROTOCOL" }
