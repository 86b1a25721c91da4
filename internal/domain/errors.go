package domain

import (
	"errors"
	"fmt"
)

// UpstreamHTTPError is a non-success HTTP status from the upstream API.
type UpstreamHTTPError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("upstream %s returned %s", e.Endpoint, e.Status)
}

// UpstreamTransportError is a network-level failure: DNS, timeout, reset, or an open circuit.
type UpstreamTransportError struct {
	Endpoint string
	Err      error
}

func (e *UpstreamTransportError) Error() string {
	return fmt.Sprintf("upstream %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *UpstreamTransportError) Unwrap() error {
	return e.Err
}

// UpstreamParseError is a body that does not match the expected envelope.
type UpstreamParseError struct {
	Endpoint string
	Err      error
}

func (e *UpstreamParseError) Error() string {
	return fmt.Sprintf("upstream %s sent malformed envelope: %v", e.Endpoint, e.Err)
}

func (e *UpstreamParseError) Unwrap() error {
	return e.Err
}

// ErrorKind names the class of an upstream error for logs and metrics.
func ErrorKind(err error) string {
	var httpErr *UpstreamHTTPError
	var transportErr *UpstreamTransportError
	var parseErr *UpstreamParseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &httpErr):
		return "http"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "unknown"
	}
}
