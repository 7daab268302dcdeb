package argus

import (
	"errors"
	"fmt"
)

// ConnectivityError indicates the incident API could not be reached at all:
// DNS failure, refused connection, timeout. These are transient by nature and
// the poll loop retries them with backoff.
type ConnectivityError struct {
	// Op names the store operation that failed (e.g. "list-open").
	Op string

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface for ConnectivityError.
func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("failed to connect during %s: %v", e.Op, e.Err)
}

// Unwrap supports errors.Is/errors.As on the underlying transport error.
func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivity checks if an error is a ConnectivityError using error
// unwrapping.
func IsConnectivity(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}

// ProtocolError indicates the API was reachable but rejected the request:
// bad credentials, malformed payload, unknown endpoint. Retrying will not
// self-heal these, so the loop treats them as fatal for the invocation.
type ProtocolError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Status is the HTTP status line text.
	Status string

	// URL is the request URL that produced the error.
	URL string

	// Detail is the error detail extracted from the response body, if any.
	Detail string
}

// Error implements the error interface for ProtocolError.
func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("%d %s (%s)", e.StatusCode, e.Status, e.URL)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsProtocol checks if an error is a ProtocolError using error unwrapping.
func IsProtocol(err error) bool {
	var protoErr *ProtocolError
	return errors.As(err, &protoErr)
}
