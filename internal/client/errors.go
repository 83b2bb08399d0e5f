package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed API call. Transport-level failures
// (KindNetwork, KindServer) are retried inside the client; everything else
// reaches the caller on the first occurrence.
type ErrorKind string

const (
	KindAuthExpired ErrorKind = "AUTH_EXPIRED"
	KindForbidden   ErrorKind = "FORBIDDEN"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindBadRequest  ErrorKind = "BAD_REQUEST"
	KindServer      ErrorKind = "SERVER_ERROR"
	KindNetwork     ErrorKind = "NETWORK_ERROR"
	KindShape       ErrorKind = "BAD_RESPONSE"
)

// APIError is the single error type produced by the HTTP layer.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindServer
}

func newAPIError(kind ErrorKind, status int, message string, err error) *APIError {
	return &APIError{Kind: kind, Status: status, Message: message, Err: err}
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == kind
}

// DomainError is an application-level failure reported by the server with
// HTTP 200 and success:false. It is never retried and its Message is meant
// to be shown to the user verbatim.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// IsDomain reports whether err is a server-side domain failure.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func domainError(message, fallback string) *DomainError {
	if message == "" {
		message = fallback
	}
	return &DomainError{Message: message}
}
