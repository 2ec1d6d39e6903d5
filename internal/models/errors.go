package models

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Remote operation errors
var (
	ErrMalformedResult = errors.New("malformed result")
	ErrInFlight        = errors.New("request already in progress")
	ErrBadResponse     = errors.New("unreadable response")
)

// Report artifact errors
var (
	ErrNoArtifact = errors.New("no report has been generated")
)

// Rendering errors. ErrUndefinedRatio never reaches the user; the renderer
// maps it to a "N/A" display value.
var (
	ErrUndefinedRatio = errors.New("ratio undefined for zero denominator")
)

// Session related errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// TransportError reports that a remote operation could not complete:
// the network failed, the request timed out or the body was unreadable.
type TransportError struct {
	Op  string
	Err error
}

func (te *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", te.Op, te.Err)
}

func (te *TransportError) Unwrap() error {
	return te.Err
}

// UserMessage describes the failure without addresses or wire details.
func (te *TransportError) UserMessage() string {
	var netErr net.Error
	switch {
	case errors.Is(te.Err, context.DeadlineExceeded),
		errors.As(te.Err, &netErr) && netErr.Timeout():
		return te.Op + " timed out"
	case errors.Is(te.Err, context.Canceled):
		return te.Op + " was cancelled"
	case errors.Is(te.Err, ErrBadResponse):
		return te.Op + " failed: the service sent an unreadable response"
	default:
		return te.Op + " failed: the service could not be reached"
	}
}

// RejectedError is a well-formed failure response. Reason is the message
// supplied by the server and is safe to show to the user.
type RejectedError struct {
	Op     string
	Reason string
}

func (re *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", re.Op, re.Reason)
}
