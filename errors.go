package bspterm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrTrackerStopped reports a read on a tracking session after Stop. It is
// raised locally, without a network round trip.
var ErrTrackerStopped = errors.New("tracking session has been stopped")

// ConnectionError reports that the transport could not establish or lost the
// stream. The connection must be explicitly reopened before retrying.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "connection error: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a malformed or undecodable frame, or a response id
// that does not echo the request id. It indicates a client/server version
// mismatch and is never silently recovered.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return "protocol error: " + e.Reason
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// TerminalNotFoundError reports that the referenced terminal id is unknown
// to the server (code -32000).
type TerminalNotFoundError struct {
	Message string
}

func (e *TerminalNotFoundError) Error() string {
	return "terminal not found: " + e.Message
}

// TimeoutError reports that a server-side deadline elapsed (code -32001).
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	return "operation timed out: " + e.Message
}

// RPCError carries any other server-reported error code verbatim, with its
// message and optional structured data untouched.
type RPCError struct {
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// IsTerminalNotFound reports whether err is a terminal-not-found failure.
func IsTerminalNotFound(err error) bool {
	var target *TerminalNotFoundError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is a server-side timeout.
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}
