package mqttv3

import (
	"errors"
	"fmt"
)

// Sentinel errors for protocol violations - check with errors.Is().
// Every specific violation wraps ErrProtocolViolation, so callers can
// match the whole category with a single check.
var (
	// ErrProtocolViolation is the category for any peer behavior that
	// breaks the protocol. Violations are not recoverable within a
	// session.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrPacketTooLarge is returned when an incoming packet announces a
	// remaining length that exceeds the shared buffer capacity.
	ErrPacketTooLarge = fmt.Errorf("%w: incoming packet exceeds buffer capacity", ErrProtocolViolation)

	// ErrBufferTooSmall is returned when an outgoing packet does not fit
	// in the shared buffer.
	ErrBufferTooSmall = fmt.Errorf("%w: outgoing packet exceeds buffer capacity", ErrProtocolViolation)

	// ErrPacketIDMismatch is returned when an acknowledgement carries a
	// packet identifier that does not match the outstanding request.
	ErrPacketIDMismatch = fmt.Errorf("%w: unexpected packet identifier", ErrProtocolViolation)

	// ErrUnexpectedPacket is returned when the broker sends a packet
	// type the session cannot handle at that point.
	ErrUnexpectedPacket = fmt.Errorf("%w: unexpected packet type", ErrProtocolViolation)

	// ErrMalformedPacket is returned when a packet body cannot be
	// decoded.
	ErrMalformedPacket = fmt.Errorf("%w: malformed packet", ErrProtocolViolation)
)

// Sentinel errors for session flow - check with errors.Is().
var (
	// ErrConnackRejected is returned when the broker answers CONNECT
	// with a non-zero return code.
	ErrConnackRejected = errors.New("connection refused by broker")

	// ErrSubscriptionRejected is returned when a SUBACK reports at least
	// one topic filter as rejected, or no SUBACK arrives at all.
	ErrSubscriptionRejected = errors.New("subscription rejected by broker")

	// ErrRetryExhausted is returned when a retried operation has used up
	// all configured attempts.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrShutdownTimeout is returned when the broker does not close its
	// side of the connection during the graceful shutdown window. The
	// session absorbs it after logging.
	ErrShutdownTimeout = errors.New("graceful shutdown timed out")
)

// TransportError wraps a failure of the underlying byte stream.
// Extract with errors.As().
type TransportError struct {
	Op  string // "dial", "read" or "write"
	Err error
}

func (e *TransportError) Error() string {
	return "transport " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError creates a new TransportError.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// ConnackError contains the return code of a rejected CONNECT.
// Extract with errors.As().
type ConnackError struct {
	err  error
	Code ConnackCode
}

func (e *ConnackError) Error() string {
	return "connect refused: " + e.Code.String()
}

func (e *ConnackError) Unwrap() error { return e.err }

// NewConnackError creates a new ConnackError from a return code.
func NewConnackError(code ConnackCode) *ConnackError {
	return &ConnackError{
		err:  ErrConnackRejected,
		Code: code,
	}
}

// RetryError contains details about an operation that failed on every
// attempt of its retry sequence. Extract with errors.As().
type RetryError struct {
	err      error
	Op       string // "connect" or "subscribe"
	Attempts int
	LastErr  error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s retry exhausted after %d attempts: %v", e.Op, e.Attempts, e.LastErr)
}

func (e *RetryError) Unwrap() error { return e.err }

// NewRetryError creates a new RetryError.
func NewRetryError(op string, attempts int, lastErr error) *RetryError {
	return &RetryError{
		err:      ErrRetryExhausted,
		Op:       op,
		Attempts: attempts,
		LastErr:  lastErr,
	}
}
