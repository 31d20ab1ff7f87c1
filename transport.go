package mqttv3

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"time"
)

// Conn is the connection surface the session needs from a transport:
// a byte stream with read deadlines and a way to close only the send
// side for graceful shutdown. *net.TCPConn satisfies it directly.
type Conn interface {
	io.Reader
	io.Writer

	// Close closes the connection.
	Close() error

	// CloseWrite shuts down the sending side of the connection,
	// signalling the peer that no more data will arrive.
	CloseWrite() error

	// SetReadDeadline sets the deadline for future Read calls. A zero
	// value clears the deadline.
	SetReadDeadline(t time.Time) error
}

// Dialer establishes broker connections.
type Dialer interface {
	// Dial connects to the address with the given context.
	Dial(ctx context.Context, address string) (Conn, error)
}

// TCPDialer connects over plain TCP.
type TCPDialer struct {
	// Timeout bounds the connection attempt. Zero means no timeout
	// beyond the context.
	Timeout time.Duration
}

// Dial connects to the address with the given context.
func (d *TCPDialer) Dial(ctx context.Context, address string) (Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, NewTransportError("dial", err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		return tcp, nil
	}

	return wrapNetConn(conn), nil
}

// TLSDialer connects over TLS. *tls.Conn half-closes by sending a
// close_notify alert, so graceful shutdown works the same as over
// plain TCP.
type TLSDialer struct {
	// Config is the TLS configuration. Nil means sane defaults with
	// the system roots.
	Config *tls.Config

	// Timeout bounds the connection attempt. Zero means no timeout
	// beyond the context.
	Timeout time.Duration
}

// Dial connects to the address with the given context.
func (d *TLSDialer) Dial(ctx context.Context, address string) (Conn, error) {
	dialer := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: d.Timeout},
		Config:    d.Config,
	}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, NewTransportError("dial", err)
	}

	if tc, ok := conn.(*tls.Conn); ok {
		return tc, nil
	}

	return wrapNetConn(conn), nil
}

// netConn adapts a generic net.Conn to the Conn interface for
// transports that cannot half-close, such as proxied streams.
type netConn struct {
	net.Conn
}

// wrapNetConn wraps nc, degrading CloseWrite to a no-op when the
// underlying connection does not support half-close.
func wrapNetConn(nc net.Conn) Conn {
	return &netConn{Conn: nc}
}

func (c *netConn) CloseWrite() error {
	if cw, ok := c.Conn.(interface{ CloseWrite() error }); ok {
		return cw.CloseWrite()
	}
	return nil
}

// readByteWindow reads a single byte from conn, waiting at most the
// given window. It reports ok=false without error when nothing arrived
// in time, which call sites treat as "no packet yet".
func readByteWindow(conn Conn, window time.Duration) (byte, bool, error) {
	if err := conn.SetReadDeadline(time.Now().Add(window)); err != nil {
		return 0, false, NewTransportError("read", err)
	}

	var buf [1]byte
	n, err := conn.Read(buf[:])

	// Clear the deadline so later blocking reads are unaffected.
	if derr := conn.SetReadDeadline(time.Time{}); derr != nil && err == nil {
		return 0, false, NewTransportError("read", derr)
	}

	if n == 1 {
		return buf[0], true, nil
	}

	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return 0, false, nil
		}
		return 0, false, NewTransportError("read", err)
	}

	return 0, false, nil
}

// awaitPeerClose performs the read side of a graceful shutdown after
// the send side has been closed: it polls the connection until the
// peer closes its side, giving up after maxPolls reads of pollDelay
// each. Stray inbound data is discarded. Returns ErrShutdownTimeout
// when the peer never closed.
func awaitPeerClose(conn Conn, maxPolls int, pollDelay time.Duration) error {
	var buf [32]byte

	for range maxPolls {
		if err := conn.SetReadDeadline(time.Now().Add(pollDelay)); err != nil {
			return NewTransportError("read", err)
		}

		_, err := conn.Read(buf[:])
		if err == nil {
			continue
		}

		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			continue
		}

		// EOF or reset: the peer is done.
		return nil
	}

	return ErrShutdownTimeout
}
