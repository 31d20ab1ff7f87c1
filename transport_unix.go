package mqttv3

import (
	"context"
	"net"
)

// UnixDialer connects to brokers over Unix domain sockets.
// *net.UnixConn supports half-close, so graceful shutdown works the
// same as over TCP.
type UnixDialer struct{}

// NewUnixDialer creates a new Unix socket dialer.
func NewUnixDialer() *UnixDialer {
	return &UnixDialer{}
}

// Dial connects to the Unix socket at the given path.
// The address should be the socket file path (e.g., "/var/run/mqtt.sock").
func (d *UnixDialer) Dial(ctx context.Context, address string) (Conn, error) {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "unix", address)
	if err != nil {
		return nil, NewTransportError("dial", err)
	}

	if unix, ok := conn.(*net.UnixConn); ok {
		return unix, nil
	}

	return wrapNetConn(conn), nil
}
