package mqttv3

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// WebSocketSubprotocol is the MQTT WebSocket subprotocol.
	WebSocketSubprotocol = "mqtt"
)

var errNonBinaryFrame = fmt.Errorf("%w: non-binary websocket frame", ErrProtocolViolation)

// wsFrame is one message delivered by the read pump, or the error that
// ended it.
type wsFrame struct {
	data []byte
	err  error
}

// WSConn adapts a WebSocket connection to the Conn interface. Incoming
// binary messages are reframed into a byte stream. Reads are served
// through a pump goroutine because gorilla treats any read error,
// deadline expiry included, as fatal for the connection, while Conn
// read deadlines must be recoverable.
type WSConn struct {
	conn   *websocket.Conn
	frames chan wsFrame
	done   chan struct{}

	closeOnce sync.Once

	// Current message being drained, plus the sticky error that ended
	// the pump. Only touched by Read.
	readBuf []byte
	readPos int
	readErr error

	mu         sync.Mutex
	deadline   time.Time
	sendClosed bool
}

// newWSConn wraps conn and starts its read pump.
func newWSConn(conn *websocket.Conn) *WSConn {
	c := &WSConn{
		conn:   conn,
		frames: make(chan wsFrame, 1),
		done:   make(chan struct{}),
	}

	go c.readPump()

	return c
}

// readPump moves messages from the WebSocket into the frame channel
// until the connection fails or is closed. MQTT over WebSocket uses
// binary messages only.
func (c *WSConn) readPump() {
	for {
		messageType, data, err := c.conn.ReadMessage()

		frame := wsFrame{data: data, err: err}
		if err == nil && messageType != websocket.BinaryMessage {
			frame = wsFrame{err: errNonBinaryFrame}
		}

		select {
		case c.frames <- frame:
		case <-c.done:
			return
		}

		if frame.err != nil {
			return
		}
	}
}

// Read reads data from the connection, honouring the read deadline.
func (c *WSConn) Read(p []byte) (int, error) {
	if c.readPos < len(c.readBuf) {
		n := copy(p, c.readBuf[c.readPos:])
		c.readPos += n
		return n, nil
	}

	if c.readErr != nil {
		return 0, c.readErr
	}

	c.mu.Lock()
	deadline := c.deadline
	c.mu.Unlock()

	var frame wsFrame

	if deadline.IsZero() {
		select {
		case frame = <-c.frames:
		case <-c.done:
			return 0, net.ErrClosed
		}
	} else {
		wait := time.Until(deadline)
		if wait <= 0 {
			return 0, os.ErrDeadlineExceeded
		}

		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case frame = <-c.frames:
		case <-timer.C:
			return 0, os.ErrDeadlineExceeded
		case <-c.done:
			return 0, net.ErrClosed
		}
	}

	if frame.err != nil {
		c.readErr = frame.err
		return 0, frame.err
	}

	c.readBuf = frame.data
	c.readPos = copy(p, c.readBuf)

	return c.readPos, nil
}

// Write writes data to the connection as one binary message.
func (c *WSConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendClosed {
		return 0, net.ErrClosed
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}

	return len(b), nil
}

// CloseWrite sends a close control frame, telling the peer that no
// more data will arrive. The peer's close reply surfaces as a read
// error, which the shutdown path treats as the connection winding
// down.
func (c *WSConn) CloseWrite() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendClosed {
		return nil
	}
	c.sendClosed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	return c.conn.WriteMessage(websocket.CloseMessage, msg)
}

// Close closes the connection.
func (c *WSConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

// SetReadDeadline sets the deadline for future Read calls. A zero
// value clears the deadline. The deadline only bounds the wait for the
// next message, it does not fail the connection.
func (c *WSConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	c.deadline = t
	c.mu.Unlock()
	return nil
}

// WSDialer connects to brokers over WebSocket.
type WSDialer struct {
	// Dialer is the underlying WebSocket dialer.
	Dialer *websocket.Dialer

	// Header is the HTTP header to send with the handshake.
	Header http.Header
}

// NewWSDialer creates a new WebSocket dialer with the MQTT
// subprotocol.
func NewWSDialer() *WSDialer {
	return &WSDialer{
		Dialer: &websocket.Dialer{
			Subprotocols:    []string{WebSocketSubprotocol},
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Dial connects to the WebSocket address (e.g., "ws://broker:8080/mqtt").
func (d *WSDialer) Dial(ctx context.Context, address string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, address, d.Header)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, NewTransportError("dial", err)
	}

	return newWSConn(conn), nil
}
