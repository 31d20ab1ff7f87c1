package mqttv3

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// IncomingPacket describes one packet read off the wire: the decoded
// fixed header and the raw body. The body aliases the shared buffer
// and is only valid until the next read into that buffer.
type IncomingPacket struct {
	Header FixedHeader
	Body   []byte
}

// WritePacket encodes pkt through the shared buffer and writes it to
// w in a single call. It fails with ErrBufferTooSmall before touching
// the wire when the packet does not fit.
func WritePacket(w io.Writer, pkt Packet, buf *FixedBuffer) (int, error) {
	if err := pkt.Validate(); err != nil {
		return 0, err
	}

	size := pkt.Size()
	if size > buf.Cap() {
		return 0, ErrBufferTooSmall
	}

	p, err := buf.take(size)
	if err != nil {
		return 0, err
	}

	n, err := pkt.EncodeTo(p)
	if err != nil {
		return 0, err
	}

	wn, err := w.Write(p[:n])
	if err != nil {
		return wn, NewTransportError("write", err)
	}

	if wn < n {
		return wn, NewTransportError("write", io.ErrShortWrite)
	}

	return wn, nil
}

// ReadPacket reads one complete packet from conn into the shared
// buffer, blocking until the packet arrives. A packet announcing a
// body larger than the buffer fails with ErrPacketTooLarge before any
// body byte is read; a body that ends short fails with a transport
// error.
func ReadPacket(conn Conn, buf *FixedBuffer) (*IncomingPacket, error) {
	var first [1]byte
	if _, err := io.ReadFull(conn, first[:]); err != nil {
		return nil, NewTransportError("read", err)
	}

	return readRest(conn, buf, first[0])
}

// TryReadPacket reads one complete packet from conn into the shared
// buffer, waiting at most window for the first byte. It returns
// (nil, nil) when no packet starts arriving in time. Once the first
// byte has arrived the rest of the packet is read blocking: a packet
// that stops short mid-way is a transport failure, not a timeout.
func TryReadPacket(conn Conn, buf *FixedBuffer, window time.Duration) (*IncomingPacket, error) {
	first, ok, err := readByteWindow(conn, window)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, nil
	}

	return readRest(conn, buf, first)
}

// readRest finishes reading a packet whose first header byte is
// already in hand.
func readRest(conn Conn, buf *FixedBuffer, first byte) (*IncomingPacket, error) {
	var header FixedHeader
	if err := header.decodeRest(first, conn); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPacketType),
			errors.Is(err, ErrVarintMalformed):
			return nil, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
		default:
			return nil, NewTransportError("read", err)
		}
	}

	if header.RemainingLength > buf.Cap() {
		return nil, ErrPacketTooLarge
	}

	body, err := buf.take(header.RemainingLength)
	if err != nil {
		return nil, err
	}

	if len(body) > 0 {
		if _, err := io.ReadFull(conn, body); err != nil {
			return nil, NewTransportError("read", err)
		}
	}

	return &IncomingPacket{Header: header, Body: body}, nil
}
