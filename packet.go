package mqttv3

import "errors"

// ErrInvalidPacketID is returned when a packet carries the reserved
// zero identifier.
var ErrInvalidPacketID = errors.New("invalid packet identifier")

// Packet is the interface implemented by all outgoing MQTT control
// packets. Packets report their exact encoded size before encoding, so
// the caller can check it against the shared buffer capacity without
// allocating.
type Packet interface {
	// Type returns the packet type.
	Type() PacketType

	// Size returns the total encoded size in bytes, fixed header
	// included.
	Size() int

	// EncodeTo writes the complete packet into p. The caller guarantees
	// that p holds at least Size() bytes. Returns the number of bytes
	// written.
	EncodeTo(p []byte) (int, error)

	// Validate validates the packet contents.
	Validate() error
}

// packetSize returns the total encoded size for a body of the given
// length.
func packetSize(bodySize int) int {
	h := FixedHeader{RemainingLength: bodySize}
	return h.Size() + bodySize
}

// Message represents an application message carried by a PUBLISH
// packet.
type Message struct {
	// Topic is the topic name the message is published to or was
	// received from.
	Topic string

	// Payload is the application message payload. For incoming messages
	// it aliases the shared buffer and is only valid until the next
	// read.
	Payload []byte

	// QoS is the quality of service level the message was delivered
	// with.
	QoS byte

	// Retain indicates a retained message.
	Retain bool

	// Dup indicates a re-delivery.
	Dup bool

	// PacketID is the packet identifier, present only when QoS > 0.
	PacketID uint16
}

// Clone creates a deep copy of the message, detaching the payload from
// the shared buffer.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}

	clone := &Message{
		Topic:    m.Topic,
		QoS:      m.QoS,
		Retain:   m.Retain,
		Dup:      m.Dup,
		PacketID: m.PacketID,
	}

	if m.Payload != nil {
		clone.Payload = make([]byte, len(m.Payload))
		copy(clone.Payload, m.Payload)
	}

	return clone
}
