package mqttv3

import (
	"errors"
)

// PUBLISH packet errors.
var (
	ErrInvalidQoS       = errors.New("invalid QoS level")
	ErrPacketIDRequired = errors.New("packet identifier required for QoS > 0")
)

// PublishPacket represents an MQTT PUBLISH packet.
type PublishPacket struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retain   bool
	Dup      bool
	PacketID uint16 // required when QoS > 0
}

// Type returns the packet type.
func (p *PublishPacket) Type() PacketType { return PacketPUBLISH }

// Size returns the total encoded size in bytes.
func (p *PublishPacket) Size() int {
	return packetSize(p.bodySize())
}

func (p *PublishPacket) bodySize() int {
	size := stringSize(p.Topic) + len(p.Payload)
	if p.QoS > 0 {
		size += 2
	}
	return size
}

// EncodeTo writes the complete packet into buf.
func (p *PublishPacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	header := FixedHeader{
		PacketType:      PacketPUBLISH,
		RemainingLength: p.bodySize(),
	}
	header.SetDUP(p.Dup)
	header.SetQoS(p.QoS)
	header.SetRetain(p.Retain)

	n, err := header.EncodeTo(buf)
	if err != nil {
		return n, err
	}

	n += putString(buf[n:], p.Topic)

	if p.QoS > 0 {
		n += putUint16(buf[n:], p.PacketID)
	}

	n += copy(buf[n:], p.Payload)
	return n, nil
}

// Validate validates the packet contents.
func (p *PublishPacket) Validate() error {
	if err := ValidateTopicName(p.Topic); err != nil {
		return err
	}

	if err := validateString(p.Topic); err != nil {
		return err
	}

	if p.QoS > 2 {
		return ErrInvalidQoS
	}

	if p.QoS > 0 && p.PacketID == 0 {
		return ErrPacketIDRequired
	}

	return nil
}

// decodePublish decodes a PUBLISH packet body. The header carries the
// DUP, QoS and RETAIN flags. The returned message payload aliases body.
func decodePublish(header FixedHeader, body []byte) (*Message, error) {
	if err := header.ValidateFlags(); err != nil {
		return nil, err
	}

	topic, rest, err := readString(body)
	if err != nil {
		return nil, err
	}

	if topic == "" {
		return nil, ErrMalformedPacket
	}

	msg := &Message{
		Topic:  topic,
		QoS:    header.QoS(),
		Retain: header.Retain(),
		Dup:    header.DUP(),
	}

	// A packet identifier is only present for QoS 1 and 2 deliveries.
	if msg.QoS > 0 {
		msg.PacketID, rest, err = readUint16(rest)
		if err != nil {
			return nil, err
		}
	}

	msg.Payload = rest
	return msg, nil
}
