package mqttv3

// PubrelPacket represents an MQTT PUBREL packet, the release step of a
// QoS 2 exchange.
type PubrelPacket struct {
	PacketID uint16
}

// Type returns the packet type.
func (p *PubrelPacket) Type() PacketType { return PacketPUBREL }

// Size returns the total encoded size in bytes.
func (p *PubrelPacket) Size() int { return packetSize(ackBodySize) }

// EncodeTo writes the complete packet into buf.
func (p *PubrelPacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	// PUBREL must have flags 0x02
	return encodeAck(buf, PacketPUBREL, 0x02, p.PacketID)
}

// Validate validates the packet contents.
func (p *PubrelPacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}

	return nil
}

// decodePubrel decodes a PUBREL packet body.
func decodePubrel(body []byte) (*PubrelPacket, error) {
	id, err := decodeAckID(body)
	if err != nil {
		return nil, err
	}

	return &PubrelPacket{PacketID: id}, nil
}
