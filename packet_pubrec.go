//nolint:dupl // MQTT v3.1.1 defines separate packet types with the same structure
package mqttv3

// PubrecPacket represents an MQTT PUBREC packet, the first
// acknowledgement of a QoS 2 PUBLISH.
type PubrecPacket struct {
	PacketID uint16
}

// Type returns the packet type.
func (p *PubrecPacket) Type() PacketType { return PacketPUBREC }

// Size returns the total encoded size in bytes.
func (p *PubrecPacket) Size() int { return packetSize(ackBodySize) }

// EncodeTo writes the complete packet into buf.
func (p *PubrecPacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	return encodeAck(buf, PacketPUBREC, 0, p.PacketID)
}

// Validate validates the packet contents.
func (p *PubrecPacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}

	return nil
}

// decodePubrec decodes a PUBREC packet body.
func decodePubrec(body []byte) (*PubrecPacket, error) {
	id, err := decodeAckID(body)
	if err != nil {
		return nil, err
	}

	return &PubrecPacket{PacketID: id}, nil
}
