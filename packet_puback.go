//nolint:dupl // MQTT v3.1.1 defines separate packet types with the same structure
package mqttv3

// PubackPacket represents an MQTT PUBACK packet, the acknowledgement
// of a QoS 1 PUBLISH.
type PubackPacket struct {
	PacketID uint16
}

// Type returns the packet type.
func (p *PubackPacket) Type() PacketType { return PacketPUBACK }

// Size returns the total encoded size in bytes.
func (p *PubackPacket) Size() int { return packetSize(ackBodySize) }

// EncodeTo writes the complete packet into buf.
func (p *PubackPacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	return encodeAck(buf, PacketPUBACK, 0, p.PacketID)
}

// Validate validates the packet contents.
func (p *PubackPacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}

	return nil
}

// decodePuback decodes a PUBACK packet body.
func decodePuback(body []byte) (*PubackPacket, error) {
	id, err := decodeAckID(body)
	if err != nil {
		return nil, err
	}

	return &PubackPacket{PacketID: id}, nil
}
