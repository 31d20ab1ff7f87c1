//nolint:dupl // MQTT v3.1.1 defines separate packet types with the same structure
package mqttv3

// PubcompPacket represents an MQTT PUBCOMP packet, the final
// acknowledgement of a QoS 2 exchange.
type PubcompPacket struct {
	PacketID uint16
}

// Type returns the packet type.
func (p *PubcompPacket) Type() PacketType { return PacketPUBCOMP }

// Size returns the total encoded size in bytes.
func (p *PubcompPacket) Size() int { return packetSize(ackBodySize) }

// EncodeTo writes the complete packet into buf.
func (p *PubcompPacket) EncodeTo(buf []byte) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	return encodeAck(buf, PacketPUBCOMP, 0, p.PacketID)
}

// Validate validates the packet contents.
func (p *PubcompPacket) Validate() error {
	if p.PacketID == 0 {
		return ErrInvalidPacketID
	}

	return nil
}

// decodePubcomp decodes a PUBCOMP packet body.
func decodePubcomp(body []byte) (*PubcompPacket, error) {
	id, err := decodeAckID(body)
	if err != nil {
		return nil, err
	}

	return &PubcompPacket{PacketID: id}, nil
}
