package mqttv3

// PingreqPacket represents an MQTT PINGREQ packet.
type PingreqPacket struct{}

// Type returns the packet type.
func (p *PingreqPacket) Type() PacketType { return PacketPINGREQ }

// Size returns the total encoded size in bytes.
func (p *PingreqPacket) Size() int { return 2 }

// EncodeTo writes the complete packet into buf.
func (p *PingreqPacket) EncodeTo(buf []byte) (int, error) {
	header := FixedHeader{PacketType: PacketPINGREQ}
	return header.EncodeTo(buf)
}

// Validate validates the packet contents.
func (p *PingreqPacket) Validate() error {
	return nil
}

// PingrespPacket represents an MQTT PINGRESP packet.
type PingrespPacket struct{}

// decodePingresp decodes a PINGRESP packet body. PINGRESP carries no
// body, so the only check is that the remaining length was zero.
func decodePingresp(body []byte) (*PingrespPacket, error) {
	if len(body) != 0 {
		return nil, ErrMalformedPacket
	}

	return &PingrespPacket{}, nil
}
