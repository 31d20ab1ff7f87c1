package mqttv3

// DisconnectPacket represents an MQTT DISCONNECT packet. In v3.1.1 it
// carries no body and only flows from client to broker.
type DisconnectPacket struct{}

// Type returns the packet type.
func (p *DisconnectPacket) Type() PacketType { return PacketDISCONNECT }

// Size returns the total encoded size in bytes.
func (p *DisconnectPacket) Size() int { return 2 }

// EncodeTo writes the complete packet into buf.
func (p *DisconnectPacket) EncodeTo(buf []byte) (int, error) {
	header := FixedHeader{PacketType: PacketDISCONNECT}
	return header.EncodeTo(buf)
}

// Validate validates the packet contents.
func (p *DisconnectPacket) Validate() error {
	return nil
}
