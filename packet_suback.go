package mqttv3

// SubackFailure is the SUBACK status code reporting a rejected topic
// filter. The broker sets the top bit, the lower bits are unspecified.
const SubackFailure = 0x80

// SubackPacket represents an MQTT SUBACK packet.
type SubackPacket struct {
	PacketID uint16

	// ReturnCodes holds one status byte per requested topic filter, in
	// request order. The slice aliases the shared buffer.
	ReturnCodes []byte
}

// Rejected returns true when the status byte at index i reports a
// rejected filter.
func (p *SubackPacket) Rejected(i int) bool {
	return p.ReturnCodes[i]&SubackFailure != 0
}

// decodeSuback decodes a SUBACK packet body.
func decodeSuback(body []byte) (*SubackPacket, error) {
	// Packet identifier plus at least one status byte.
	if len(body) < 3 {
		return nil, ErrMalformedPacket
	}

	id, rest, err := readUint16(body)
	if err != nil {
		return nil, err
	}

	return &SubackPacket{
		PacketID:    id,
		ReturnCodes: rest,
	}, nil
}
