package mqttv3

// UnsubackPacket represents an MQTT UNSUBACK packet.
type UnsubackPacket struct {
	PacketID uint16
}

// decodeUnsuback decodes an UNSUBACK packet body.
func decodeUnsuback(body []byte) (*UnsubackPacket, error) {
	if len(body) != 2 {
		return nil, ErrMalformedPacket
	}

	id, _, err := readUint16(body)
	if err != nil {
		return nil, err
	}

	return &UnsubackPacket{PacketID: id}, nil
}
